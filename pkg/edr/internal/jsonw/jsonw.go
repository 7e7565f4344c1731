// Package jsonw provides an insertion ordered JSON object node. The EDR
// response formats are sensitive to member order, which the standard
// library map based marshalling cannot guarantee.
package jsonw

import (
	"bytes"
	"encoding/json"
)

type member struct {
	key   string
	value any
}

// Object is a JSON object node that marshals its members in insertion
// order, with compact output and no trailing separators.
type Object struct {
	members []member
}

func Obj() *Object {
	return &Object{}
}

// Add appends a member to the object. Values are encoded with
// encoding/json, so nested *Object values and json.RawMessage work as
// expected. Adding the same key twice produces duplicate members, it is
// the caller's responsibility not to.
func (o *Object) Add(key string, value any) *Object {
	o.members = append(o.members, member{key: key, value: value})
	return o
}

func (o *Object) Len() int {
	return len(o.members)
}

func (o *Object) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')

	for i, m := range o.members {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		value, err := json.Marshal(m.value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
