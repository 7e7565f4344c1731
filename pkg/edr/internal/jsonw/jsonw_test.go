package jsonw

import (
	"encoding/json"
	"testing"

	"github.com/matryer/is"
)

func TestEmptyObject(t *testing.T) {
	is := is.New(t)

	b, err := json.Marshal(Obj())
	is.NoErr(err)
	is.Equal(string(b), `{}`)
}

func TestSingleMember(t *testing.T) {
	is := is.New(t)

	b, err := json.Marshal(Obj().Add("a", 1))
	is.NoErr(err)
	is.Equal(string(b), `{"a":1}`)
}

func TestMembersKeepInsertionOrder(t *testing.T) {
	is := is.New(t)

	o := Obj().Add("z", 1).Add("a", "two").Add("m", []int{3})

	b, err := json.Marshal(o)
	is.NoErr(err)
	is.Equal(string(b), `{"z":1,"a":"two","m":[3]}`)
}

func TestNestedObjects(t *testing.T) {
	is := is.New(t)

	o := Obj().Add("outer", Obj().Add("inner", Obj()))

	b, err := json.Marshal(o)
	is.NoErr(err)
	is.Equal(string(b), `{"outer":{"inner":{}}}`)
}

func TestRawMessageMembers(t *testing.T) {
	is := is.New(t)

	o := Obj().Add("doc", json.RawMessage(`{"id":"a"}`))

	b, err := json.Marshal(o)
	is.NoErr(err)
	is.Equal(string(b), `{"doc":{"id":"a"}}`)
}

func TestNilPointerRendersAsNull(t *testing.T) {
	is := is.New(t)

	var missing *float64
	o := Obj().Add("value", missing)

	b, err := json.Marshal(o)
	is.NoErr(err)
	is.Equal(string(b), `{"value":null}`)
}
