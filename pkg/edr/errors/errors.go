package errors

import "fmt"

// InvalidParameterError signals that a parameter handed to the renderer
// violates the data interface contract. It identifies the offending
// parameter and field so that the failure can be logged in an actionable
// way by the surrounding HTTP layer.
type InvalidParameterError struct {
	Parameter string
	Field     string
	msg       string
}

func NewInvalidParameterError(parameter, field, msg string) InvalidParameterError {
	return InvalidParameterError{Parameter: parameter, Field: field, msg: msg}
}

func (ipe InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter \"%s\": %s: %s", ipe.Parameter, ipe.Field, ipe.msg)
}

// InvalidCollectionError signals that collection metadata is not
// renderable, such as a temporal extent without a TRS.
type InvalidCollectionError struct {
	Collection string
	Field      string
	msg        string
}

func NewInvalidCollectionError(collection, field, msg string) InvalidCollectionError {
	return InvalidCollectionError{Collection: collection, Field: field, msg: msg}
}

func (ice InvalidCollectionError) Error() string {
	return fmt.Sprintf("invalid collection \"%s\": %s: %s", ice.Collection, ice.Field, ice.msg)
}
