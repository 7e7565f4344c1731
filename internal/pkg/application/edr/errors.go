package edr

type NotFoundError struct {
	msg string
}

func NewNotFoundError(msg string) NotFoundError {
	return NotFoundError{msg: msg}
}

func (nfe NotFoundError) Error() string {
	return nfe.msg
}

type InvalidQueryError struct {
	msg string
}

func NewInvalidQueryError(msg string) InvalidQueryError {
	return InvalidQueryError{msg: msg}
}

func (iqe InvalidQueryError) Error() string {
	return iqe.msg
}
