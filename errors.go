package report

// messageError is the leaf built by Msg. It has no source.
type messageError struct {
	msg string
}

func (e *messageError) Error() string {
	return e.msg
}

// contextError is one link added by Wrap: a message over an existing
// error. Error returns the message alone; the source is reached through
// Unwrap.
type contextError struct {
	msg    string
	source error
}

func (e *contextError) Error() string {
	return e.msg
}

func (e *contextError) Unwrap() error {
	return e.source
}
