package diag

import "fmt"

// ErrorTag is used to parameterize [Error] into different concrete types. The
// ErrorTag method is called with a zero receiver, and its return value is
// used as a prefix of the error message.
type ErrorTag interface {
	ErrorTag() string
}

// Error represents errors with a source context.
type Error[T ErrorTag] struct {
	Message string
	Context Context
}

// Error returns a plain text representation of the error.
func (e *Error[T]) Error() string {
	var tag T
	return fmt.Sprintf("%s: %s: %s", tag.ErrorTag(), e.Context.Describe(), e.Message)
}

// Range returns the range of the error.
func (e *Error[T]) Range() Ranging {
	return e.Context.Range()
}
