package report

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/vovanec/report/spantrace"
	"github.com/vovanec/report/stack"
)

// ErrDowncastMismatch is returned by Downcast when the report's error is
// not of the requested type.
var ErrDowncastMismatch = errors.New("report: downcast mismatch")

// Downcast returns the report's own error as a T. Only that error is
// tested, never its causes; use errors.As to search the chain.
func Downcast[T any](r *Report) (T, error) {
	if v, ok := DowncastRef[T](r); ok {
		return v, nil
	}
	var zero T
	var have any
	if r != nil {
		have = r.err
	}
	return zero, fmt.Errorf("%w: have %T, want %s", ErrDowncastMismatch, have, reflect.TypeFor[T]())
}

// DowncastRef is the comma-ok form of Downcast.
func DowncastRef[T any](r *Report) (T, bool) {
	if r == nil {
		var zero T
		return zero, false
	}
	v, ok := r.err.(T)
	return v, ok
}

// ContextValue asks the report's handler for captured data of type T, such
// as a stack.Trace. It reports false when the handler holds none.
func ContextValue[T any](r *Report) (T, bool) {
	var v T
	if r == nil || r.handler == nil {
		return v, false
	}
	ok := r.handler.Extract(&v)
	return v, ok
}

// StackTrace returns the backtrace captured for the report, if any.
func (r *Report) StackTrace() stack.Trace {
	st, _ := ContextValue[stack.Trace](r)
	return st
}

// SpanTrace returns the span trace captured for the report, if any.
func (r *Report) SpanTrace() *spantrace.SpanTrace {
	st, _ := ContextValue[*spantrace.SpanTrace](r)
	return st
}
