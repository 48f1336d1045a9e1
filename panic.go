package report

import (
	"context"
	"fmt"

	"github.com/vovanec/report/stack"
)

// PanicError is the error a recovered panic becomes. Trace starts at the
// function that panicked, so handlers render it instead of capturing the
// stack of the recovering code.
type PanicError struct {
	Value    any
	Location stack.Origin
	Trace    stack.Trace
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

func (e *PanicError) StackTrace() stack.Trace {
	return e.Trace
}

// Recover stops a panic and stores it in *errp as a report built with the
// installed hook. It must be deferred directly by the function whose panics
// it handles:
//
//	func run() (err error) {
//		defer report.Recover(&err)
//		...
//	}
//
// *errp is left untouched when there is no panic.
func Recover(errp *error) {
	if v := recover(); v != nil {
		*errp = Factory{}.recovered(v, stack.Capture(0))
	}
}

// Recover is the Factory form of the package-level Recover.
func (f Factory) Recover(errp *error) {
	if v := recover(); v != nil {
		*errp = f.recovered(v, stack.Capture(0))
	}
}

func (f Factory) recovered(v any, st stack.Trace) *Report {
	pe := &PanicError{Value: v, Trace: stack.TrimPanic(st)}
	if len(pe.Trace) > 0 {
		pe.Location = pe.Trace[0].Origin()
	}
	return f.build(context.Background(), pe, pe.Location, nil)
}
