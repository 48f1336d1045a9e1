package report

import (
	"github.com/vovanec/report/spantrace"
	"github.com/vovanec/report/stack"
)

// ErrorOrigin is the interface that provides the Origin() method,
// which returns information about the error origin or where
// the error first occurred.
type ErrorOrigin interface {
	Origin() stack.Origin
}

// StructuredError is the interface that provides the StructuredError() method,
// which returns an error string with attached log attributes if any are present.
type StructuredError interface {
	StructuredError() string
}

var (
	_ ErrorOrigin      = (*Report)(nil)
	_ StructuredError  = (*Report)(nil)
	_ stack.Tracer     = (*Report)(nil)
	_ spantrace.Tracer = (*Report)(nil)
	_ stack.Tracer     = (*PanicError)(nil)
)
