package stack

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureHere() Trace {
	return Capture(0)
}

func TestCapture(t *testing.T) {
	st := captureHere()
	require.NotEmpty(t, st)

	assert.True(t, strings.HasSuffix(st[0].Function, "stack.captureHere"), st[0].Function)
	assert.True(t, strings.HasSuffix(st[0].File, "stack_test.go"), st[0].File)
	assert.True(t, strings.HasSuffix(st[1].Function, "stack.TestCapture"), st[1].Function)
}

func TestCaller(t *testing.T) {
	o := Caller(0)
	assert.False(t, o.Empty())
	assert.True(t, strings.HasSuffix(o.File, "stack_test.go"))
	assert.Positive(t, o.Line)

	assert.True(t, Origin{}.Empty())
	assert.Equal(t, "a.go:3", Origin{File: "a.go", Line: 3}.String())
}

type tracedErr struct {
	st Trace
}

func (e *tracedErr) Error() string     { return "traced" }
func (e *tracedErr) StackTrace() Trace { return e.st }

func TestOf(t *testing.T) {
	_, ok := Of(errors.New("plain"))
	assert.False(t, ok)

	_, ok = Of(&tracedErr{})
	assert.False(t, ok, "empty trace does not count")

	st, ok := Of(&tracedErr{st: Trace{{Function: "f", File: "f.go", Line: 1}}})
	assert.True(t, ok)
	assert.Equal(t, "f f.go:1", st.String())
}

func TestTrimInternal(t *testing.T) {
	st := Trace{
		{Function: ModulePath + "/handler/backtrace.Hook.func1", File: "/src/report/handler/backtrace/backtrace.go"},
		{Function: ModulePath + ".New", File: "/src/report/report.go"},
		{Function: "main.run", File: "/src/app/main.go"},
		{Function: ModulePath + ".Wrap", File: "/src/report/wrap.go"},
	}

	trimmed := TrimInternal(st)
	assert.Len(t, trimmed, 2)
	assert.Equal(t, "main.run", trimmed[0].Function)

	// Test functions of this module are kept.
	inTest := Trace{{Function: ModulePath + ".TestX", File: "/src/report/report_test.go"}}
	assert.Len(t, TrimInternal(inTest), 1)

	assert.Nil(t, TrimInternal(st[:2]))
}

func TestInternal(t *testing.T) {
	for fn, want := range map[string]bool{
		ModulePath + ".Wrap":                   true,
		ModulePath + "/handler/rich.Hook":      true,
		"github.com/vovanec/reporting.Wrap":    false,
		"github.com/vovanec/report2/x.Capture": false,
		"main.run":                             false,
	} {
		assert.Equal(t, want, Frame{Function: fn, File: "/src/x.go"}.Internal(), fn)
	}
}

func TestTrimPanic(t *testing.T) {
	st := Trace{
		{Function: ModulePath + ".Recover"},
		{Function: "main.run.deferwrap1"},
		{Function: "runtime.gopanic"},
		{Function: "internal/runtime/maps.runtime_mapassign_faststr"},
		{Function: "runtime.sigpanic"},
		{Function: "main.load", File: "/src/app/main.go", Line: 12},
		{Function: "main.run"},
	}

	trimmed := TrimPanic(st)
	require.Len(t, trimmed, 2)
	assert.Equal(t, "main.load", trimmed[0].Function)

	noPanic := Trace{{Function: "main.run"}}
	assert.Equal(t, noPanic, TrimPanic(noPanic))
}
