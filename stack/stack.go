// Package stack captures call stacks and creation locations for error
// reports.
package stack

import (
	"fmt"
	"runtime"
	"strings"
)

const maxDepth = 64

// Origin is the place an error was created.
type Origin struct {
	Line int
	File string
}

func (o Origin) String() string {
	return fmt.Sprintf("%s:%d", o.File, o.Line)
}

func (o Origin) Empty() bool {
	return o.File == ""
}

// Caller returns the origin of the caller n frames above Caller's caller.
func Caller(n int) Origin {
	if _, file, line, ok := runtime.Caller(n + 1); ok {
		return Origin{
			Line: line,
			File: file,
		}
	}
	return Origin{}
}

// Frame is a single resolved call site.
type Frame struct {
	Function string
	File     string
	Line     int
}

func (f Frame) Origin() Origin {
	return Origin{File: f.File, Line: f.Line}
}

// Trace is a captured call stack, most recent call first.
type Trace []Frame

func (st Trace) String() string {
	var ret []string
	for _, f := range st {
		ret = append(ret, fmt.Sprintf("%s %s", f.Function, f.Origin()))
	}
	return strings.Join(ret, " ")
}

// Tracer is implemented by errors that already carry a stack trace.
type Tracer interface {
	StackTrace() Trace
}

// Capture walks the current goroutine's stack. skip counts frames above
// Capture's caller, so Capture(0) starts at the function that called it.
func Capture(skip int) Trace {
	pc := make([]uintptr, maxDepth)
	// +2 skips runtime.Callers and Capture itself.
	n := runtime.Callers(skip+2, pc)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pc[:n])
	out := make(Trace, 0, n)
	for {
		fr, more := frames.Next()
		out = append(out, Frame{
			Function: fr.Function,
			File:     fr.File,
			Line:     fr.Line,
		})
		if !more {
			break
		}
	}
	return out
}

// Of returns err's own trace when it implements Tracer.
func Of(err error) (Trace, bool) {
	if t, ok := err.(Tracer); ok {
		if st := t.StackTrace(); len(st) > 0 {
			return st, true
		}
	}
	return nil, false
}

// ModulePath is the import path prefix of this module's packages.
const ModulePath = "github.com/vovanec/report"

// Internal reports whether f belongs to this module's non-test code. Sibling
// modules sharing the path as a string prefix do not count.
func (f Frame) Internal() bool {
	if strings.HasSuffix(f.File, "_test.go") {
		return false
	}
	return strings.HasPrefix(f.Function, ModulePath+".") || strings.HasPrefix(f.Function, ModulePath+"/")
}

// TrimInternal drops the leading frames that belong to this module, so a
// captured trace starts at the code that created the report.
func TrimInternal(st Trace) Trace {
	for i, f := range st {
		if !f.Internal() {
			return st[i:]
		}
	}
	return nil
}

// TrimPanic drops the frames above a panic site from a trace captured while
// the panic is being recovered: the recovering function, runtime.gopanic and
// the runtime frames that raised it, including internal/runtime packages. A trace without runtime.gopanic is
// returned as is.
func TrimPanic(st Trace) Trace {
	for i, f := range st {
		if f.Function != "runtime.gopanic" {
			continue
		}
		rest := st[i+1:]
		for len(rest) > 0 && runtimeFrame(rest[0]) {
			rest = rest[1:]
		}
		return rest
	}
	return st
}

func runtimeFrame(f Frame) bool {
	return strings.HasPrefix(f.Function, "runtime.") || strings.HasPrefix(f.Function, "internal/runtime/")
}
