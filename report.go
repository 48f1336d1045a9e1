// Package report provides Report, an error that owns its cause chain
// together with a pluggable handler deciding what context is captured
// when the report is created and how the chain is rendered.
//
// Reports are usually built at the point an error is first observed and
// wrapped with more context as it travels up the stack:
//
//	func loadConfig(path string) error {
//		data, err := os.ReadFile(path)
//		if err != nil {
//			return report.Wrap(err, "failed to read config", "path", path)
//		}
//		...
//	}
//
// At the program boundary the report is rendered with %+v, or through
// Debug, which is the representation meant for end users.
//
// The handler is chosen once per process with SetHook, or per call site
// with Using. Without either, reports use handler/minimal.
package report

import (
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"
	"maps"

	"github.com/vovanec/report/chain"
	"github.com/vovanec/report/handler"
	"github.com/vovanec/report/handler/minimal"
	"github.com/vovanec/report/internal"
	"github.com/vovanec/report/metrics"
	"github.com/vovanec/report/stack"
)

// Report is an error together with the handler state captured when it was
// created.
//
// A Report is owned by one goroutine at a time. Appending sections is the
// only mutation after construction and must be finished before the report
// is shared.
type Report struct {
	err     error
	handler handler.Handler
	origin  stack.Origin
	attrs   map[string]slog.Attr
}

// Factory builds reports with a fixed hook instead of the one installed
// with SetHook. The zero Factory uses the installed hook.
type Factory struct {
	hook handler.Hook
}

// Using returns a Factory whose reports are handled by hook.
func Using(hook handler.Hook) Factory {
	return Factory{hook: hook}
}

func (f Factory) build(ctx context.Context, err error, origin stack.Origin, args []any) *Report {
	if ctx == nil {
		ctx = context.Background()
	}

	r := &Report{
		err:    err,
		origin: origin,
		attrs:  collectAttrs(nil, args),
	}

	hook := f.hook
	if hook == nil {
		hook = installedHook()
	}
	if r.handler = hook(ctx, err); r.handler == nil {
		r.handler = &minimal.Handler{}
	}
	if t, ok := r.handler.(handler.CallerTracker); ok && !origin.Empty() {
		t.TrackCaller(origin)
	}

	metrics.ObserveReport(handler.NameOf(r.handler))
	return r
}

// collectAttrs merges the attributes parsed from args over base. The
// "error" group other reports log themselves under is left out.
func collectAttrs(base map[string]slog.Attr, args []any) map[string]slog.Attr {
	am := make(map[string]slog.Attr, len(base))
	maps.Copy(am, base)
	internal.ParseLogArgs(args, func(a slog.Attr) {
		if a.Key != errKey {
			am[a.Key] = a
		}
	})
	if len(am) < 1 {
		return nil
	}
	return am
}

// nilText is what a nil *Report renders as, matching fmt's "<nil>".
const nilText = "<nil>"

func (r *Report) Error() string {
	if r == nil {
		return nilText
	}
	return r.err.Error()
}

// Unwrap returns the cause of the wrapped error, so that the report itself
// stands for its outermost error in a chain.
func (r *Report) Unwrap() error {
	return chain.Source(r.cause())
}

// Is reports whether any error in the report's chain matches target.
func (r *Report) Is(target error) bool {
	return r != nil && errors.Is(r.err, target)
}

// As finds the first error in the report's chain that matches target.
func (r *Report) As(target any) bool {
	return r != nil && errors.As(r.err, target)
}

// cause returns the report's own error, or nil for a nil report.
func (r *Report) cause() error {
	if r == nil {
		return nil
	}
	return r.err
}

// Chain yields the report's errors, outermost first. Each range starts a
// new traversal.
func (r *Report) Chain() iter.Seq[error] {
	return chain.All(r.cause())
}

// Cursor returns a restartable cursor over the chain.
func (r *Report) Cursor() *chain.Cursor {
	return chain.New(r.cause())
}

// RootCause returns the last error of the chain.
func (r *Report) RootCause() error {
	return chain.Root(r.cause())
}

// Handler returns the handler owning the report's context.
func (r *Report) Handler() handler.Handler {
	if r == nil {
		return nil
	}
	return r.handler
}

func (r *Report) renderer() handler.Handler {
	if r.handler == nil {
		return &minimal.Handler{}
	}
	return r.handler
}

// Debug writes the handler's multi-line rendering of the report.
func (r *Report) Debug(w io.Writer) error {
	if r == nil {
		_, err := io.WriteString(w, nilText)
		return err
	}
	return r.renderer().Debug(w, r.err)
}

// Display writes the one-line rendering of the report.
func (r *Report) Display(w io.Writer) error {
	if r == nil {
		_, err := io.WriteString(w, nilText)
		return err
	}
	return r.renderer().Display(w, r.err)
}

func (r *Report) Origin() stack.Origin {
	if r == nil {
		return stack.Origin{}
	}
	return r.origin
}
