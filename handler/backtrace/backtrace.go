// Package backtrace is the handler that captures a stack trace when a
// report is created and renders it after the cause chain.
package backtrace

import (
	"context"
	"fmt"
	"io"

	"github.com/vovanec/report/chain"
	"github.com/vovanec/report/handler"
	"github.com/vovanec/report/metrics"
	"github.com/vovanec/report/stack"
)

// Handler holds the trace captured for one report, if any.
type Handler struct {
	verbosity handler.Verbosity
	trace     stack.Trace
}

var _ handler.Handler = (*Handler)(nil)

type config struct {
	verbosity handler.Verbosity
	skip      int
}

// Option configures Hook.
type Option func(*config)

// WithVerbosity overrides the verbosity read from the environment.
func WithVerbosity(v handler.Verbosity) Option {
	return func(c *config) {
		c.verbosity = v
	}
}

// WithSkip drops n additional leading frames from every captured trace.
func WithSkip(n int) Option {
	return func(c *config) {
		c.skip = n
	}
}

// Hook returns a hook producing backtrace handlers. The verbosity is read
// from REPORT_LIB_BACKTRACE or REPORT_BACKTRACE once, here.
func Hook(opts ...Option) handler.Hook {
	cfg := config{verbosity: handler.VerbosityFromEnv()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(_ context.Context, err error) handler.Handler {
		h := &Handler{verbosity: cfg.verbosity}
		if cfg.verbosity == handler.VerbosityOmit {
			return h
		}
		if _, ok := Deepest(err); ok {
			metrics.ObserveSkip(metrics.KindBacktrace)
			return h
		}

		st := stack.TrimInternal(stack.Capture(0))
		if cfg.skip > 0 && cfg.skip < len(st) {
			st = st[cfg.skip:]
		}
		h.trace = st
		metrics.ObserveCapture(metrics.KindBacktrace)
		return h
	}
}

// Deepest returns the trace carried by the error closest to the root of
// err's chain.
func Deepest(err error) (stack.Trace, bool) {
	var (
		found stack.Trace
		ok    bool
	)
	for e := range chain.All(err) {
		if st, has := stack.Of(e); has {
			found, ok = st, true
		}
	}
	return found, ok
}

func (*Handler) Name() string { return "backtrace" }

// Verbosity returns the verbosity the handler was built with.
func (h *Handler) Verbosity() handler.Verbosity { return h.verbosity }

func (h *Handler) Debug(w io.Writer, err error) error {
	if werr := handler.WriteChain(w, err, nil); werr != nil {
		return werr
	}
	if h.verbosity == handler.VerbosityOmit {
		return nil
	}

	st := h.trace
	if len(st) == 0 {
		st, _ = Deepest(err)
	}
	if len(st) == 0 {
		return nil
	}

	if _, werr := io.WriteString(w, "\n\nStack backtrace:"); werr != nil {
		return werr
	}
	return WriteFrames(w, st)
}

// WriteFrames writes one numbered entry per frame, each on a new line.
func WriteFrames(w io.Writer, st stack.Trace) error {
	for i, f := range st {
		if _, err := fmt.Fprintf(w, "\n%4d: %s\n      at %s", i, f.Function, f.Origin()); err != nil {
			return err
		}
	}
	return nil
}

func (*Handler) Display(w io.Writer, err error) error {
	return handler.WriteDisplay(w, err)
}

// Extract supports *stack.Trace and *handler.Verbosity.
func (h *Handler) Extract(target any) bool {
	if len(h.trace) > 0 && handler.Assign(target, h.trace) {
		return true
	}
	return handler.Assign(target, h.verbosity)
}
