// Package handler defines the strategy an error report delegates to for
// capturing auxiliary context and rendering itself.
//
// A Hook runs exactly once, when a report is created. The Handler it
// returns is owned by that report. Wrapping the report gives the wrapper a
// clone of it, so both reports keep working handlers. Three implementations ship with
// this module: handler/minimal, handler/backtrace and handler/rich.
package handler

import (
	"context"
	"io"

	"github.com/vovanec/report/section"
	"github.com/vovanec/report/stack"
)

// Handler renders a report's error chain and exposes the data it captured.
type Handler interface {
	// Debug writes the full multi-line rendering of err and its causes.
	Debug(w io.Writer, err error) error

	// Display writes the one-line rendering of err.
	Display(w io.Writer, err error) error

	// Extract copies captured data into target, which must be a non-nil
	// pointer, and reports whether the handler holds a value of that type.
	Extract(target any) bool
}

// Hook builds the handler for a newly created report. ctx is the context
// given to the constructor, or context.Background().
type Hook func(ctx context.Context, err error) Handler

// CallerTracker is implemented by handlers that record where a report was
// created.
type CallerTracker interface {
	TrackCaller(origin stack.Origin)
}

// SectionAppender is implemented by handlers that can render sections.
type SectionAppender interface {
	AppendSection(s section.Section)
}

// Cloner is implemented by handlers whose state can still change after
// creation, such as appended sections. Handlers without it are treated as
// immutable and shared.
type Cloner interface {
	Clone() Handler
}

// CloneOf returns a clone of h, or h itself when it does not implement
// Cloner.
func CloneOf(h Handler) Handler {
	if c, ok := h.(Cloner); ok {
		return c.Clone()
	}
	return h
}

// Namer is implemented by handlers that report a short name for metrics and
// logs.
type Namer interface {
	Name() string
}

// NameOf returns h's name, or "custom".
func NameOf(h Handler) string {
	if n, ok := h.(Namer); ok {
		return n.Name()
	}
	return "custom"
}
