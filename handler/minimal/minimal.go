// Package minimal is the handler that captures nothing and renders the
// description followed by the indented cause chain.
package minimal

import (
	"context"
	"io"

	"github.com/vovanec/report/handler"
)

// Handler has no state.
type Handler struct{}

var _ handler.Handler = (*Handler)(nil)

// Hook returns a hook producing minimal handlers.
func Hook() handler.Hook {
	return func(context.Context, error) handler.Handler {
		return &Handler{}
	}
}

func (*Handler) Name() string { return "minimal" }

func (*Handler) Debug(w io.Writer, err error) error {
	return handler.WriteChain(w, err, nil)
}

func (*Handler) Display(w io.Writer, err error) error {
	return handler.WriteDisplay(w, err)
}

// Extract always fails: the minimal handler stores nothing.
func (*Handler) Extract(any) bool { return false }
