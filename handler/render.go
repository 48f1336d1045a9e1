package handler

import (
	"io"

	"github.com/vovanec/report/chain"
	"github.com/vovanec/report/indent"
)

const causeIndent = "    "

// Paint colours a piece of text. Identity leaves it plain.
type Paint func(string) string

// Identity is the Paint that changes nothing.
func Identity(s string) string { return s }

// WriteDisplay writes err's own description.
func WriteDisplay(w io.Writer, err error) error {
	if err == nil {
		return nil
	}
	_, werr := io.WriteString(w, err.Error())
	return werr
}

// WriteChain writes err's description followed by a "Caused by:" block
// listing its causes. Causes are numbered when there is more than one.
func WriteChain(w io.Writer, err error, paint Paint) error {
	if err == nil {
		return nil
	}
	if paint == nil {
		paint = Identity
	}

	if _, werr := io.WriteString(w, paint(err.Error())); werr != nil {
		return werr
	}
	return WriteCauses(w, err, paint)
}

// WriteCauses writes only the "\n\nCaused by:" block of err, if any.
func WriteCauses(w io.Writer, err error, paint Paint) error {
	first := chain.Source(err)
	if first == nil {
		return nil
	}
	if paint == nil {
		paint = Identity
	}

	if _, werr := io.WriteString(w, "\n\nCaused by:"); werr != nil {
		return werr
	}

	numbered := chain.Source(first) != nil
	for n, cause := range chain.Enumerate(first) {
		if _, werr := io.WriteString(w, "\n"); werr != nil {
			return werr
		}
		f := indent.Uniform(causeIndent)
		if numbered {
			f = indent.Numbered(n)
		}
		if _, werr := indent.NewFormat(w, f).WriteString(paint(cause.Error())); werr != nil {
			return werr
		}
	}
	return nil
}

// Assign stores v into target when target is a *T. It is a building block
// for Handler.Extract.
func Assign[T any](target any, v T) bool {
	p, ok := target.(*T)
	if !ok || p == nil {
		return false
	}
	*p = v
	return true
}
