// Package chain walks an error's cause chain lazily, from the outermost
// error to its root cause.
//
// The chain follows Unwrap() error only. Errors that expose Unwrap() []error
// (errors.Join, multi-%w) are treated as leaves. No cycle detection is
// performed: a caller-built chain that loops will never terminate.
package chain

import (
	"iter"
)

type wrapper interface {
	Unwrap() error
}

// Source returns err's direct cause or nil.
func Source(err error) error {
	if u, ok := err.(wrapper); ok {
		return u.Unwrap()
	}
	return nil
}

// Cursor is a restartable, read-only position in an error chain.
type Cursor struct {
	head error
	next error
}

// New returns a cursor positioned before head.
func New(head error) *Cursor {
	return &Cursor{head: head, next: head}
}

// Next returns the next error of the chain, or false once it is exhausted.
func (c *Cursor) Next() (error, bool) {
	if c.next == nil {
		return nil, false
	}
	cur := c.next
	c.next = Source(cur)
	return cur, true
}

// Reset rewinds the cursor to the head of the chain.
func (c *Cursor) Reset() {
	c.next = c.head
}

// All yields every error of the chain, outermost first. Each range over the
// returned sequence starts a fresh traversal.
func All(err error) iter.Seq[error] {
	return func(yield func(error) bool) {
		for e := err; e != nil; e = Source(e) {
			if !yield(e) {
				return
			}
		}
	}
}

// Enumerate is All with the position of each error.
func Enumerate(err error) iter.Seq2[int, error] {
	return func(yield func(int, error) bool) {
		n := 0
		for e := range All(err) {
			if !yield(n, e) {
				return
			}
			n++
		}
	}
}

// Causes yields the chain without its head.
func Causes(err error) iter.Seq[error] {
	return All(Source(err))
}

// Root returns the last error of the chain, or nil for a nil err.
func Root(err error) error {
	var root error
	for e := range All(err) {
		root = e
	}
	return root
}

// Len returns the number of errors in the chain.
func Len(err error) int {
	n := 0
	for range All(err) {
		n++
	}
	return n
}

// Find returns the first error of the chain whose dynamic type is T.
func Find[T any](err error) (T, bool) {
	for e := range All(err) {
		if t, ok := e.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// FindLast is Find starting from the root cause.
func FindLast[T any](err error) (T, bool) {
	var (
		found T
		ok    bool
	)
	for e := range All(err) {
		if t, match := e.(T); match {
			found, ok = t, true
		}
	}
	return found, ok
}
