// Package indent provides an io.Writer that indents multi-line output
// without buffering it.
package indent

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Format decides what is written in front of each line.
type Format interface {
	// Prefix returns the text written before line n (0-based).
	Prefix(line int) string
}

type hanging string

func (h hanging) Prefix(line int) string {
	if line == 0 {
		return ""
	}
	return string(h)
}

type uniform string

func (u uniform) Prefix(int) string { return string(u) }

type numbered int

// numberWidth matches the "    0: " layout of cause chains.
const numberWidth = 5

func (n numbered) Prefix(line int) string {
	if line == 0 {
		return fmt.Sprintf("%*d: ", numberWidth, int(n))
	}
	return strings.Repeat(" ", numberWidth+2)
}

// Hanging indents every line except the first with prefix.
func Hanging(prefix string) Format { return hanging(prefix) }

// Uniform indents every line, including the first, with prefix.
func Uniform(prefix string) Format { return uniform(prefix) }

// Numbered writes "%5d: " before the first line and aligns the rest under it.
func Numbered(n int) Format { return numbered(n) }

// Writer applies a Format to everything written through it.
//
// The prefix for a line is emitted lazily, right before the first byte of
// that line, so a trailing newline never leaves a dangling indent.
type Writer struct {
	w           io.Writer
	format      Format
	line        int
	needsIndent bool
}

// New wraps w. Everything after the first line break is prefixed with
// prefix; the first line is written as is.
func New(w io.Writer, prefix string) *Writer {
	return NewFormat(w, Hanging(prefix))
}

// NewFormat wraps w with an arbitrary Format.
func NewFormat(w io.Writer, f Format) *Writer {
	return &Writer{w: w, format: f, needsIndent: true}
}

// Write implements io.Writer. The returned count refers to p only; prefix
// bytes are not counted.
func (iw *Writer) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		if iw.needsIndent {
			if prefix := iw.format.Prefix(iw.line); prefix != "" {
				if _, err := io.WriteString(iw.w, prefix); err != nil {
					return written, err
				}
			}
			iw.needsIndent = false
		}

		i := bytes.IndexByte(p, '\n')
		chunk := p
		if i >= 0 {
			chunk = p[:i+1]
		}

		n, err := iw.w.Write(chunk)
		written += n
		if err != nil {
			return written, err
		}

		if i >= 0 {
			iw.line++
			iw.needsIndent = true
		}
		p = p[len(chunk):]
	}
	return written, nil
}

// WriteString writes s through the indenter.
func (iw *Writer) WriteString(s string) (int, error) {
	return iw.Write([]byte(s))
}

// String indents s in memory with f. It is a convenience for callers that
// already hold the full text.
func String(s string, f Format) string {
	var sb strings.Builder
	_, _ = NewFormat(&sb, f).WriteString(s)
	return sb.String()
}
