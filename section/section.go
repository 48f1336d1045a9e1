// Package section defines the labeled blocks of free text that a rich
// error report renders after its cause chain.
//
// A Section is a value: builder methods return a modified copy, so a
// section can be prepared in one place and appended to a report later.
// Once appended, sections are never removed or reordered.
package section

import (
	"fmt"
	"io"
	"strings"

	"github.com/vovanec/report/chain"
	"github.com/vovanec/report/indent"
)

// Kind distinguishes the built-in section flavours.
type Kind int

const (
	KindCustom Kind = iota
	KindNote
	KindWarning
	KindSuggestion
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindNote:
		return "Note"
	case KindWarning:
		return "Warning"
	case KindSuggestion:
		return "Suggestion"
	case KindError:
		return "Error"
	default:
		return "Custom"
	}
}

// bodyIndent matches the three column indent of section bodies.
const bodyIndent = "   "

// Section is a (label, body, skip-predicate) triple.
type Section struct {
	kind  Kind
	label string
	body  string
	err   error
	skip  func() bool
}

// New returns a custom section with a header line only.
func New(label string) Section {
	return Section{kind: KindCustom, label: label}
}

// Newf is New with fmt.Sprintf formatting.
func Newf(format string, a ...any) Section {
	return New(fmt.Sprintf(format, a...))
}

// Note returns a "Note: text" section.
func Note(text string) Section {
	return Section{kind: KindNote, label: KindNote.String(), body: text}
}

// Warning returns a "Warning: text" section.
func Warning(text string) Section {
	return Section{kind: KindWarning, label: KindWarning.String(), body: text}
}

// Suggestion returns a "Suggestion: text" section.
func Suggestion(text string) Section {
	return Section{kind: KindSuggestion, label: KindSuggestion.String(), body: text}
}

// Error returns a section rendering err and its causes.
func Error(err error) Section {
	return Section{kind: KindError, label: KindError.String(), err: err}
}

// Body attaches a body that is rendered under the label.
func (s Section) Body(body string) Section {
	s.body = body
	return s
}

// SkipIf attaches a predicate evaluated at render time; the section is
// omitted while it returns true.
func (s Section) SkipIf(pred func() bool) Section {
	s.skip = pred
	return s
}

func (s Section) Kind() Kind       { return s.kind }
func (s Section) Label() string    { return s.label }
func (s Section) BodyText() string { return s.body }
func (s Section) Err() error       { return s.err }

// Skipped reports whether the section is currently hidden.
func (s Section) Skipped() bool {
	return s.skip != nil && s.skip()
}

// Style colours the fixed parts of a section. The zero value renders plain
// text.
type Style struct {
	Label func(Kind, string) string
	Error func(string) string
}

func (st Style) label(k Kind, s string) string {
	if st.Label == nil {
		return s
	}
	return st.Label(k, s)
}

func (st Style) errText(s string) string {
	if st.Error == nil {
		return s
	}
	return st.Error(s)
}

// WriteTo renders the section without colours.
func (s Section) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := s.Render(cw, Style{})
	return cw.n, err
}

func (s Section) String() string {
	var sb strings.Builder
	_ = s.Render(&sb, Style{})
	return sb.String()
}

// Render writes the section to w using st for colours. It does not check
// the skip predicate; callers decide whether to render.
func (s Section) Render(w io.Writer, st Style) error {
	switch s.kind {
	case KindNote, KindWarning, KindSuggestion:
		_, err := fmt.Fprintf(w, "%s: %s", st.label(s.kind, s.label), s.body)
		return err

	case KindError:
		if _, err := io.WriteString(w, st.label(s.kind, s.label)+":"); err != nil {
			return err
		}
		for n, e := range chain.Enumerate(s.err) {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
			if _, err := indent.NewFormat(w, indent.Numbered(n)).WriteString(st.errText(e.Error())); err != nil {
				return err
			}
		}
		return nil

	default:
		if _, err := io.WriteString(w, st.label(s.kind, s.label)); err != nil {
			return err
		}
		if s.body == "" {
			return nil
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		_, err := indent.NewFormat(w, indent.Uniform(bodyIndent)).WriteString(s.body)
		return err
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
