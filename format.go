package report

import (
	"fmt"
	"log/slog"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/vovanec/report/chain"
	"github.com/vovanec/report/internal"
)

const (
	errKey       = "error"
	msgKey       = "msg"
	errOriginKey = "origin"
	causesKey    = "causes"
)

// Format renders %s, %v and %q as the one-line description, %+v as the
// handler's Debug output and %#v as the whole chain on one line.
func (r *Report) Format(s fmt.State, verb rune) {
	if r == nil {
		_, _ = fmt.Fprint(s, nilText)
		return
	}
	switch verb {
	case 'v':
		if s.Flag('+') {
			_ = r.Debug(s)
			return
		}
		if s.Flag('#') {
			_, _ = fmt.Fprint(s, r.oneLine())
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, r.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", r.Error())
	}
}

func (r *Report) oneLine() string {
	var parts []string
	for e := range r.Chain() {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, ": ")
}

func (r *Report) causes() []string {
	var ret []string
	for e := range chain.Causes(r.err) {
		ret = append(ret, e.Error())
	}
	return ret
}

// StructuredError returns the chain on one line followed by the attached
// log attributes.
func (r *Report) StructuredError() string {
	if r == nil {
		return nilText
	}
	if len(r.attrs) < 1 {
		return r.oneLine()
	}
	return fmt.Sprintf("%s: %s", r.oneLine(), internal.Format(internal.Sorted(r.attrs)))
}

// LogValue logs the attached attributes next to an "error" group holding
// the message, the origin and the causes.
func (r *Report) LogValue() slog.Value {
	if r == nil {
		return slog.GroupValue(slog.Group(errKey, slog.String(msgKey, nilText)))
	}
	group := []any{slog.String(msgKey, r.Error())}
	if !r.origin.Empty() {
		group = append(group, slog.String(errOriginKey, r.origin.String()))
	}
	if causes := r.causes(); len(causes) > 0 {
		group = append(group, slog.Any(causesKey, causes))
	}

	attrs := append(internal.Sorted(r.attrs), slog.Group(errKey, group...))
	return slog.GroupValue(attrs...)
}

// MarshalLogObject is the zap counterpart of LogValue.
func (r *Report) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	if r == nil {
		enc.AddString(errKey, nilText)
		return nil
	}
	for _, a := range internal.Sorted(r.attrs) {
		if err := enc.AddReflected(a.Key, internal.ValueOf(a.Value)); err != nil {
			return err
		}
	}
	return enc.AddObject(errKey, zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		enc.AddString(msgKey, r.Error())
		if !r.origin.Empty() {
			enc.AddString(errOriginKey, r.origin.String())
		}
		if causes := r.causes(); len(causes) > 0 {
			return enc.AddArray(causesKey, zapcore.ArrayMarshalerFunc(func(arr zapcore.ArrayEncoder) error {
				for _, c := range causes {
					arr.AppendString(c)
				}
				return nil
			}))
		}
		return nil
	}))
}
