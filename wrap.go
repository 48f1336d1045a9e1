package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vovanec/report/chain"
	"github.com/vovanec/report/handler"
	"github.com/vovanec/report/stack"
)

// New returns err as a Report, running the handler hook once. A Report is
// returned as is, with args merged into its attributes. New returns a nil
// error for a nil err, so it can be applied to any returned error; use From
// to keep the *Report for appending sections.
func New(err error, args ...any) error {
	return asError(Factory{}.newReport(context.Background(), err, stack.Caller(1), args))
}

// NewContext is New with a context handed to the hook, which lets span
// aware handlers capture the active trace.
func NewContext(ctx context.Context, err error, args ...any) error {
	return asError(Factory{}.newReport(ctx, err, stack.Caller(1), args))
}

// From is New returning the *Report. The result is nil for a nil err; all
// Report methods accept a nil receiver.
func From(err error, args ...any) *Report {
	return Factory{}.newReport(context.Background(), err, stack.Caller(1), args)
}

// FromContext is From with a context handed to the hook.
func FromContext(ctx context.Context, err error, args ...any) *Report {
	return Factory{}.newReport(ctx, err, stack.Caller(1), args)
}

// Msg returns a report over a message error with no cause. The message
// error's type is not exported, so it cannot be downcast by callers.
func Msg(text string, args ...any) *Report {
	return Factory{}.build(context.Background(), &messageError{msg: text}, stack.Caller(1), args)
}

// Msgf is Msg with fmt.Sprintf formatting.
func Msgf(format string, a ...any) *Report {
	return Factory{}.build(context.Background(), &messageError{msg: fmt.Sprintf(format, a...)}, stack.Caller(1), nil)
}

// Wrap returns err wrapped with message and optional log args. It returns
// nil when err is nil, so it can be applied to any returned error. Wrapping
// a Report hands a clone of its handler to the result; any other error gets
// a new report whose hook captures only the context the chain lacks.
func Wrap(err error, message string, args ...any) error {
	return Factory{}.wrap(context.Background(), err, message, stack.Caller(1), args)
}

// Wrapf is Wrap with fmt.Sprintf formatting. The message is only formatted
// when err is not nil.
func Wrapf(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	return Factory{}.wrap(context.Background(), err, fmt.Sprintf(format, a...), stack.Caller(1), nil)
}

// WrapContext is Wrap with a context handed to the hook.
func WrapContext(ctx context.Context, err error, message string, args ...any) error {
	return Factory{}.wrap(ctx, err, message, stack.Caller(1), args)
}

func (f Factory) New(err error, args ...any) error {
	return asError(f.newReport(context.Background(), err, stack.Caller(1), args))
}

func (f Factory) NewContext(ctx context.Context, err error, args ...any) error {
	return asError(f.newReport(ctx, err, stack.Caller(1), args))
}

func (f Factory) From(err error, args ...any) *Report {
	return f.newReport(context.Background(), err, stack.Caller(1), args)
}

func (f Factory) FromContext(ctx context.Context, err error, args ...any) *Report {
	return f.newReport(ctx, err, stack.Caller(1), args)
}

// asError keeps a nil report from becoming a non-nil error.
func asError(r *Report) error {
	if r == nil {
		return nil
	}
	return r
}

func (f Factory) Msg(text string, args ...any) *Report {
	return f.build(context.Background(), &messageError{msg: text}, stack.Caller(1), args)
}

func (f Factory) Msgf(format string, a ...any) *Report {
	return f.build(context.Background(), &messageError{msg: fmt.Sprintf(format, a...)}, stack.Caller(1), nil)
}

func (f Factory) Wrap(err error, message string, args ...any) error {
	return f.wrap(context.Background(), err, message, stack.Caller(1), args)
}

func (f Factory) Wrapf(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	return f.wrap(context.Background(), err, fmt.Sprintf(format, a...), stack.Caller(1), nil)
}

func (f Factory) WrapContext(ctx context.Context, err error, message string, args ...any) error {
	return f.wrap(ctx, err, message, stack.Caller(1), args)
}

func (f Factory) newReport(ctx context.Context, err error, origin stack.Origin, args []any) *Report {
	if err == nil {
		return nil
	}
	if r, ok := err.(*Report); ok {
		if r != nil && len(args) > 0 {
			r.attrs = collectAttrs(r.attrs, args)
		}
		return r
	}
	return f.build(ctx, err, inheritOrigin(err, origin), withErrorAttrs(err, args))
}

func (f Factory) wrap(ctx context.Context, err error, message string, origin stack.Origin, args []any) error {
	if err == nil {
		return nil
	}
	if r, ok := err.(*Report); ok {
		if r == nil {
			return nil
		}
		return r.wrap(message, args)
	}
	return f.build(ctx, &contextError{msg: message, source: err}, inheritOrigin(err, origin), withErrorAttrs(err, args))
}

// withErrorAttrs prepends the attributes of the first error in err's chain
// that logs itself with slog.
func withErrorAttrs(err error, args []any) []any {
	lv, ok := chain.Find[slog.LogValuer](err)
	if !ok {
		return args
	}
	v := lv.LogValue().Resolve()
	if v.Kind() != slog.KindGroup {
		return args
	}
	return append([]any{slog.Attr{Value: v}}, args...)
}

// inheritOrigin keeps the origin of the innermost report in err's chain, so
// a report keeps pointing at where the error first occurred.
func inheritOrigin(err error, origin stack.Origin) stack.Origin {
	if inner, ok := chain.FindLast[*Report](err); ok && !inner.origin.Empty() {
		return inner.origin
	}
	return origin
}

// Wrap returns a report whose error is message over r. The returned report
// gets a clone of r's handler, so nothing is captured again. r itself is
// left unchanged and stays in the new chain, which keeps errors.Is(w, r)
// true.
func (r *Report) Wrap(message string, args ...any) *Report {
	if r == nil {
		return nil
	}
	return r.wrap(message, args)
}

// Wrapf is Wrap with fmt.Sprintf formatting.
func (r *Report) Wrapf(format string, a ...any) *Report {
	if r == nil {
		return nil
	}
	return r.wrap(fmt.Sprintf(format, a...), nil)
}

func (r *Report) wrap(message string, args []any) *Report {
	return &Report{
		err:     &contextError{msg: message, source: r},
		handler: handler.CloneOf(r.renderer()),
		origin:  r.origin,
		attrs:   collectAttrs(r.attrs, args),
	}
}
