package rich

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/vovanec/report/handler"
	"github.com/vovanec/report/section"
	"github.com/vovanec/report/spantrace"
	"github.com/vovanec/report/stack"
)

func plain(opts ...Option) handler.Hook {
	base := []Option{
		WithColor(false),
		WithVerbosity(handler.VerbosityOmit),
		WithSpanTrace(false),
		WithEnvSection(false),
	}
	return Hook(append(base, opts...)...)
}

func debug(t *testing.T, h handler.Handler, err error) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, h.Debug(&sb, err))
	return sb.String()
}

func TestSectionsInAppendOrder(t *testing.T) {
	err := fmt.Errorf("outer: %w", errors.New("inner"))
	h := plain()(context.Background(), err).(*Handler)

	hide := true
	h.AppendSection(section.Note("first"))
	h.AppendSection(section.New("Hidden").Body("never shown").SkipIf(func() bool { return hide }))
	h.AppendSection(section.Warning("second"))
	h.AppendSection(section.Suggestion("third"))

	want := "outer: inner\n\nCaused by:\n    inner\n\nNote: first\n\nWarning: second\n\nSuggestion: third"
	assert.Equal(t, want, debug(t, h, err))
	assert.Equal(t, want, debug(t, h, err), "rendering is idempotent")

	// The predicate is evaluated at render time.
	hide = false
	assert.Contains(t, debug(t, h, err), "Note: first\n\nHidden\n   never shown\n\nWarning: second")

	var got []section.Section
	require.True(t, h.Extract(&got))
	assert.Len(t, got, 4)
}

func TestErrorSection(t *testing.T) {
	err := errors.New("request failed")
	h := plain()(context.Background(), err).(*Handler)
	h.AppendSection(section.Error(fmt.Errorf("cleanup: %w", errors.New("socket closed"))))

	assert.Equal(t,
		"request failed\n\nError:\n    0: cleanup: socket closed\n    1: socket closed",
		debug(t, h, err))
}

func TestLocation(t *testing.T) {
	err := errors.New("boom")
	h := plain()(context.Background(), err).(*Handler)
	h.TrackCaller(stack.Origin{File: "main.go", Line: 12})

	assert.Equal(t, "boom\n\nLocation:\n    main.go:12", debug(t, h, err))

	var o stack.Origin
	require.True(t, h.Extract(&o))
	assert.Equal(t, 12, o.Line)
}

func TestBacktraceBlock(t *testing.T) {
	err := errors.New("boom")
	h := plain(WithVerbosity(handler.VerbosityFrames))(context.Background(), err)

	var st stack.Trace
	require.True(t, h.Extract(&st))

	out := debug(t, h, err)
	assert.Contains(t, out, "━━━ BACKTRACE ━━━")
	assert.Contains(t, out, "TestBacktraceBlock")
	assert.Contains(t, out, "frames hidden ⋮")
	assert.NotContains(t, out, "testing.tRunner")

	shown := plain(WithVerbosity(handler.VerbosityFrames), WithShowHidden(true))(context.Background(), err)
	out = debug(t, shown, err)
	assert.Contains(t, out, "testing.tRunner")
	assert.NotContains(t, out, "hidden ⋮")
}

func TestSourceExcerpt(t *testing.T) {
	h := &Handler{
		cfg: &config{verbosity: handler.VerbosityFull, color: colorOff, theme: DefaultTheme()},
		trace: stack.Trace{
			{Function: "main.missing", File: "/does/not/exist.go", Line: 10},
		},
	}
	out := debug(t, h, errors.New("boom"))
	assert.Contains(t, out, "   0: main.missing\n        at /does/not/exist.go:10")
	assert.NotContains(t, out, "│")

	h.trace = stack.Capture(0)
	out = debug(t, h, errors.New("boom"))
	assert.Contains(t, out, " > \th.trace = stack.Capture(0)")
	assert.Contains(t, out, " │ ")
}

func TestSpanTraceBlock(t *testing.T) {
	reg := spantrace.NewRegistry()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(reg))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	tracer := tp.Tracer("rich_test")

	ctx, outer := spantrace.Start(context.Background(), tracer, "read_config")
	defer outer.End()
	ctx, inner := spantrace.Start(ctx, tracer, "read_file")
	defer inner.End()

	err := errors.New("no such file")
	h := plain(WithSpanTrace(true), WithRegistry(reg))(ctx, err)

	var st *spantrace.SpanTrace
	require.True(t, h.Extract(&st))
	require.Len(t, st.Spans, 2)
	assert.Equal(t, "read_file", st.Spans[0].Name)

	out := debug(t, h, err)
	assert.Contains(t, out, " SPANTRACE ")
	assert.Contains(t, out, "     0: read_file\n        at ")
	assert.Contains(t, out, "     1: read_config")

	// A report built over an error that already carries the spans does
	// not capture again.
	wrapped := fmt.Errorf("load: %w", &spanErr{st: st})
	again := plain(WithSpanTrace(true), WithRegistry(reg))(ctx, wrapped)
	var none *spantrace.SpanTrace
	assert.False(t, again.Extract(&none))
	assert.Contains(t, debug(t, again, wrapped), "     0: read_file")
}

type spanErr struct {
	st *spantrace.SpanTrace
}

func (e *spanErr) Error() string                   { return "traced" }
func (e *spanErr) SpanTrace() *spantrace.SpanTrace { return e.st }

func TestColor(t *testing.T) {
	err := errors.New("boom")
	h := Hook(WithColor(true), WithVerbosity(handler.VerbosityOmit), WithSpanTrace(false), WithEnvSection(false))(context.Background(), err)
	assert.Equal(t, "\x1b[31mboom\x1b[0m", debug(t, h, err))

	t.Setenv(handler.EnvNoColor, "1")
	h = Hook(WithVerbosity(handler.VerbosityOmit), WithSpanTrace(false), WithEnvSection(false))(context.Background(), err)
	assert.Equal(t, "boom", debug(t, h, err))
}

func TestColorFollowsStderr(t *testing.T) {
	orig := stderrIsTerminal
	t.Cleanup(func() { stderrIsTerminal = orig })
	t.Setenv(handler.EnvNoColor, "")

	err := errors.New("boom")
	auto := func() handler.Handler {
		return Hook(WithVerbosity(handler.VerbosityOmit), WithSpanTrace(false), WithEnvSection(false))(context.Background(), err)
	}

	stderrIsTerminal = func() bool { return true }
	h := auto()
	assert.Equal(t, "\x1b[31mboom\x1b[0m", debug(t, h, err))
	assert.Equal(t, "\x1b[31mboom\x1b[0m", fmt.Sprintf("%v", debugFormatter{h, err}))

	stderrIsTerminal = func() bool { return false }
	assert.Equal(t, "boom", debug(t, auto(), err))
}

// debugFormatter renders through fmt, where the writer is a fmt.State.
type debugFormatter struct {
	h   handler.Handler
	err error
}

func (d debugFormatter) Format(s fmt.State, _ rune) {
	_ = d.h.Debug(s, d.err)
}

func TestFrameFilter(t *testing.T) {
	err := errors.New("boom")
	dropTests := func(f stack.Frame) bool {
		return strings.HasSuffix(f.Function, "TestFrameFilter")
	}

	out := debug(t, plain(WithVerbosity(handler.VerbosityFrames))(context.Background(), err), err)
	assert.Contains(t, out, "TestFrameFilter")

	filtered := plain(WithVerbosity(handler.VerbosityFrames), WithFrameFilter(dropTests))(context.Background(), err)
	out = debug(t, filtered, err)
	assert.NotContains(t, out, "TestFrameFilter")
	assert.NotContains(t, out, "testing.tRunner", "default filters still apply")
	assert.Contains(t, out, "frames hidden ⋮")

	shown := plain(WithVerbosity(handler.VerbosityFrames), WithFrameFilter(dropTests), WithShowHidden(true))(context.Background(), err)
	assert.Contains(t, debug(t, shown, err), "TestFrameFilter")
}

func TestClone(t *testing.T) {
	err := errors.New("boom")
	h := plain(WithVerbosity(handler.VerbosityFrames))(context.Background(), err).(*Handler)
	h.AppendSection(section.Note("shared"))

	c := handler.CloneOf(h).(*Handler)
	require.NotSame(t, h, c)
	c.AppendSection(section.Note("clone only"))

	assert.Len(t, h.Sections(), 1)
	assert.Len(t, c.Sections(), 2)
	assert.Equal(t, h.trace, c.trace)
}

func TestEnvHint(t *testing.T) {
	err := errors.New("boom")
	h := Hook(WithColor(false), WithVerbosity(handler.VerbosityOmit), WithSpanTrace(true))(context.Background(), err)

	assert.Equal(t,
		"boom\n\nBacktrace omitted. Run with REPORT_BACKTRACE=1 environment variable to display it.\n"+
			"Run with REPORT_BACKTRACE=full to include source snippets.",
		debug(t, h, err))
}

func TestDisplay(t *testing.T) {
	err := fmt.Errorf("outer: %w", errors.New("inner"))
	h := plain()(context.Background(), err)

	var sb strings.Builder
	require.NoError(t, h.Display(&sb, err))
	assert.Equal(t, "outer: inner", sb.String())
	assert.Equal(t, "rich", h.(*Handler).Name())

	var st stack.Trace
	assert.False(t, h.Extract(&st), "nothing captured at omit verbosity")
	var n int
	assert.False(t, h.Extract(&n))
}

func TestHidden(t *testing.T) {
	for fn, want := range map[string]bool{
		"runtime.goexit":                        true,
		"testing.tRunner":                       true,
		stack.ModulePath + ".New":               true,
		stack.ModulePath + "/handler/rich.Hook": true,
		"main.main":                             false,
	} {
		assert.Equal(t, want, Hidden(stack.Frame{Function: fn, File: "x.go"}), fn)
	}
}
