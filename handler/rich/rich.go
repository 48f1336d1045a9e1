// Package rich is the colour-aware, span-aware handler. Besides a stack
// trace it captures the OpenTelemetry span trace active when a report is
// created, records the creation location, and renders free-text sections
// attached to the report.
package rich

import (
	"context"
	"io"
	"os"
	"slices"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/vovanec/report/chain"
	"github.com/vovanec/report/handler"
	"github.com/vovanec/report/handler/backtrace"
	"github.com/vovanec/report/metrics"
	"github.com/vovanec/report/section"
	"github.com/vovanec/report/spantrace"
	"github.com/vovanec/report/stack"
)

type colorMode int

const (
	colorAuto colorMode = iota
	colorOn
	colorOff
)

type config struct {
	verbosity  handler.Verbosity
	spanTrace  bool
	showHidden bool
	envSection bool
	color      colorMode
	noColor    bool
	stderrTTY  bool
	theme      Theme
	registry   *spantrace.Registry
	filters    []func(stack.Frame) bool
}

// stderrIsTerminal is consulted once per Hook. Reports are usually printed
// through fmt with %+v, where the writer is a fmt.State and cannot be
// inspected, so auto colour follows stderr.
var stderrIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// Option configures Hook.
type Option func(*config)

// WithColor forces colour on or off, overriding terminal detection and
// NO_COLOR.
func WithColor(on bool) Option {
	return func(c *config) {
		if on {
			c.color = colorOn
		} else {
			c.color = colorOff
		}
	}
}

// WithVerbosity overrides REPORT_LIB_BACKTRACE / REPORT_BACKTRACE.
func WithVerbosity(v handler.Verbosity) Option {
	return func(c *config) {
		c.verbosity = v
	}
}

// WithSpanTrace overrides REPORT_SPANTRACE.
func WithSpanTrace(on bool) Option {
	return func(c *config) {
		c.spanTrace = on
	}
}

// WithRegistry captures span traces from reg instead of the installed
// registry.
func WithRegistry(reg *spantrace.Registry) Option {
	return func(c *config) {
		c.registry = reg
	}
}

// WithEnvSection toggles the trailing hint about environment variables.
func WithEnvSection(on bool) Option {
	return func(c *config) {
		c.envSection = on
	}
}

// WithShowHidden overrides REPORT_SHOW_HIDDEN.
func WithShowHidden(on bool) Option {
	return func(c *config) {
		c.showHidden = on
	}
}

func WithTheme(t Theme) Option {
	return func(c *config) {
		c.theme = t
	}
}

// WithFrameFilter hides backtrace frames for which any of filters returns
// true, in addition to the frames Hidden drops. Filters from repeated
// options accumulate. WithShowHidden disables all of them.
func WithFrameFilter(filters ...func(stack.Frame) bool) Option {
	return func(c *config) {
		c.filters = append(c.filters, filters...)
	}
}

// Handler is the per-report state of the rich handler.
type Handler struct {
	cfg      *config
	trace    stack.Trace
	spans    *spantrace.SpanTrace
	origin   stack.Origin
	sections []section.Section
}

var (
	_ handler.Handler         = (*Handler)(nil)
	_ handler.CallerTracker   = (*Handler)(nil)
	_ handler.SectionAppender = (*Handler)(nil)
	_ handler.Cloner          = (*Handler)(nil)
)

// Hook returns a hook producing rich handlers. Environment settings are
// read here, once; options override them.
func Hook(opts ...Option) handler.Hook {
	cfg := &config{
		verbosity:  handler.VerbosityFromEnv(),
		spanTrace:  handler.SpanTraceFromEnv(true),
		showHidden: handler.ShowHiddenFromEnv(),
		envSection: true,
		theme:      DefaultTheme(),
	}
	if os.Getenv(handler.EnvNoColor) != "" {
		cfg.noColor = true
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.color == colorAuto && !cfg.noColor {
		cfg.stderrTTY = stderrIsTerminal()
	}

	return func(ctx context.Context, err error) handler.Handler {
		h := &Handler{cfg: cfg}
		h.captureTrace(err)
		h.captureSpans(ctx, err)
		return h
	}
}

func (h *Handler) captureTrace(err error) {
	if h.cfg.verbosity == handler.VerbosityOmit {
		return
	}
	if _, ok := backtrace.Deepest(err); ok {
		metrics.ObserveSkip(metrics.KindBacktrace)
		return
	}
	h.trace = stack.TrimInternal(stack.Capture(0))
	metrics.ObserveCapture(metrics.KindBacktrace)
}

func (h *Handler) captureSpans(ctx context.Context, err error) {
	if !h.cfg.spanTrace || ctx == nil {
		return
	}
	if _, ok := deepestSpans(err); ok {
		metrics.ObserveSkip(metrics.KindSpanTrace)
		return
	}
	reg := h.cfg.registry
	if reg == nil {
		reg = spantrace.Installed()
	}
	if st := reg.Capture(ctx); !st.Empty() {
		h.spans = st
		metrics.ObserveCapture(metrics.KindSpanTrace)
	}
}

func deepestSpans(err error) (*spantrace.SpanTrace, bool) {
	var (
		found *spantrace.SpanTrace
		ok    bool
	)
	for e := range chain.All(err) {
		if st, has := spantrace.Of(e); has {
			found, ok = st, true
		}
	}
	return found, ok
}

func (*Handler) Name() string { return "rich" }

func (h *Handler) TrackCaller(origin stack.Origin) {
	h.origin = origin
}

// AppendSection adds s after the sections already attached. Sections are
// never removed or reordered.
func (h *Handler) AppendSection(s section.Section) {
	h.sections = append(h.sections, s)
}

// Clone returns a handler with the same captured context and its own copy
// of the sections.
func (h *Handler) Clone() handler.Handler {
	c := *h
	c.sections = slices.Clone(h.sections)
	return &c
}

// Sections returns a copy of the attached sections in append order.
func (h *Handler) Sections() []section.Section {
	return slices.Clone(h.sections)
}

// Extract supports *stack.Trace, **spantrace.SpanTrace, *[]section.Section,
// *stack.Origin and *handler.Verbosity.
func (h *Handler) Extract(target any) bool {
	switch target.(type) {
	case *stack.Trace:
		return len(h.trace) > 0 && handler.Assign(target, h.trace)
	case **spantrace.SpanTrace:
		return !h.spans.Empty() && handler.Assign(target, h.spans)
	case *[]section.Section:
		return len(h.sections) > 0 && handler.Assign(target, h.Sections())
	case *stack.Origin:
		return !h.origin.Empty() && handler.Assign(target, h.origin)
	case *handler.Verbosity:
		return handler.Assign(target, h.cfg.verbosity)
	}
	return false
}

func (*Handler) Display(w io.Writer, err error) error {
	return handler.WriteDisplay(w, err)
}

func (h *Handler) palette(w io.Writer) palette {
	p := palette{profile: termenv.Ascii, theme: h.cfg.theme}
	switch {
	case h.cfg.color == colorOn:
		p.profile = termenv.ANSI
	case h.cfg.color == colorOff, h.cfg.noColor:
	default:
		tty := h.cfg.stderrTTY
		if f, ok := w.(interface{ Fd() uintptr }); ok {
			tty = term.IsTerminal(int(f.Fd()))
		}
		if tty {
			p.profile = termenv.ANSI
		}
	}
	return p
}
