package rich

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovanec/report/handler"
	"github.com/vovanec/report/handler/backtrace"
	"github.com/vovanec/report/indent"
	"github.com/vovanec/report/section"
	"github.com/vovanec/report/spantrace"
	"github.com/vovanec/report/stack"
)

const (
	blockWidth  = 80
	blockIndent = "  "
	contextSize = 2
)

// Debug renders, in order: the description, the creation location, the
// cause chain, the visible sections, the span trace, the backtrace and a
// hint about environment settings.
func (h *Handler) Debug(w io.Writer, err error) error {
	if err == nil {
		return nil
	}
	p := h.palette(w)
	rw := &renderer{w: w}

	rw.write(p.paint(p.theme.Error)(err.Error()))
	if !h.origin.Empty() {
		rw.write("\n\nLocation:\n" + indent.String(h.originText(p), indent.Uniform("    ")))
	}
	if rw.err == nil {
		rw.err = handler.WriteCauses(w, err, p.paint(p.theme.Error))
	}

	st := section.Style{
		Label: func(_ section.Kind, s string) string { return p.paint(p.theme.Label)(s) },
		Error: p.paint(p.theme.Error),
	}
	for _, s := range h.sections {
		if s.Skipped() {
			continue
		}
		rw.write("\n\n")
		if rw.err == nil {
			rw.err = s.Render(w, st)
		}
	}

	spans := h.spans
	if spans.Empty() {
		spans, _ = deepestSpans(err)
	}
	if !spans.Empty() {
		rw.block(h.spanBlock(p, spans))
	}

	trace := h.trace
	if h.cfg.verbosity != handler.VerbosityOmit && len(trace) == 0 {
		trace, _ = backtrace.Deepest(err)
	}
	if h.cfg.verbosity != handler.VerbosityOmit && len(trace) > 0 {
		rw.block(h.traceBlock(p, trace))
	}

	if hint := h.envHint(p, spans); hint != "" {
		rw.write("\n\n" + hint)
	}
	return rw.err
}

type renderer struct {
	w   io.Writer
	err error
}

func (r *renderer) write(s string) {
	if r.err != nil {
		return
	}
	_, r.err = io.WriteString(r.w, s)
}

func (r *renderer) block(body string) {
	r.write("\n\n")
	if r.err != nil {
		return
	}
	_, r.err = indent.NewFormat(r.w, indent.Uniform(blockIndent)).WriteString(body)
}

func (h *Handler) originText(p palette) string {
	paint := p.paint(p.theme.Location)
	return paint(h.origin.File) + ":" + paint(fmt.Sprint(h.origin.Line))
}

func header(title string) string {
	return lipgloss.PlaceHorizontal(blockWidth, lipgloss.Center, " "+title+" ",
		lipgloss.WithWhitespaceChars("━"))
}

func centered(s string) string {
	return strings.TrimRight(lipgloss.PlaceHorizontal(blockWidth, lipgloss.Center, s), " ")
}

func (h *Handler) spanBlock(p palette, st *spantrace.SpanTrace) string {
	var sb strings.Builder
	sb.WriteString(header("SPANTRACE"))
	sb.WriteString("\n")
	for i, s := range st.Spans {
		fmt.Fprintf(&sb, "\n%4d: %s", i, p.paint(p.theme.Function)(s.Name))
		if fields := s.Fields(); fields != "" {
			sb.WriteString(" with " + p.paint(p.theme.Fields)(fields))
		}
		if s.File != "" {
			fmt.Fprintf(&sb, "\n      at %s:%s", p.paint(p.theme.File)(s.File), p.paint(p.theme.File)(fmt.Sprint(s.Line)))
		}
	}
	return sb.String()
}

// Hidden reports whether the frame filter drops f: Go runtime and testing
// frames, and frames of this module's own packages.
func Hidden(f stack.Frame) bool {
	return f.Internal() ||
		strings.HasPrefix(f.Function, "runtime.") ||
		strings.HasPrefix(f.Function, "testing.")
}

func (h *Handler) hidden(f stack.Frame) bool {
	if h.cfg.showHidden {
		return false
	}
	if Hidden(f) {
		return true
	}
	for _, filter := range h.cfg.filters {
		if filter(f) {
			return true
		}
	}
	return false
}

func (h *Handler) traceBlock(p palette, st stack.Trace) string {
	var sb strings.Builder
	sb.WriteString(header("BACKTRACE"))

	hidden := 0
	flush := func() {
		if hidden == 0 {
			return
		}
		plural := "s"
		if hidden == 1 {
			plural = ""
		}
		sb.WriteString("\n")
		sb.WriteString(p.paint(p.theme.Hidden)(centered(fmt.Sprintf("⋮ %d frame%s hidden ⋮", hidden, plural))))
		hidden = 0
	}

	for i, f := range st {
		if h.hidden(f) {
			hidden++
			continue
		}
		flush()
		fmt.Fprintf(&sb, "\n%4d: %s\n      at %s:%s", i,
			p.paint(p.theme.Function)(f.Function),
			p.paint(p.theme.File)(f.File),
			p.paint(p.theme.File)(fmt.Sprint(f.Line)))
		if h.cfg.verbosity == handler.VerbosityFull {
			writeSource(&sb, p, f)
		}
	}
	flush()
	return sb.String()
}

// writeSource adds the lines around f's location. Files that cannot be
// read are skipped.
func writeSource(sb *strings.Builder, p palette, f stack.Frame) {
	if f.File == "" || f.Line <= 0 {
		return
	}
	file, err := os.Open(f.File)
	if err != nil {
		return
	}
	defer file.Close()

	first := max(1, f.Line-contextSize)
	last := f.Line + contextSize

	sc := bufio.NewScanner(file)
	for n := 1; n <= last && sc.Scan(); n++ {
		if n < first {
			continue
		}
		if n == f.Line {
			sb.WriteString("\n" + p.bold(fmt.Sprintf("%8d > %s", n, sc.Text())))
			continue
		}
		fmt.Fprintf(sb, "\n%8d │ %s", n, sc.Text())
	}
}

func (h *Handler) envHint(p palette, spans *spantrace.SpanTrace) string {
	if !h.cfg.envSection {
		return ""
	}
	var lines []string
	switch h.cfg.verbosity {
	case handler.VerbosityOmit:
		lines = append(lines, fmt.Sprintf("Backtrace omitted. Run with %s=1 environment variable to display it.",
			p.paint(p.theme.Label)(handler.EnvBacktrace)))
		fallthrough
	case handler.VerbosityFrames:
		lines = append(lines, fmt.Sprintf("Run with %s=full to include source snippets.",
			p.paint(p.theme.Label)(handler.EnvBacktrace)))
	}
	if h.cfg.verbosity != handler.VerbosityOmit && !h.cfg.showHidden {
		lines = append(lines, fmt.Sprintf("Run with %s=1 environment variable to disable frame filtering.",
			p.paint(p.theme.Label)(handler.EnvShowHidden)))
	}
	if !h.cfg.spanTrace && spans.Empty() {
		lines = append(lines, fmt.Sprintf("Span trace capture is disabled; unset %s to enable it.",
			p.paint(p.theme.Label)(handler.EnvSpanTrace)))
	}
	return strings.Join(lines, "\n")
}
