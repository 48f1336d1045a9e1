// Package spantrace captures the chain of live OpenTelemetry spans that
// lead to the point where an error report is created.
//
// OpenTelemetry only exposes the current span through a context, not its
// ancestors. A Registry is installed as an sdktrace.SpanProcessor and
// indexes every live span by ID so the ancestry can be walked later:
//
//	reg := spantrace.NewRegistry()
//	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(reg))
//	spantrace.Install(reg)
//
// Capture then resolves ctx's span and its parents, innermost first.
package spantrace

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Span is a snapshot of one span taken at capture time.
type Span struct {
	Name       string
	Attributes []attribute.KeyValue
	Function   string
	File       string
	Line       int
}

// SpanTrace lists spans from the innermost to the root span.
type SpanTrace struct {
	Spans []Span
}

// Empty reports whether st holds no spans. A nil SpanTrace is empty.
func (st *SpanTrace) Empty() bool {
	return st == nil || len(st.Spans) == 0
}

func (st *SpanTrace) String() string {
	if st.Empty() {
		return ""
	}
	var sb strings.Builder
	for i, s := range st.Spans {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%4d: %s", i, s.Name)
		if fields := s.Fields(); fields != "" {
			sb.WriteString(" with ")
			sb.WriteString(fields)
		}
		if s.File != "" {
			fmt.Fprintf(&sb, "\n      at %s:%d", s.File, s.Line)
		}
	}
	return sb.String()
}

// Fields renders the span's attributes as space separated key=value pairs,
// leaving out the code location keys.
func (s Span) Fields() string {
	var parts []string
	for _, kv := range s.Attributes {
		if isCodeKey(kv.Key) {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", kv.Key, kv.Value.Emit()))
	}
	return strings.Join(parts, " ")
}

// Tracer is implemented by errors that already carry a span trace.
type Tracer interface {
	SpanTrace() *SpanTrace
}

// Of returns err's own span trace when it implements Tracer.
func Of(err error) (*SpanTrace, bool) {
	if t, ok := err.(Tracer); ok {
		if st := t.SpanTrace(); !st.Empty() {
			return st, true
		}
	}
	return nil, false
}

// Registry indexes live spans by span ID.
type Registry struct {
	mu   sync.RWMutex
	live map[trace.SpanID]sdktrace.ReadOnlySpan
}

var _ sdktrace.SpanProcessor = (*Registry)(nil)

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{live: make(map[trace.SpanID]sdktrace.ReadOnlySpan)}
}

func (r *Registry) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	r.mu.Lock()
	r.live[s.SpanContext().SpanID()] = s
	r.mu.Unlock()
}

func (r *Registry) OnEnd(s sdktrace.ReadOnlySpan) {
	r.mu.Lock()
	delete(r.live, s.SpanContext().SpanID())
	r.mu.Unlock()
}

func (r *Registry) Shutdown(context.Context) error {
	r.mu.Lock()
	clear(r.live)
	r.mu.Unlock()
	return nil
}

func (r *Registry) ForceFlush(context.Context) error { return nil }

// Len returns the number of live spans.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.live)
}

// Capture snapshots the span in ctx and every live ancestor. It returns nil
// when ctx carries no span known to the registry.
func (r *Registry) Capture(ctx context.Context) *SpanTrace {
	if r == nil || ctx == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var st SpanTrace
	for sc := trace.SpanContextFromContext(ctx); sc.IsValid(); {
		s, ok := r.live[sc.SpanID()]
		if !ok {
			break
		}
		st.Spans = append(st.Spans, snapshot(s))
		sc = s.Parent()
	}
	if st.Empty() {
		return nil
	}
	return &st
}

func snapshot(s sdktrace.ReadOnlySpan) Span {
	attrs := s.Attributes()
	out := Span{
		Name:       s.Name(),
		Attributes: append([]attribute.KeyValue(nil), attrs...),
	}
	for _, kv := range attrs {
		switch kv.Key {
		case semconv.CodeFilepathKey:
			out.File = kv.Value.AsString()
		case semconv.CodeLineNumberKey:
			out.Line = int(kv.Value.AsInt64())
		case semconv.CodeFunctionKey:
			out.Function = kv.Value.AsString()
		}
	}
	return out
}

func isCodeKey(k attribute.Key) bool {
	return k == semconv.CodeFilepathKey || k == semconv.CodeLineNumberKey ||
		k == semconv.CodeFunctionKey || k == semconv.CodeNamespaceKey
}

var installed atomic.Pointer[Registry]

// Install makes r the process-wide registry used by Capture. Installing nil
// disables capture.
func Install(r *Registry) {
	installed.Store(r)
}

// Installed returns the process-wide registry, or nil.
func Installed() *Registry {
	return installed.Load()
}

// Capture uses the installed registry.
func Capture(ctx context.Context) *SpanTrace {
	return Installed().Capture(ctx)
}
