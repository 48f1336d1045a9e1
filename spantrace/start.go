package spantrace

import (
	"context"
	"runtime"

	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Start starts a span and records the caller's function, file and line as
// code.* attributes, so captured span traces can point back to source.
func Start(ctx context.Context, tracer trace.Tracer, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if pc, file, line, ok := runtime.Caller(1); ok {
		attrs := []attribute.KeyValue{
			semconv.CodeFilepath(file),
			semconv.CodeLineNumber(line),
		}
		if fn := runtime.FuncForPC(pc); fn != nil {
			attrs = append(attrs, semconv.CodeFunction(fn.Name()))
		}
		opts = append(opts, trace.WithAttributes(attrs...))
	}
	return tracer.Start(ctx, name, opts...)
}
