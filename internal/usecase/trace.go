package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var pipelineTracer = otel.Tracer("bracket-exporter/internal/usecase")
var pipelineNoopSpan = trace.SpanFromContext(context.Background())

// startRunSpan opens the span a whole export run hangs off. It starts a new
// trace when ctx carries none.
func startRunSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = pipelineTracer
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// startStageSpan opens a child span for a pipeline stage. Without a valid
// parent it returns a no-op span.
func startStageSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" {
		return ctx, pipelineNoopSpan
	}
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, pipelineNoopSpan
	}
	if tracer == nil {
		tracer = pipelineTracer
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, FailureKind(err))
	}
	span.End()
}
