package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "lanepath.pathfind"

// SpanSearch is the name of the per-search span.
const SpanSearch = "pathfind.search"

// Tracer emits one span per search, keyed by search generation.
//
// Thread Safety: Safe for concurrent use. A nil *Tracer is disabled.
type Tracer struct {
	tracer  trace.Tracer
	enabled bool
}

// NewTracer creates a tracer on tp (the global provider when nil).
func NewTracer(tp trace.TracerProvider, enabled bool) *Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Tracer{
		tracer:  tp.Tracer(tracerName),
		enabled: enabled,
	}
}

// Enabled reports whether spans are recorded.
func (t *Tracer) Enabled() bool { return t != nil && t.enabled }

// StartSearch starts the search span.
func (t *Tracer) StartSearch(ctx context.Context, engine string, generation uint16, request string) (context.Context, trace.Span) {
	if !t.Enabled() {
		return ctx, noop.Span{}
	}
	return t.tracer.Start(ctx, SpanSearch,
		trace.WithAttributes(
			attribute.String("lanepath.engine", engine),
			attribute.Int("lanepath.generation", int(generation)),
			attribute.String("lanepath.request", request),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSearch records the outcome and ends span.
func (t *Tracer) EndSearch(span trace.Span, outcome string, positions, expanded int, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.SetAttributes(
		attribute.String("lanepath.outcome", outcome),
		attribute.Int("lanepath.positions", positions),
		attribute.Int("lanepath.expanded", expanded),
	)
	span.End()
}
