package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("boxscore-refiner/internal/usecase")
var usecaseNoopSpan = trace.SpanFromContext(context.Background())

// startCycleSpan opens the root span of one refinement cycle.
func startCycleSpan(ctx context.Context, cycleID string) (context.Context, trace.Span) {
	return usecaseTracer.Start(ctx, "refine.cycle",
		trace.WithNewRoot(),
		trace.WithAttributes(attribute.String("refine.cycle_id", cycleID)),
	)
}

// startUsecaseSpan only opens a child span when the caller is already traced.
func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" {
		return ctx, usecaseNoopSpan
	}
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, usecaseNoopSpan
	}
	return usecaseTracer.Start(ctx, name)
}
