// Package otel provides OpenTelemetry instrumentation utilities for the
// synchronization service.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for business context used across the application.
const (
	AttrNamespace = attribute.Key("confsync.namespace")
	AttrOperation = attribute.Key("confsync.operation")
	AttrAppName   = attribute.Key("confsync.app.name")
	AttrAppCount  = attribute.Key("confsync.app.count")
	AttrRepoURL   = attribute.Key("confsync.repository.url")
)

// StartSpan starts a new span if the tracer is non-nil, otherwise returns a no-op span.
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError records an error on a span and sets the span status to error.
// It safely handles nil spans and nil errors.
// Note: The status description is intentionally generic to keep repository
// URLs and token material out of trace status. The full error details are
// still available via span events for debugging.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}
