package repository

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/purchasehub/repository")

func startSpan(ctx context.Context, desc Descriptor, backend, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("resource", desc.Resource),
		attribute.String("db.system", backend),
	)
	return repoTracer.Start(ctx, desc.Resource+"Repository."+op, trace.WithAttributes(attrs...))
}

// finishSpan records err on the span unless it is an expected lookup miss.
func finishSpan(span trace.Span, err error) {
	defer span.End()
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		span.SetStatus(codes.Error, "not found")
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage error")
	}
}
