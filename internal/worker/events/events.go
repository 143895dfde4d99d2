// Package events consumes the resource events published after every write.
package events

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/purchasehub/internal/cache"
	"github.com/Additional-Code/purchasehub/internal/config"
	"github.com/Additional-Code/purchasehub/internal/messaging"
	"github.com/Additional-Code/purchasehub/internal/repository"
	"github.com/Additional-Code/purchasehub/internal/worker"
)

var workerTracer = otel.Tracer("github.com/Additional-Code/purchasehub/worker/events")

// Module registers the resource event handler.
var Module = fx.Module("worker_events",
	fx.Provide(
		fx.Annotate(
			NewResourceEventHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewResourceEventHandler logs every resource event and evicts the cached copy
// of updated or deleted documents, so API instances sharing the cache do not
// serve stale reads.
func NewResourceEventHandler(logger *zap.Logger, cfg config.Config, store cache.Store) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.events.process", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		event, err := messaging.DecodeEvent(msg)
		if err != nil {
			logger.Error("failed to decode resource event", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return err
		}
		span.SetAttributes(
			attribute.String("resource", event.Resource),
			attribute.String("action", string(event.Action)),
		)

		logger.Info("resource event processed",
			zap.String("resource", event.Resource),
			zap.String("action", string(event.Action)),
			zap.String("id", event.ID),
			zap.String("name", event.Name),
			zap.Time("occurred_at", event.OccurredAt),
		)

		if event.Action == messaging.ActionCreated {
			return nil
		}
		desc, ok := repository.Lookup(event.Resource)
		if !ok {
			logger.Warn("event for unknown resource", zap.String("resource", event.Resource))
			return nil
		}
		if err := store.Delete(ctx, cache.Key(desc.Collection, event.ID)); err != nil && !errors.Is(err, cache.ErrCacheMiss) {
			span.RecordError(err)
			return err
		}
		return nil
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: handler,
	}
}
