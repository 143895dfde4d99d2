package worker

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Additional-Code/purchasehub/internal/config"
	"github.com/Additional-Code/purchasehub/internal/messaging"
)

var meter = otel.Meter("github.com/Additional-Code/purchasehub/worker")

// HandlerRegistration subscribes Handler to Topic. Modules contribute them to
// the "worker.handlers" value group.
type HandlerRegistration struct {
	Topic   string
	Handler messaging.Handler
}

type Params struct {
	fx.In

	Client        messaging.Client
	Logger        *zap.Logger
	Config        config.Config
	Registrations []HandlerRegistration `group:"worker.handlers"`
}

// Engine runs a pool of consumers over the messaging client and routes every
// message to the handlers of its topic.
type Engine struct {
	client   messaging.Client
	logger   *zap.Logger
	workers  config.Worker
	enabled  bool
	handlers map[string][]messaging.Handler
	messages metric.Int64Counter

	cancel context.CancelFunc
	group  *errgroup.Group
}

// NewEngine keeps registration order for handlers sharing a topic and drops
// incomplete registrations.
func NewEngine(p Params) *Engine {
	handlers := make(map[string][]messaging.Handler)
	for _, r := range p.Registrations {
		if r.Topic != "" && r.Handler != nil {
			handlers[r.Topic] = append(handlers[r.Topic], r.Handler)
		}
	}

	messages, err := meter.Int64Counter("purchasehub.worker.messages",
		metric.WithDescription("Messages handled by the worker engine"))
	if err != nil {
		p.Logger.Warn("worker counter unavailable", zap.Error(err))
	}

	return &Engine{
		client:   p.Client,
		logger:   p.Logger,
		workers:  p.Config.Messaging.Workers,
		enabled:  p.Config.Messaging.Enabled && p.Config.Messaging.Workers.Enabled,
		handlers: handlers,
		messages: messages,
	}
}

var Module = fx.Options(
	fx.Provide(NewEngine),
	fx.Invoke(func(lc fx.Lifecycle, e *Engine) {
		lc.Append(fx.StartStopHook(e.start, e.stop))
	}),
)

func (e *Engine) start(context.Context) error {
	switch {
	case !e.enabled:
		e.logger.Info("worker engine disabled")
		return nil
	case len(e.handlers) == 0:
		e.logger.Info("worker engine has no handlers; skipping")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)
	e.cancel, e.group = cancel, group

	n := max(e.workers.Concurrency, 1)
	for id := range n {
		group.Go(func() error {
			e.consume(ctx, e.logger.With(zap.Int("worker", id)))
			return nil
		})
	}

	e.logger.Info("worker engine started", zap.Int("workers", n), zap.String("topic", e.client.Topic()))
	return nil
}

func (e *Engine) stop(ctx context.Context) error {
	if e.cancel == nil {
		return nil
	}
	e.cancel()

	done := make(chan error, 1)
	go func() { done <- e.group.Wait() }()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		e.logger.Info("worker engine stopped")
		return err
	}
}

// Dispatch runs the handlers of msg.Topic in order and stops at the first
// failure. Messages on unknown topics are acknowledged.
func (e *Engine) Dispatch(ctx context.Context, msg messaging.Message) error {
	handlers := e.handlers[msg.Topic]
	if len(handlers) == 0 {
		e.logger.Warn("no handler for topic", zap.String("topic", msg.Topic))
		e.record(ctx, msg.Topic, "unhandled")
		return nil
	}

	for _, handle := range handlers {
		if err := handle(ctx, msg); err != nil {
			e.record(ctx, msg.Topic, "failed")
			return err
		}
	}
	e.record(ctx, msg.Topic, "ok")
	return nil
}

func (e *Engine) record(ctx context.Context, topic, outcome string) {
	if e.messages == nil {
		return
	}
	e.messages.Add(ctx, 1, metric.WithAttributes(
		attribute.String("messaging.topic", topic),
		attribute.String("outcome", outcome),
	))
}

// restartPolicy starts at the configured poll interval and caps at 30s.
func (e *Engine) restartPolicy() *backoff.ExponentialBackOff {
	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = time.Second
	if e.workers.PollInterval > 0 {
		retry.InitialInterval = e.workers.PollInterval
	}
	retry.MaxInterval = max(30*time.Second, retry.InitialInterval)
	retry.Reset()
	return retry
}

// consume re-enters Consume with exponential backoff until ctx ends.
func (e *Engine) consume(ctx context.Context, logger *zap.Logger) {
	retry := e.restartPolicy()

	for ctx.Err() == nil {
		err := e.client.Consume(ctx, func(ctx context.Context, msg messaging.Message) error {
			logger.Debug("processing message", zap.String("topic", msg.Topic), zap.Int64("offset", msg.Offset))
			return e.Dispatch(ctx, msg)
		})
		if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}

		wait := retry.NextBackOff()
		logger.Error("consumer stopped; restarting", zap.Error(err), zap.Duration("retry_in", wait))
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return
		}
	}
}
