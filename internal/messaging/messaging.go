// Package messaging carries resource events between the API and the worker.
package messaging

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/purchasehub/internal/config"
)

//go:generate mockgen -destination=mocks/client.go -package=mocks . Client

// Message is a single record read from or written to the bus.
type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
	Offset  int64
	Time    time.Time
}

// Handler processes one inbound message. A non-nil error leaves the message
// uncommitted.
type Handler func(context.Context, Message) error

// Client publishes to and consumes from one topic.
type Client interface {
	Publish(ctx context.Context, key []byte, value []byte, headers map[string]string) error
	Consume(ctx context.Context, handler Handler) error
	Topic() string
}

var Module = fx.Provide(NewClient)

// NewClient returns the kafka client, or Noop when messaging is switched off.
func NewClient(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := cfg.Messaging
	if !m.Enabled || m.Driver == "noop" {
		logger.Info("resource events disabled")
		return Noop(m.Kafka.Topic), nil
	}
	if m.Driver != "kafka" {
		return nil, fmt.Errorf("unsupported messaging driver: %s", m.Driver)
	}

	client := newKafkaClient(m, logger)
	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		return client.close()
	}})
	logger.Info("resource events enabled",
		zap.Strings("brokers", m.Kafka.Brokers),
		zap.String("topic", m.Kafka.Topic),
	)
	return client, nil
}

// Noop drops every publish; Consume blocks until ctx is done.
func Noop(topic string) Client { return noop(topic) }

type noop string

func (noop) Publish(context.Context, []byte, []byte, map[string]string) error { return nil }

func (noop) Consume(ctx context.Context, _ Handler) error {
	<-ctx.Done()
	return ctx.Err()
}

func (n noop) Topic() string { return string(n) }
