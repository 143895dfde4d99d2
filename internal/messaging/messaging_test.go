package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/Additional-Code/purchasehub/internal/config"
)

func TestNewClient(t *testing.T) {
	lc := fxtest.NewLifecycle(t)

	t.Run("disabled", func(t *testing.T) {
		client, err := NewClient(lc, config.Config{Messaging: config.Messaging{
			Driver: "kafka",
			Kafka:  config.Kafka{Topic: "purchasehub.events"},
		}}, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, Noop("purchasehub.events"), client)
		assert.Equal(t, "purchasehub.events", client.Topic())
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := NewClient(lc, config.Config{Messaging: config.Messaging{Enabled: true, Driver: "nats"}}, nil)
		assert.EqualError(t, err, "unsupported messaging driver: nats")
	})

	t.Run("kafka", func(t *testing.T) {
		client, err := NewClient(lc, config.Config{Messaging: config.Messaging{
			Enabled: true,
			Driver:  "kafka",
			Kafka:   config.Kafka{Brokers: []string{"localhost:9092"}, Topic: "purchasehub.events"},
		}}, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &kafkaClient{}, client)
		assert.Nil(t, client.(*kafkaClient).reader, "reader is opened lazily")
	})
}

func TestNoopConsumeBlocksUntilDone(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := Noop("t")
	require.NoError(t, client.Publish(ctx, nil, []byte("x"), nil))
	assert.ErrorIs(t, client.Consume(ctx, nil), context.DeadlineExceeded)
}

func TestKafkaHeaders(t *testing.T) {
	event := Event{Resource: "order", Action: ActionDeleted, ID: "o1"}
	out := toKafka(Message{Key: event.Key(), Value: []byte("{}"), Headers: event.Headers()})

	assert.Equal(t, []byte("order:o1"), out.Key)
	assert.ElementsMatch(t, []kafka.Header{
		{Key: "resource", Value: []byte("order")},
		{Key: "action", Value: []byte("deleted")},
	}, out.Headers)

	out.Topic, out.Offset = "purchasehub.events", 42
	in := fromKafka(out)
	assert.Equal(t, "purchasehub.events", in.Topic)
	assert.Equal(t, int64(42), in.Offset)
	assert.Equal(t, map[string]string{"resource": "order", "action": "deleted"}, in.Headers)

	assert.Nil(t, fromKafka(kafka.Message{}).Headers)
}
