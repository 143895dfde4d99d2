package messaging

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Additional-Code/purchasehub/internal/config"
)

// fetchRetry is the pause after a failed fetch before trying again.
const fetchRetry = time.Second

type kafkaClient struct {
	cfg    config.Messaging
	writer *kafka.Writer
	logger *zap.Logger

	// The reader joins the consumer group, so it is only opened by Consume.
	readerOnce sync.Once
	reader     *kafka.Reader
}

func newKafkaClient(cfg config.Messaging, logger *zap.Logger) *kafkaClient {
	return &kafkaClient{
		cfg:    cfg,
		logger: logger,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Kafka.Brokers...),
			Topic:                  cfg.Kafka.Topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
			Logger:                 kafka.LoggerFunc(logger.Sugar().Debugf),
			ErrorLogger:            kafka.LoggerFunc(logger.Sugar().Errorf),
		},
	}
}

func (k *kafkaClient) Topic() string { return k.cfg.Kafka.Topic }

func (k *kafkaClient) Publish(ctx context.Context, key []byte, value []byte, headers map[string]string) error {
	return k.writer.WriteMessages(ctx, toKafka(Message{Key: key, Value: value, Headers: headers}))
}

// Consume fetches until ctx ends. Messages are committed only after handler
// succeeds.
func (k *kafkaClient) Consume(ctx context.Context, handler Handler) error {
	r := k.openReader()
	for {
		msg, err := r.FetchMessage(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			k.logger.Error("kafka fetch failed", zap.Error(err))
			select {
			case <-time.After(fetchRetry):
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		log := k.logger.With(zap.Int("partition", msg.Partition), zap.Int64("offset", msg.Offset))
		if err := handler(ctx, fromKafka(msg)); err != nil {
			log.Error("message handler failed", zap.Error(err))
			continue
		}
		if err := r.CommitMessages(ctx, msg); err != nil {
			log.Warn("kafka commit failed", zap.Error(err))
		}
	}
}

func (k *kafkaClient) openReader() *kafka.Reader {
	k.readerOnce.Do(func() {
		kc := k.cfg.Kafka
		k.reader = kafka.NewReader(kafka.ReaderConfig{
			Brokers:        kc.Brokers,
			GroupID:        k.cfg.ConsumerGroup,
			Topic:          kc.Topic,
			MinBytes:       kc.MinBytes,
			MaxBytes:       kc.MaxBytes,
			CommitInterval: kc.CommitInterval,
			Dialer:         &kafka.Dialer{Timeout: kc.ConnectTimeout, ClientID: kc.ClientID},
			Logger:         kafka.LoggerFunc(k.logger.Sugar().Debugf),
			ErrorLogger:    kafka.LoggerFunc(k.logger.Sugar().Errorf),
		})
	})
	return k.reader
}

func (k *kafkaClient) close() error {
	err := k.writer.Close()
	if k.reader != nil {
		err = errors.Join(err, k.reader.Close())
	}
	return err
}

func toKafka(msg Message) kafka.Message {
	out := kafka.Message{Key: msg.Key, Value: msg.Value}
	for name, value := range msg.Headers {
		out.Headers = append(out.Headers, kafka.Header{Key: name, Value: []byte(value)})
	}
	return out
}

func fromKafka(msg kafka.Message) Message {
	out := Message{
		Topic:  msg.Topic,
		Key:    msg.Key,
		Value:  msg.Value,
		Offset: msg.Offset,
		Time:   msg.Time,
	}
	if len(msg.Headers) > 0 {
		out.Headers = make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			out.Headers[h.Key] = string(h.Value)
		}
	}
	return out
}
