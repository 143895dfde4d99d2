package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/Additional-Code/purchasehub/internal/cache/mocks"
	"github.com/Additional-Code/purchasehub/internal/config"
	"github.com/Additional-Code/purchasehub/internal/messaging"
)

func eventMessage(t *testing.T, e messaging.Event) messaging.Message {
	t.Helper()
	payload, err := e.Encode()
	require.NoError(t, err)
	return messaging.Message{Topic: "purchasehub.events", Key: e.Key(), Value: payload, Headers: e.Headers()}
}

func TestResourceEventHandler(t *testing.T) {
	cfg := config.Config{Messaging: config.Messaging{Kafka: config.Kafka{Topic: "purchasehub.events"}}}
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("registers on the configured topic", func(t *testing.T) {
		reg := NewResourceEventHandler(zap.NewNop(), cfg, mocks.NewMockStore(gomock.NewController(t)))
		assert.Equal(t, "purchasehub.events", reg.Topic)
	})

	t.Run("evicts updated documents", func(t *testing.T) {
		store := mocks.NewMockStore(gomock.NewController(t))
		store.EXPECT().Delete(gomock.Any(), "suppliers:abc").Return(nil)

		reg := NewResourceEventHandler(zap.NewNop(), cfg, store)
		msg := eventMessage(t, messaging.Event{Resource: "supplier", Action: messaging.ActionUpdated, ID: "abc", OccurredAt: now})
		require.NoError(t, reg.Handler(context.Background(), msg))
	})

	t.Run("evicts deleted documents", func(t *testing.T) {
		store := mocks.NewMockStore(gomock.NewController(t))
		store.EXPECT().Delete(gomock.Any(), "campaigns:c1").Return(nil)

		reg := NewResourceEventHandler(zap.NewNop(), cfg, store)
		msg := eventMessage(t, messaging.Event{Resource: "campaign", Action: messaging.ActionDeleted, ID: "c1", OccurredAt: now})
		require.NoError(t, reg.Handler(context.Background(), msg))
	})

	t.Run("created events only log", func(t *testing.T) {
		store := mocks.NewMockStore(gomock.NewController(t))

		reg := NewResourceEventHandler(zap.NewNop(), cfg, store)
		msg := eventMessage(t, messaging.Event{Resource: "user", Action: messaging.ActionCreated, ID: "u1", OccurredAt: now})
		require.NoError(t, reg.Handler(context.Background(), msg))
	})

	t.Run("unknown resource is ignored", func(t *testing.T) {
		store := mocks.NewMockStore(gomock.NewController(t))

		reg := NewResourceEventHandler(zap.NewNop(), cfg, store)
		msg := eventMessage(t, messaging.Event{Resource: "invoice", Action: messaging.ActionDeleted, ID: "i1", OccurredAt: now})
		require.NoError(t, reg.Handler(context.Background(), msg))
	})

	t.Run("cache failure is retried", func(t *testing.T) {
		store := mocks.NewMockStore(gomock.NewController(t))
		store.EXPECT().Delete(gomock.Any(), "stores:s1").Return(errors.New("redis down"))

		reg := NewResourceEventHandler(zap.NewNop(), cfg, store)
		msg := eventMessage(t, messaging.Event{Resource: "store", Action: messaging.ActionUpdated, ID: "s1", OccurredAt: now})
		assert.EqualError(t, reg.Handler(context.Background(), msg), "redis down")
	})

	t.Run("malformed payload", func(t *testing.T) {
		store := mocks.NewMockStore(gomock.NewController(t))

		reg := NewResourceEventHandler(zap.NewNop(), cfg, store)
		err := reg.Handler(context.Background(), messaging.Message{Topic: "purchasehub.events", Value: []byte("{")})
		assert.Error(t, err)
	})
}
