package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/Additional-Code/purchasehub/internal/config"
	"github.com/Additional-Code/purchasehub/internal/messaging"
	"github.com/Additional-Code/purchasehub/internal/messaging/mocks"
)

func enabledConfig() config.Config {
	return config.Config{Messaging: config.Messaging{
		Enabled: true,
		Workers: config.Worker{Enabled: true, Concurrency: 1},
	}}
}

func TestEngineDispatch(t *testing.T) {
	var calls []string
	record := func(name string, err error) messaging.Handler {
		return func(context.Context, messaging.Message) error {
			calls = append(calls, name)
			return err
		}
	}

	engine := NewEngine(Params{
		Logger: zap.NewNop(),
		Registrations: []HandlerRegistration{
			{Topic: "purchasehub.events", Handler: record("first", nil)},
			{Topic: "purchasehub.events", Handler: record("second", nil)},
			{Topic: "broken", Handler: record("fails", errors.New("boom"))},
			{Topic: "broken", Handler: record("never", nil)},
			{Topic: "", Handler: record("ignored", nil)},
		},
	})

	ctx := context.Background()
	require.NoError(t, engine.Dispatch(ctx, messaging.Message{Topic: "purchasehub.events"}))
	assert.Equal(t, []string{"first", "second"}, calls)

	calls = nil
	assert.EqualError(t, engine.Dispatch(ctx, messaging.Message{Topic: "broken"}), "boom")
	assert.Equal(t, []string{"fails"}, calls)

	calls = nil
	assert.NoError(t, engine.Dispatch(ctx, messaging.Message{Topic: "unknown"}))
	assert.Empty(t, calls)
}

func TestEngineRestartPolicy(t *testing.T) {
	cfg := enabledConfig()
	cfg.Messaging.Workers.PollInterval = 250 * time.Millisecond
	retry := NewEngine(Params{Logger: zap.NewNop(), Config: cfg}).restartPolicy()
	assert.Equal(t, 250*time.Millisecond, retry.InitialInterval)
	assert.Equal(t, 30*time.Second, retry.MaxInterval)

	cfg.Messaging.Workers.PollInterval = 0
	retry = NewEngine(Params{Logger: zap.NewNop(), Config: cfg}).restartPolicy()
	assert.Equal(t, time.Second, retry.InitialInterval)

	cfg.Messaging.Workers.PollInterval = time.Minute
	retry = NewEngine(Params{Logger: zap.NewNop(), Config: cfg}).restartPolicy()
	assert.Equal(t, time.Minute, retry.MaxInterval)
}

func TestEngineConsumesUntilStopped(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	handled := make(chan messaging.Message, 1)
	engine := NewEngine(Params{
		Client: client,
		Logger: zap.NewNop(),
		Config: enabledConfig(),
		Registrations: []HandlerRegistration{{
			Topic: "purchasehub.events",
			Handler: func(_ context.Context, msg messaging.Message) error {
				handled <- msg
				return nil
			},
		}},
	})

	client.EXPECT().Topic().Return("purchasehub.events").AnyTimes()
	client.EXPECT().
		Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, handler messaging.Handler) error {
			if err := handler(ctx, messaging.Message{Topic: "purchasehub.events", Key: []byte("supplier:1")}); err != nil {
				return err
			}
			<-ctx.Done()
			return ctx.Err()
		})

	require.NoError(t, engine.start(context.Background()))

	select {
	case msg := <-handled:
		assert.Equal(t, []byte("supplier:1"), msg.Key)
	case <-time.After(2 * time.Second):
		t.Fatal("message was not dispatched")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, engine.stop(stopCtx))
}

func TestEngineDisabled(t *testing.T) {
	engine := NewEngine(Params{Logger: zap.NewNop(), Config: config.Config{}})

	require.NoError(t, engine.start(context.Background()))
	require.NoError(t, engine.stop(context.Background()))
}
