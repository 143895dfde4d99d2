//go:build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Additional-Code/purchasehub/internal/config"
)

func TestRedisStore(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	store := newRedisStore(config.Cache{
		DefaultTTL: time.Minute,
		Redis:      config.Redis{Addr: fmt.Sprintf("%s:%s", host, port.Port())},
	})
	t.Cleanup(func() { _ = store.close() })
	require.NoError(t, store.ping(ctx))

	_, err = store.Get(ctx, "suppliers:s1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, store.Set(ctx, "suppliers:s1", []byte(`{"name":"Acme"}`), 0))
	raw, err := store.Get(ctx, "suppliers:s1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Acme"}`, string(raw))

	ttl, err := store.rdb.TTL(ctx, "suppliers:s1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Delete(ctx, "suppliers:s1"))
	_, err = store.Get(ctx, "suppliers:s1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.ErrorIs(t, store.Set(ctx, "", nil, 0), errEmptyKey)
}
