// Package cache keeps recently read documents close to the API so repeated
// GET /<resource>/:id calls skip the datastore.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/purchasehub/internal/config"
)

//go:generate mockgen -destination=mocks/store.go -package=mocks . Store

// Store is a byte-oriented key/value cache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ErrCacheMiss is returned by Get when key holds nothing.
var ErrCacheMiss = errors.New("cache miss")

var Module = fx.Provide(NewStore)

// NewStore picks the backend named by CACHE_DRIVER. A disabled cache always
// resolves to Noop regardless of the driver.
func NewStore(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Cache.Enabled {
		logger.Info("document cache disabled")
		return Noop(), nil
	}

	switch cfg.Cache.Driver {
	case "noop":
		logger.Info("document cache uses the noop store")
		return Noop(), nil
	case "redis":
		store := newRedisStore(cfg.Cache)
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := store.ping(ctx); err != nil {
					return err
				}
				logger.Info("document cache connected",
					zap.String("driver", "redis"),
					zap.String("addr", cfg.Cache.Redis.Addr),
					zap.Duration("ttl", cfg.Cache.DefaultTTL),
				)
				return nil
			},
			OnStop: func(context.Context) error {
				return store.close()
			},
		})
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", cfg.Cache.Driver)
	}
}

// Noop returns a Store that never holds anything.
func Noop() Store { return noop{} }

type noop struct{}

func (noop) Get(context.Context, string) ([]byte, error)              { return nil, ErrCacheMiss }
func (noop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (noop) Delete(context.Context, string) error                     { return nil }
