package repository

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/purchasehub/internal/database"
	"github.com/Additional-Code/purchasehub/internal/entity"
)

// Module provides one Repository per resource, backed by the configured driver.
var Module = fx.Provide(
	provide[entity.Supplier](Suppliers),
	provide[entity.Product](Products),
	provide[entity.User](Users),
	provide[entity.Store](Stores),
	provide[entity.Order](Orders),
	provide[entity.Campaign](Campaigns),
)

// New selects the backend matching conns.Driver.
func New[T any, P Document[T]](conns *database.Connections, desc Descriptor) (Repository[T], error) {
	switch conns.Driver {
	case "postgres", "mysql", "sqlite":
		return NewBunRepository[T, P](conns, desc), nil
	case "mongo":
		return NewMongoRepository[T, P](conns, desc), nil
	case "file":
		return NewFileRepository[T, P](conns, desc), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", conns.Driver)
	}
}

func provide[T any, P Document[T]](desc Descriptor) func(fx.Lifecycle, *database.Connections, *zap.Logger) (Repository[T], error) {
	return func(lc fx.Lifecycle, conns *database.Connections, logger *zap.Logger) (Repository[T], error) {
		repo, err := New[T, P](conns, desc)
		if err != nil {
			return nil, err
		}
		if mongoRepo, ok := repo.(*MongoRepository[T, P]); ok {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					if err := mongoRepo.EnsureIndexes(ctx); err != nil {
						return fmt.Errorf("ensure %s indexes: %w", desc.Collection, err)
					}
					logger.Debug("indexes ensured", zap.String("collection", desc.Collection))
					return nil
				},
			})
		}
		return repo, nil
	}
}
