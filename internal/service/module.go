package service

import (
	"go.uber.org/fx"

	"github.com/Additional-Code/purchasehub/internal/entity"
	"github.com/Additional-Code/purchasehub/internal/repository"
)

// Module provides one Service per resource plus the Catalog.
var Module = fx.Options(
	fx.Provide(
		Provider[entity.Supplier](repository.Suppliers),
		Provider[entity.Product](repository.Products),
		Provider[entity.User](repository.Users),
		Provider[entity.Store](repository.Stores),
		Provider[entity.Order](repository.Orders),
		Provider[entity.Campaign](repository.Campaigns),
		NewCatalog,
	),
)
