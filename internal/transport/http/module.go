package http

import (
	"go.uber.org/fx"

	"github.com/Additional-Code/purchasehub/internal/dto"
	"github.com/Additional-Code/purchasehub/internal/entity"
	"github.com/Additional-Code/purchasehub/internal/transport/http/resource"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	fx.Invoke(
		resource.Mount[entity.Supplier, *entity.Supplier, dto.CreateSupplierRequest, dto.UpdateSupplierRequest],
		resource.Mount[entity.Product, *entity.Product, dto.CreateProductRequest, dto.UpdateProductRequest],
		resource.Mount[entity.User, *entity.User, dto.CreateUserRequest, dto.UpdateUserRequest],
		resource.Mount[entity.Store, *entity.Store, dto.CreateStoreRequest, dto.UpdateStoreRequest],
		resource.Mount[entity.Order, *entity.Order, dto.CreateOrderRequest, dto.UpdateOrderRequest],
		resource.Mount[entity.Campaign, *entity.Campaign, dto.CreateCampaignRequest, dto.UpdateCampaignRequest],
		resource.MountDetailed,
	),
)
