package seeder

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/purchasehub/internal/entity"
	"github.com/Additional-Code/purchasehub/internal/repository"
	"github.com/Additional-Code/purchasehub/internal/service"
	"github.com/Additional-Code/purchasehub/pkg/errorbank"
)

// Module provides the Seeder to Fx.
var Module = fx.Provide(New)

// Seeder loads a small linked data set for local/dev setups. It goes through
// the services, so it works on every storage driver.
type Seeder struct {
	suppliers *service.Service[entity.Supplier, *entity.Supplier]
	products  *service.Service[entity.Product, *entity.Product]
	users     *service.Service[entity.User, *entity.User]
	stores    *service.Service[entity.Store, *entity.Store]
	orders    *service.Service[entity.Order, *entity.Order]
	campaigns *service.Service[entity.Campaign, *entity.Campaign]
	logger    *zap.Logger
}

// Params defines dependencies for constructing a Seeder.
type Params struct {
	fx.In

	Suppliers *service.Service[entity.Supplier, *entity.Supplier]
	Products  *service.Service[entity.Product, *entity.Product]
	Users     *service.Service[entity.User, *entity.User]
	Stores    *service.Service[entity.Store, *entity.Store]
	Orders    *service.Service[entity.Order, *entity.Order]
	Campaigns *service.Service[entity.Campaign, *entity.Campaign]
	Logger    *zap.Logger
}

// New constructs a Seeder.
func New(p Params) *Seeder {
	return &Seeder{
		suppliers: p.Suppliers,
		products:  p.Products,
		users:     p.Users,
		stores:    p.Stores,
		orders:    p.Orders,
		campaigns: p.Campaigns,
		logger:    p.Logger,
	}
}

// Result counts the documents inserted by Run.
type Result struct {
	Created int
	Skipped int
}

// Run inserts the sample documents that are missing, matching by name.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result

	supplier, err := ensure(ctx, s.suppliers, &entity.Supplier{
		SupplierName:     "ACME Ferramentas",
		SupplierCategory: "Ferramentas",
		ContactEmail:     "vendas@acme.com.br",
		PhoneNumber:      "(11) 91234-5678",
		Status:           entity.StatusOn,
	}, &res)
	if err != nil {
		return res, err
	}

	product, err := ensure(ctx, s.products, &entity.Product{
		Name:          "Parafuso M6",
		Description:   "Parafuso sextavado M6 x 30mm",
		Price:         0.35,
		StockQuantity: 5000,
		SupplierID:    supplier.ID,
		Status:        entity.StatusOn,
	}, &res)
	if err != nil {
		return res, err
	}

	store, err := ensure(ctx, s.stores, &entity.Store{
		Name:    "Loja Centro",
		CNPJ:    "12.345.678/0001-90",
		Address: "Rua Direita, 100 - Centro",
		Phone:   "(11) 3333-4444",
		Email:   "centro@purchasehub.dev",
		Status:  entity.StatusOn,
	}, &res)
	if err != nil {
		return res, err
	}

	if _, err := ensure(ctx, s.users, &entity.User{
		Name:     "Administrador",
		Email:    "admin@purchasehub.dev",
		Username: "admin",
		Password: "admin",
		Level:    entity.LevelAdmin,
		Status:   entity.StatusOn,
	}, &res); err != nil {
		return res, err
	}

	if _, err := ensure(ctx, s.orders, &entity.Order{
		Name:      "Reposição mensal",
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
		StoreID:   store.ID,
		Item:      product.ID,
		Amount:    1000,
		Status:    entity.OrderPending,
	}, &res); err != nil {
		return res, err
	}

	if _, err := ensure(ctx, s.campaigns, &entity.Campaign{
		Name:      "Semana da ferramenta",
		StartDate: "2024-03-01",
		EndDate:   "2024-03-07",
		Discount:  15,
		StoreID:   store.ID,
		Item:      product.ID,
		Amount:    200,
		Status:    entity.CampaignPlanned,
	}, &res); err != nil {
		return res, err
	}

	if s.logger != nil {
		s.logger.Info("seed finished", zap.Int("created", res.Created), zap.Int("skipped", res.Skipped))
	}
	return res, nil
}

func ensure[T any, P repository.Document[T]](ctx context.Context, svc *service.Service[T, P], doc *T, res *Result) (*T, error) {
	existing, err := svc.FindByName(ctx, P(doc).LookupName())
	if err == nil {
		res.Skipped++
		return existing, nil
	}
	if !errorbank.IsKind(err, errorbank.KindNotFound) {
		return nil, err
	}

	created, err := svc.Create(ctx, doc)
	if err != nil {
		return nil, err
	}
	res.Created++
	return created, nil
}
