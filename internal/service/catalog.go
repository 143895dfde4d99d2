package service

import (
	"context"

	"github.com/Additional-Code/purchasehub/internal/dto"
	"github.com/Additional-Code/purchasehub/internal/entity"
)

// Catalog resolves store and product references of orders and campaigns into
// display names. References that no longer resolve are left blank.
type Catalog struct {
	Stores    *Service[entity.Store, *entity.Store]
	Products  *Service[entity.Product, *entity.Product]
	Orders    *Service[entity.Order, *entity.Order]
	Campaigns *Service[entity.Campaign, *entity.Campaign]
}

// NewCatalog groups the services consulted by the detailed listings.
func NewCatalog(
	stores *Service[entity.Store, *entity.Store],
	products *Service[entity.Product, *entity.Product],
	orders *Service[entity.Order, *entity.Order],
	campaigns *Service[entity.Campaign, *entity.Campaign],
) *Catalog {
	return &Catalog{Stores: stores, Products: products, Orders: orders, Campaigns: campaigns}
}

// DetailedOrders lists every order with store_name and item_name resolved.
func (c *Catalog) DetailedOrders(ctx context.Context) ([]dto.OrderView, error) {
	orders, err := c.Orders.List(ctx)
	if err != nil {
		return nil, err
	}
	stores, items, err := c.names(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]dto.OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, dto.OrderView{Order: o, StoreName: stores[o.StoreID], ItemName: items[o.Item]})
	}
	return views, nil
}

// DetailedCampaigns lists every campaign with store_name and item_name resolved.
func (c *Catalog) DetailedCampaigns(ctx context.Context) ([]dto.CampaignView, error) {
	campaigns, err := c.Campaigns.List(ctx)
	if err != nil {
		return nil, err
	}
	stores, items, err := c.names(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]dto.CampaignView, 0, len(campaigns))
	for _, cp := range campaigns {
		views = append(views, dto.CampaignView{Campaign: cp, StoreName: stores[cp.StoreID], ItemName: items[cp.Item]})
	}
	return views, nil
}

func (c *Catalog) names(ctx context.Context) (stores, items map[string]string, err error) {
	storeDocs, err := c.Stores.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	productDocs, err := c.Products.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	stores = make(map[string]string, len(storeDocs))
	for _, s := range storeDocs {
		stores[s.ID] = s.Name
	}
	items = make(map[string]string, len(productDocs))
	for _, p := range productDocs {
		items[p.ID] = p.Name
	}
	return stores, items, nil
}
