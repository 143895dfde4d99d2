package dto

import "github.com/Additional-Code/purchasehub/internal/entity"

// CreateOrderRequest is the POST /order body. Campaigns share the same shape.
type CreateOrderRequest struct {
	Name      string  `json:"name"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Discount  Number  `json:"discount"`
	StoreID   string  `json:"store_id"`
	Item      string  `json:"item"`
	Amount    *Number `json:"amount" validate:"required"`
	Status    string  `json:"status"`
}

func (r CreateOrderRequest) Entity() *entity.Order {
	return &entity.Order{
		Name:      r.Name,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Discount:  r.Discount.Float(),
		StoreID:   r.StoreID,
		Item:      r.Item,
		Amount:    r.Amount.Float(),
		Status:    orDefault(r.Status, entity.OrderPending),
	}
}

type UpdateOrderRequest struct {
	Name      *string `json:"name"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Discount  *Number `json:"discount"`
	StoreID   *string `json:"store_id"`
	Item      *string `json:"item"`
	Amount    *Number `json:"amount"`
	Status    *string `json:"status"`
}

func (r UpdateOrderRequest) Apply(o *entity.Order) {
	setString(&o.Name, r.Name)
	setString(&o.StartDate, r.StartDate)
	setString(&o.EndDate, r.EndDate)
	setNumber(&o.Discount, r.Discount)
	setString(&o.StoreID, r.StoreID)
	setString(&o.Item, r.Item)
	setNumber(&o.Amount, r.Amount)
	setString(&o.Status, r.Status)
}

// OrderView is an order with its store and item references resolved to names.
type OrderView struct {
	*entity.Order
	StoreName string `json:"store_name"`
	ItemName  string `json:"item_name"`
}
