package dto

import "github.com/Additional-Code/purchasehub/internal/entity"

type CreateCampaignRequest struct {
	Name      string  `json:"name"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Discount  Number  `json:"discount"`
	StoreID   string  `json:"store_id"`
	Item      string  `json:"item"`
	Amount    *Number `json:"amount" validate:"required"`
	Status    string  `json:"status"`
}

func (r CreateCampaignRequest) Entity() *entity.Campaign {
	return &entity.Campaign{
		Name:      r.Name,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Discount:  r.Discount.Float(),
		StoreID:   r.StoreID,
		Item:      r.Item,
		Amount:    r.Amount.Float(),
		Status:    orDefault(r.Status, entity.CampaignPlanned),
	}
}

type UpdateCampaignRequest struct {
	Name      *string `json:"name"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Discount  *Number `json:"discount"`
	StoreID   *string `json:"store_id"`
	Item      *string `json:"item"`
	Amount    *Number `json:"amount"`
	Status    *string `json:"status"`
}

func (r UpdateCampaignRequest) Apply(c *entity.Campaign) {
	setString(&c.Name, r.Name)
	setString(&c.StartDate, r.StartDate)
	setString(&c.EndDate, r.EndDate)
	setNumber(&c.Discount, r.Discount)
	setString(&c.StoreID, r.StoreID)
	setString(&c.Item, r.Item)
	setNumber(&c.Amount, r.Amount)
	setString(&c.Status, r.Status)
}

// CampaignView is a campaign with its store and item references resolved to names.
type CampaignView struct {
	*entity.Campaign
	StoreName string `json:"store_name"`
	ItemName  string `json:"item_name"`
}
