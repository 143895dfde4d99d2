package entity

import "github.com/uptrace/bun"

// Campaign is a promotion applied to an item in a store.
type Campaign struct {
	bun.BaseModel `bun:"table:campaigns" bson:"-" json:"-"`
	Meta          `bson:",inline"`

	Name      string  `bun:"name,notnull" bson:"name" json:"name" validate:"required"`
	StartDate string  `bun:"start_date" bson:"start_date,omitempty" json:"start_date,omitempty" validate:"omitempty,isodate"`
	EndDate   string  `bun:"end_date" bson:"end_date,omitempty" json:"end_date,omitempty" validate:"omitempty,isodate"`
	Discount  float64 `bun:"discount,notnull" bson:"discount" json:"discount" validate:"gte=0,lte=100"`
	StoreID   string  `bun:"store_id,notnull" bson:"store_id" json:"store_id" validate:"required"`
	Item      string  `bun:"item,notnull" bson:"item" json:"item" validate:"required"`
	Amount    float64 `bun:"amount,notnull" bson:"amount" json:"amount" validate:"gte=0"`
	Status    string  `bun:"status,notnull" bson:"status" json:"status" validate:"required,oneof=active inactive planned"`
}

func (c *Campaign) LookupName() string { return c.Name }

func (c *Campaign) UniqueKeys() map[string]string { return nil }
