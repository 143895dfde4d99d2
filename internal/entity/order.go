package entity

import "github.com/uptrace/bun"

// Order is a purchase of an item for a store. StoreID and Item are unchecked references.
type Order struct {
	bun.BaseModel `bun:"table:orders" bson:"-" json:"-"`
	Meta          `bson:",inline"`

	Name      string  `bun:"name,notnull" bson:"name" json:"name" validate:"required"`
	StartDate string  `bun:"start_date" bson:"start_date,omitempty" json:"start_date,omitempty" validate:"omitempty,isodate"`
	EndDate   string  `bun:"end_date" bson:"end_date,omitempty" json:"end_date,omitempty" validate:"omitempty,isodate"`
	Discount  float64 `bun:"discount,notnull" bson:"discount" json:"discount" validate:"gte=0,lte=100"`
	StoreID   string  `bun:"store_id,notnull" bson:"store_id" json:"store_id" validate:"required"`
	Item      string  `bun:"item,notnull" bson:"item" json:"item" validate:"required"`
	Amount    float64 `bun:"amount,notnull" bson:"amount" json:"amount" validate:"gte=0"`
	Status    string  `bun:"status,notnull" bson:"status" json:"status" validate:"required,oneof=pending processing completed"`
}

func (o *Order) LookupName() string { return o.Name }

func (o *Order) UniqueKeys() map[string]string { return nil }
