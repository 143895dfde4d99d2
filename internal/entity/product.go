package entity

import "github.com/uptrace/bun"

// Product is an item offered by a supplier. SupplierID is not checked against suppliers.
type Product struct {
	bun.BaseModel `bun:"table:products" bson:"-" json:"-"`
	Meta          `bson:",inline"`

	Name          string  `bun:"name,notnull" bson:"name" json:"name" validate:"required"`
	Description   string  `bun:"description,notnull" bson:"description" json:"description" validate:"required"`
	Price         float64 `bun:"price,notnull" bson:"price" json:"price" validate:"gte=0"`
	StockQuantity float64 `bun:"stock_quantity,notnull" bson:"stock_quantity" json:"stock_quantity" validate:"gte=0"`
	SupplierID    string  `bun:"supplier_id,notnull" bson:"supplier_id" json:"supplier_id" validate:"required"`
	Status        string  `bun:"status,notnull" bson:"status" json:"status" validate:"required,oneof=on off"`
}

func (p *Product) LookupName() string { return p.Name }

func (p *Product) UniqueKeys() map[string]string { return nil }
