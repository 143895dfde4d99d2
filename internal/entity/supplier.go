package entity

import "github.com/uptrace/bun"

// Supplier is a vendor the hub purchases from.
type Supplier struct {
	bun.BaseModel `bun:"table:suppliers" bson:"-" json:"-"`
	Meta          `bson:",inline"`

	SupplierName     string `bun:"supplier_name,notnull" bson:"supplier_name" json:"supplier_name" validate:"required"`
	SupplierCategory string `bun:"supplier_category,notnull" bson:"supplier_category" json:"supplier_category" validate:"required"`
	ContactEmail     string `bun:"contact_email,notnull" bson:"contact_email" json:"contact_email" validate:"required,email"`
	PhoneNumber      string `bun:"phone_number,notnull" bson:"phone_number" json:"phone_number" validate:"required"`
	Status           string `bun:"status,notnull" bson:"status" json:"status" validate:"required,oneof=on off"`
}

func (s *Supplier) LookupName() string { return s.SupplierName }

func (s *Supplier) UniqueKeys() map[string]string { return nil }
