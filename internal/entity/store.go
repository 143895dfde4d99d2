package entity

import "github.com/uptrace/bun"

// Store is a retail unit placing orders through the hub.
type Store struct {
	bun.BaseModel `bun:"table:stores" bson:"-" json:"-"`
	Meta          `bson:",inline"`

	Name    string `bun:"name,notnull" bson:"name" json:"name" validate:"required"`
	CNPJ    string `bun:"cnpj,notnull,unique" bson:"cnpj" json:"cnpj" validate:"required"`
	Address string `bun:"address,notnull" bson:"address" json:"address" validate:"required"`
	Phone   string `bun:"phone,notnull" bson:"phone" json:"phone" validate:"required"`
	Email   string `bun:"email,notnull" bson:"email" json:"email" validate:"required,email"`
	Status  string `bun:"status,notnull" bson:"status" json:"status" validate:"required,oneof=on off"`
}

func (s *Store) LookupName() string { return s.Name }

func (s *Store) UniqueKeys() map[string]string {
	return map[string]string{"cnpj": s.CNPJ}
}
