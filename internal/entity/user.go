package entity

import "github.com/uptrace/bun"

// User is an operator of the hub. Level is stored but never enforced.
type User struct {
	bun.BaseModel `bun:"table:users" bson:"-" json:"-"`
	Meta          `bson:",inline"`

	Name     string `bun:"name,notnull" bson:"name" json:"name" validate:"required"`
	Email    string `bun:"email,notnull,unique" bson:"email" json:"email" validate:"required,email"`
	Username string `bun:"username,notnull,unique" bson:"username" json:"username" validate:"required"`
	Password string `bun:"password,notnull" bson:"password" json:"password" validate:"required"`
	Level    string `bun:"level,notnull" bson:"level" json:"level" validate:"required,oneof=admin user"`
	Status   string `bun:"status,notnull" bson:"status" json:"status" validate:"required,oneof=on off"`
}

func (u *User) LookupName() string { return u.Name }

func (u *User) UniqueKeys() map[string]string {
	return map[string]string{"email": u.Email, "username": u.Username}
}
