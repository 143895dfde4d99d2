package repository

import (
	"context"
	"errors"

	"github.com/Additional-Code/purchasehub/internal/entity"
)

//go:generate mockgen -destination=mocks/repository.go -package=mocks . Repository

var (
	// ErrNotFound is returned when no document matches the lookup.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a write would break a unique constraint.
	ErrDuplicate = errors.New("duplicate key")
	// ErrInvalidID is returned when an id cannot be cast to the backend's key type.
	ErrInvalidID = errors.New("invalid document id")
)

// Repository is the persistence contract shared by every resource.
type Repository[T any] interface {
	List(ctx context.Context) ([]*T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	FindByName(ctx context.Context, name string) (*T, error)
	Create(ctx context.Context, doc *T) error
	Update(ctx context.Context, doc *T) error
	Delete(ctx context.Context, id string) error
}

// Document constrains a type parameter to a pointer to a persisted entity.
type Document[T any] interface {
	*T
	entity.Document
}

// Descriptor names the storage locations of a resource.
type Descriptor struct {
	// Resource is the singular route segment, e.g. "supplier".
	Resource string
	// Collection is the table, collection or file name.
	Collection string
	// NameField is the column matched by FindByName.
	NameField string
}

var (
	Suppliers = Descriptor{Resource: "supplier", Collection: "suppliers", NameField: "supplier_name"}
	Products  = Descriptor{Resource: "product", Collection: "products", NameField: "name"}
	Users     = Descriptor{Resource: "user", Collection: "users", NameField: "name"}
	Stores    = Descriptor{Resource: "store", Collection: "stores", NameField: "name"}
	Orders    = Descriptor{Resource: "order", Collection: "orders", NameField: "name"}
	Campaigns = Descriptor{Resource: "campaign", Collection: "campaigns", NameField: "name"}
)

// All lists the descriptors of every resource.
var All = []Descriptor{Suppliers, Products, Users, Stores, Orders, Campaigns}

// Lookup returns the descriptor whose Resource equals resource.
func Lookup(resource string) (Descriptor, bool) {
	for _, d := range All {
		if d.Resource == resource {
			return d, true
		}
	}
	return Descriptor{}, false
}
