package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/purchasehub/internal/entity"
)

func validSupplier() *entity.Supplier {
	return &entity.Supplier{
		SupplierName:     "ACME",
		SupplierCategory: "Eletrônicos",
		ContactEmail:     "a@acme.com",
		PhoneNumber:      "(11) 91234-5678",
		Status:           entity.StatusOn,
	}
}

func TestValidateAcceptsValidDocuments(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(validSupplier()))
	assert.NoError(t, v.Validate(&entity.Order{
		Name:      "Pedido #001",
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31T23:59:59Z",
		Discount:  10,
		StoreID:   "store-1",
		Item:      "product-1",
		Amount:    5,
		Status:    entity.OrderPending,
	}))
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	s := validSupplier()
	s.SupplierName = ""
	s.ContactEmail = "nope"

	err := New().Validate(s)
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "supplier_name", verr.Fields[0].Field)
	assert.Equal(t, "is required", verr.Fields[0].Message)
	assert.Equal(t, "contact_email", verr.Fields[1].Field)
	assert.Contains(t, err.Error(), "supplier_name: is required")
}

func TestValidateEnums(t *testing.T) {
	v := New()

	s := validSupplier()
	s.Status = "maybe"
	assert.ErrorContains(t, v.Validate(s), `status: "maybe" is not a valid enum value (allowed: on, off)`)

	u := &entity.User{Name: "Ana", Email: "ana@example.com", Username: "ana", Password: "x", Level: "root", Status: entity.StatusOn}
	assert.ErrorContains(t, v.Validate(u), "level")

	c := &entity.Campaign{Name: "Black Friday", StoreID: "s", Item: "p", Status: entity.OrderPending}
	assert.ErrorContains(t, v.Validate(c), "status")
}

func TestValidateNumericRanges(t *testing.T) {
	v := New()

	p := &entity.Product{Name: "Notebook", Description: "Dell", Price: -1, StockQuantity: 3, SupplierID: "s", Status: entity.StatusOn}
	assert.ErrorContains(t, v.Validate(p), "price: must be greater than or equal to 0")

	o := &entity.Order{Name: "x", StoreID: "s", Item: "p", Discount: 120, Status: entity.OrderPending}
	assert.ErrorContains(t, v.Validate(o), "discount: must be less than or equal to 100")
}

func TestValidateDates(t *testing.T) {
	require.NotPanics(t, func() { New() })
	o := &entity.Order{Name: "x", StoreID: "s", Item: "p", StartDate: "01/02/2024", Status: entity.OrderPending}
	assert.ErrorContains(t, New().Validate(o), "start_date")
}
