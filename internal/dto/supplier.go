package dto

import "github.com/Additional-Code/purchasehub/internal/entity"

// CreateSupplierRequest is the POST /supplier body.
type CreateSupplierRequest struct {
	SupplierName     string `json:"supplier_name"`
	SupplierCategory string `json:"supplier_category"`
	ContactEmail     string `json:"contact_email"`
	PhoneNumber      string `json:"phone_number"`
	Status           string `json:"status"`
}

func (r CreateSupplierRequest) Entity() *entity.Supplier {
	return &entity.Supplier{
		SupplierName:     r.SupplierName,
		SupplierCategory: r.SupplierCategory,
		ContactEmail:     r.ContactEmail,
		PhoneNumber:      r.PhoneNumber,
		Status:           orDefault(r.Status, entity.StatusOn),
	}
}

// UpdateSupplierRequest is the PUT /supplier/:id body; nil fields are left untouched.
type UpdateSupplierRequest struct {
	SupplierName     *string `json:"supplier_name"`
	SupplierCategory *string `json:"supplier_category"`
	ContactEmail     *string `json:"contact_email"`
	PhoneNumber      *string `json:"phone_number"`
	Status           *string `json:"status"`
}

func (r UpdateSupplierRequest) Apply(s *entity.Supplier) {
	setString(&s.SupplierName, r.SupplierName)
	setString(&s.SupplierCategory, r.SupplierCategory)
	setString(&s.ContactEmail, r.ContactEmail)
	setString(&s.PhoneNumber, r.PhoneNumber)
	setString(&s.Status, r.Status)
}
