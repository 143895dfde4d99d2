package dto

import "github.com/Additional-Code/purchasehub/internal/entity"

type CreateStoreRequest struct {
	Name    string `json:"name"`
	CNPJ    string `json:"cnpj"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Status  string `json:"status"`
}

func (r CreateStoreRequest) Entity() *entity.Store {
	return &entity.Store{
		Name:    r.Name,
		CNPJ:    r.CNPJ,
		Address: r.Address,
		Phone:   r.Phone,
		Email:   r.Email,
		Status:  orDefault(r.Status, entity.StatusOn),
	}
}

type UpdateStoreRequest struct {
	Name    *string `json:"name"`
	CNPJ    *string `json:"cnpj"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Status  *string `json:"status"`
}

func (r UpdateStoreRequest) Apply(s *entity.Store) {
	setString(&s.Name, r.Name)
	setString(&s.CNPJ, r.CNPJ)
	setString(&s.Address, r.Address)
	setString(&s.Phone, r.Phone)
	setString(&s.Email, r.Email)
	setString(&s.Status, r.Status)
}
