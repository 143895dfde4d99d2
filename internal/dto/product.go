package dto

import "github.com/Additional-Code/purchasehub/internal/entity"

type CreateProductRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         *Number `json:"price" validate:"required"`
	StockQuantity *Number `json:"stock_quantity" validate:"required"`
	SupplierID    string  `json:"supplier_id"`
	Status        string  `json:"status"`
}

func (r CreateProductRequest) Entity() *entity.Product {
	return &entity.Product{
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price.Float(),
		StockQuantity: r.StockQuantity.Float(),
		SupplierID:    r.SupplierID,
		Status:        orDefault(r.Status, entity.StatusOn),
	}
}

type UpdateProductRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Price         *Number `json:"price"`
	StockQuantity *Number `json:"stock_quantity"`
	SupplierID    *string `json:"supplier_id"`
	Status        *string `json:"status"`
}

func (r UpdateProductRequest) Apply(p *entity.Product) {
	setString(&p.Name, r.Name)
	setString(&p.Description, r.Description)
	setNumber(&p.Price, r.Price)
	setNumber(&p.StockQuantity, r.StockQuantity)
	setString(&p.SupplierID, r.SupplierID)
	setString(&p.Status, r.Status)
}
