package form

import "github.com/Additional-Code/purchasehub/internal/entity"

// Static option lists shared by the forms and the list tables.
var (
	Toggle           = Values(entity.StatusOn, entity.StatusOff)
	Levels           = Values(entity.LevelAdmin, entity.LevelUser)
	OrderStatuses    = []Option{{entity.OrderPending, "Pendente"}, {entity.OrderProcessing, "Processando"}, {entity.OrderCompleted, "Concluído"}}
	CampaignStatuses = []Option{{entity.CampaignActive, "Ativa"}, {entity.CampaignInactive, "Inativa"}, {entity.CampaignPlanned, "Planejada"}}
)

// Supplier returns the supplier form.
func Supplier() *Form {
	return New("Fornecedor",
		Field{Name: "supplier_name", Label: "Nome do Fornecedor", Type: Text},
		Field{Name: "supplier_category", Label: "Categoria", Type: Text},
		Field{Name: "contact_email", Label: "Email", Type: Email, Placeholder: "contato@fornecedor.com"},
		Field{Name: "phone_number", Label: "Telefone", Type: Text, Placeholder: "(00) 00000-0000"},
		Field{Name: "status", Label: "Status", Type: Select, Options: Toggle, Optional: true},
	)
}

// Product returns the product form; suppliers feeds the supplier select.
func Product(suppliers []Option) *Form {
	return New("Produto",
		Field{Name: "name", Label: "Nome do Produto", Type: Text},
		Field{Name: "description", Label: "Descrição", Type: Text},
		Field{Name: "price", Label: "Preço", Type: Number},
		Field{Name: "stock_quantity", Label: "Quantidade em Estoque", Type: Number},
		Field{Name: "supplier_id", Label: "Fornecedor", Type: Select, Options: suppliers},
		Field{Name: "status", Label: "Status", Type: Select, Options: Toggle, Optional: true},
	)
}

// User returns the user form.
func User() *Form {
	return New("Usuário",
		Field{Name: "name", Label: "Nome", Type: Text},
		Field{Name: "email", Label: "Email", Type: Email},
		Field{Name: "username", Label: "Usuário", Type: Text},
		Field{Name: "password", Label: "Senha", Type: Password},
		Field{Name: "level", Label: "Nível", Type: Select, Options: Levels, Optional: true},
		Field{Name: "status", Label: "Status", Type: Select, Options: Toggle, Optional: true},
	)
}

// Store returns the store form.
func Store() *Form {
	return New("Loja",
		Field{Name: "name", Label: "Nome da Loja", Type: Text},
		Field{Name: "cnpj", Label: "CNPJ", Type: Text, Placeholder: "00.000.000/0000-00"},
		Field{Name: "address", Label: "Endereço", Type: Text},
		Field{Name: "phone", Label: "Telefone", Type: Text, Placeholder: "(00) 00000-0000"},
		Field{Name: "email", Label: "Email", Type: Email},
		Field{Name: "status", Label: "Status", Type: Select, Options: Toggle, Optional: true},
	)
}

// Order returns the order form with store and product selects.
func Order(stores, products []Option) *Form {
	return New("Pedido", purchase(stores, products, OrderStatuses)...)
}

// Campaign returns the campaign form; it shares the order layout.
func Campaign(stores, products []Option) *Form {
	return New("Campanha", purchase(stores, products, CampaignStatuses)...)
}

func purchase(stores, products, statuses []Option) []Field {
	return []Field{
		{Name: "name", Label: "Nome", Type: Text},
		{Name: "store_id", Label: "Loja", Type: Select, Options: stores},
		{Name: "item", Label: "Produto", Type: Select, Options: products},
		{Name: "amount", Label: "Valor Total", Type: Number},
		{Name: "discount", Label: "Desconto (%)", Type: Number, Optional: true},
		{Name: "start_date", Label: "Data de Início", Type: Date, Optional: true},
		{Name: "end_date", Label: "Data de Término", Type: Date, Optional: true},
		{Name: "status", Label: "Status", Type: Select, Options: statuses, Optional: true},
	}
}
