package cli

import (
	"context"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/Additional-Code/purchasehub/internal/client"
	"github.com/Additional-Code/purchasehub/internal/dto"
	"github.com/Additional-Code/purchasehub/internal/entity"
	"github.com/Additional-Code/purchasehub/internal/form"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// backend is the untyped view of a resource the commands work against.
// Documents travel as flat maps so one set of commands serves every resource.
type backend interface {
	List(ctx context.Context) ([]map[string]any, error)
	Get(ctx context.Context, id string) (map[string]any, error)
	FindByName(ctx context.Context, name string) (map[string]any, error)
	Create(ctx context.Context, body map[string]any) error
	Update(ctx context.Context, id string, body map[string]any) error
	Delete(ctx context.Context, id string) error
}

type typed[T any] struct {
	res *client.Resource[T]
}

func (t typed[T]) List(ctx context.Context) ([]map[string]any, error) {
	docs, err := t.res.List(ctx)
	if err != nil {
		return nil, err
	}
	return flatten(docs)
}

func (t typed[T]) Get(ctx context.Context, id string) (map[string]any, error) {
	doc, err := t.res.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return flat(doc)
}

func (t typed[T]) FindByName(ctx context.Context, name string) (map[string]any, error) {
	doc, err := t.res.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return flat(doc)
}

func (t typed[T]) Create(ctx context.Context, body map[string]any) error {
	_, err := t.res.Create(ctx, body)
	return err
}

func (t typed[T]) Update(ctx context.Context, id string, body map[string]any) error {
	_, err := t.res.Update(ctx, id, body)
	return err
}

func (t typed[T]) Delete(ctx context.Context, id string) error {
	return t.res.Delete(ctx, id)
}

// detailed lists through one of the enriched routes instead of the plain collection.
type detailed[T, V any] struct {
	typed[T]
	list func(context.Context) ([]V, error)
}

func (d detailed[T, V]) List(ctx context.Context) ([]map[string]any, error) {
	views, err := d.list(ctx)
	if err != nil {
		return nil, err
	}
	return flatten(views)
}

func flat(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	return out, json.Unmarshal(raw, &out)
}

func flatten(v any) ([]map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0)
	return out, json.Unmarshal(raw, &out)
}

// page describes how one resource is listed, edited and announced.
type page struct {
	name     string
	noun     string
	plural   string
	feminine bool
	columns  []column
	backend  func(*client.Client) backend
	form     func(context.Context, *client.Client) (*form.Form, error)
}

func (p page) lower() string { return strings.ToLower(p.noun) }

func (p page) done(verb string) string {
	suffix := "o"
	if p.feminine {
		suffix = "a"
	}
	return p.noun + " " + verb + suffix + " com sucesso!"
}

func (p page) loaded() string {
	suffix := "os"
	if p.feminine {
		suffix = "as"
	}
	return p.plural + " carregad" + suffix + " com sucesso!"
}

func (p page) confirmPrompt() string {
	article := "este"
	if p.feminine {
		article = "esta"
	}
	return "Tem certeza que deseja deletar " + article + " " + p.lower() + "?"
}

func staticForm(build func() *form.Form) func(context.Context, *client.Client) (*form.Form, error) {
	return func(context.Context, *client.Client) (*form.Form, error) { return build(), nil }
}

func supplierOptions(ctx context.Context, c *client.Client) ([]form.Option, error) {
	suppliers, err := c.Suppliers().List(ctx)
	if err != nil {
		return nil, err
	}
	return form.OptionsFrom(suppliers,
		func(s *entity.Supplier) string { return s.ID },
		func(s *entity.Supplier) string { return s.SupplierName }), nil
}

// purchaseOptions loads the store and product selects used by orders and campaigns.
func purchaseOptions(ctx context.Context, c *client.Client) ([]form.Option, []form.Option, error) {
	stores, err := c.Stores().List(ctx)
	if err != nil {
		return nil, nil, err
	}
	products, err := c.Products().List(ctx)
	if err != nil {
		return nil, nil, err
	}
	return form.OptionsFrom(stores,
			func(s *entity.Store) string { return s.ID },
			func(s *entity.Store) string { return s.Name }),
		form.OptionsFrom(products,
			func(p *entity.Product) string { return p.ID },
			func(p *entity.Product) string { return p.Name }),
		nil
}

var pages = []page{
	{
		name: "supplier", noun: "Fornecedor", plural: "Fornecedores",
		columns: []column{
			col("ID", "_id"),
			col("Nome", "supplier_name"),
			col("Categoria", "supplier_category"),
			col("Email", "contact_email"),
			col("Telefone", "phone_number"),
			labelled("Status", "status", form.Toggle),
		},
		backend: func(c *client.Client) backend { return typed[entity.Supplier]{c.Suppliers()} },
		form:    staticForm(form.Supplier),
	},
	{
		name: "product", noun: "Produto", plural: "Produtos",
		columns: []column{
			col("ID", "_id"),
			col("Nome", "name"),
			col("Descrição", "description"),
			money("Preço", "price"),
			col("Estoque", "stock_quantity"),
			labelled("Status", "status", form.Toggle),
		},
		backend: func(c *client.Client) backend { return typed[entity.Product]{c.Products()} },
		form: func(ctx context.Context, c *client.Client) (*form.Form, error) {
			suppliers, err := supplierOptions(ctx, c)
			if err != nil {
				return nil, err
			}
			return form.Product(suppliers), nil
		},
	},
	{
		name: "user", noun: "Usuário", plural: "Usuários",
		columns: []column{
			col("ID", "_id"),
			col("Nome", "name"),
			col("Email", "email"),
			col("Usuário", "username"),
			labelled("Nível", "level", form.Levels),
			labelled("Status", "status", form.Toggle),
		},
		backend: func(c *client.Client) backend { return typed[entity.User]{c.Users()} },
		form:    staticForm(form.User),
	},
	{
		name: "store", noun: "Loja", plural: "Lojas", feminine: true,
		columns: []column{
			col("ID", "_id"),
			col("Nome", "name"),
			col("CNPJ", "cnpj"),
			col("Endereço", "address"),
			col("Telefone", "phone"),
			col("Email", "email"),
			labelled("Status", "status", form.Toggle),
		},
		backend: func(c *client.Client) backend { return typed[entity.Store]{c.Stores()} },
		form:    staticForm(form.Store),
	},
	{
		name: "order", noun: "Pedido", plural: "Pedidos",
		columns: []column{
			col("ID", "_id"),
			col("Nome", "name"),
			col("Loja", "store_name"),
			col("Produto", "item_name"),
			money("Valor Total", "amount"),
			percent("Desconto", "discount"),
			labelled("Status", "status", form.OrderStatuses),
		},
		backend: func(c *client.Client) backend {
			return detailed[entity.Order, dto.OrderView]{typed[entity.Order]{c.Orders()}, c.DetailedOrders}
		},
		form: func(ctx context.Context, c *client.Client) (*form.Form, error) {
			stores, products, err := purchaseOptions(ctx, c)
			if err != nil {
				return nil, err
			}
			return form.Order(stores, products), nil
		},
	},
	{
		name: "campaign", noun: "Campanha", plural: "Campanhas", feminine: true,
		columns: []column{
			col("ID", "_id"),
			col("Nome", "name"),
			col("Loja", "store_name"),
			col("Produto", "item_name"),
			col("Início", "start_date"),
			col("Término", "end_date"),
			money("Valor Total", "amount"),
			percent("Desconto", "discount"),
			labelled("Status", "status", form.CampaignStatuses),
		},
		backend: func(c *client.Client) backend {
			return detailed[entity.Campaign, dto.CampaignView]{typed[entity.Campaign]{c.Campaigns()}, c.DetailedCampaigns}
		},
		form: func(ctx context.Context, c *client.Client) (*form.Form, error) {
			stores, products, err := purchaseOptions(ctx, c)
			if err != nil {
				return nil, err
			}
			return form.Campaign(stores, products), nil
		},
	},
}
