package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/purchasehub/internal/config"
	"github.com/Additional-Code/purchasehub/internal/database"
	"github.com/Additional-Code/purchasehub/internal/dto"
	"github.com/Additional-Code/purchasehub/internal/entity"
	"github.com/Additional-Code/purchasehub/internal/repository"
	httpserver "github.com/Additional-Code/purchasehub/internal/server/http"
	"github.com/Additional-Code/purchasehub/internal/service"
	"github.com/Additional-Code/purchasehub/internal/transport/http/resource"
	"github.com/Additional-Code/purchasehub/internal/validation"
)

func fileService[T any, P repository.Document[T]](conns *database.Connections, desc repository.Descriptor) *service.Service[T, P] {
	return service.New[T, P](desc, repository.NewFileRepository[T, P](conns, desc), service.Options{})
}

func startAPI(t *testing.T) string {
	t.Helper()

	conns := &database.Connections{Driver: "file", FileDir: t.TempDir()}
	e := httpserver.NewEcho(config.Config{HTTP: config.HTTP{AllowOrigins: []string{"*"}}}, nil, validation.New(), zap.NewNop())

	stores := fileService[entity.Store](conns, repository.Stores)
	products := fileService[entity.Product](conns, repository.Products)
	orders := fileService[entity.Order](conns, repository.Orders)
	campaigns := fileService[entity.Campaign](conns, repository.Campaigns)

	resource.Mount[entity.Supplier, *entity.Supplier, dto.CreateSupplierRequest, dto.UpdateSupplierRequest](e, fileService[entity.Supplier](conns, repository.Suppliers))
	resource.Mount[entity.Product, *entity.Product, dto.CreateProductRequest, dto.UpdateProductRequest](e, products)
	resource.Mount[entity.User, *entity.User, dto.CreateUserRequest, dto.UpdateUserRequest](e, fileService[entity.User](conns, repository.Users))
	resource.Mount[entity.Store, *entity.Store, dto.CreateStoreRequest, dto.UpdateStoreRequest](e, stores)
	resource.Mount[entity.Order, *entity.Order, dto.CreateOrderRequest, dto.UpdateOrderRequest](e, orders)
	resource.Mount[entity.Campaign, *entity.Campaign, dto.CreateCampaignRequest, dto.UpdateCampaignRequest](e, campaigns)
	resource.MountDetailed(e, service.NewCatalog(stores, products, orders, campaigns))

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv.URL
}

type run struct {
	api   string
	stdin string
}

func (r run) exec(args ...string) (string, error) {
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(r.stdin))
	root.SetArgs(append([]string{"--api", r.api}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSupplierCreateAndList(t *testing.T) {
	r := run{api: startAPI(t)}

	out, err := r.exec("supplier", "create",
		"--set", "supplier_name=ACME",
		"--set", "supplier_category=Ferramentas",
		"--set", "contact_email=contato@acme.com",
		"--set", "phone_number=11912345678",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Fornecedor criado com sucesso!")
	assert.Contains(t, out, "Fornecedores carregados com sucesso!")
	assert.Contains(t, out, "ACME")
	assert.Contains(t, out, "(11) 91234-5678")
	assert.Contains(t, out, "Ativo")

	out, err = r.exec("supplier", "find", "ACME")
	require.NoError(t, err)
	assert.Contains(t, out, "contato@acme.com")
}

func TestCreateReportsMissingFieldsWithoutCallingTheAPI(t *testing.T) {
	r := run{api: startAPI(t)}

	_, err := r.exec("user", "create", "--set", "name=Ana")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email")

	out, err := r.exec("user", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "(vazio)")
}

func TestCreatePrintsServerMessage(t *testing.T) {
	r := run{api: startAPI(t)}
	args := []string{"store", "create",
		"--set", "name=Centro",
		"--set", "cnpj=12.345.678/0001-90",
		"--set", "address=Rua A, 1",
		"--set", "phone=11987654321",
		"--set", "email=centro@loja.com",
	}

	out, err := r.exec(args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Loja criada com sucesso!")

	_, err = r.exec(args...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestUnknownSetFieldIsRejected(t *testing.T) {
	r := run{api: startAPI(t)}

	_, err := r.exec("supplier", "create", "--set", "nickname=x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field")

	_, err = r.exec("supplier", "create", "--set", "supplier_name")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected key=value")
}

func TestOrderListShowsResolvedNames(t *testing.T) {
	r := run{api: startAPI(t)}

	_, err := r.exec("store", "create",
		"--set", "name=Loja Centro", "--set", "cnpj=1", "--set", "address=Rua B",
		"--set", "phone=11900000000", "--set", "email=loja@centro.com")
	require.NoError(t, err)
	_, err = r.exec("product", "create",
		"--set", "name=Parafuso", "--set", "description=Aço", "--set", "price=10.5",
		"--set", "stock_quantity=100", "--set", "supplier_id=sup-1")
	require.NoError(t, err)

	out, err := r.exec("order", "create",
		"--set", "name=Pedido 1",
		"--set", "store_id=Loja Centro",
		"--set", "item=Parafuso",
		"--set", "amount=150",
		"--set", "discount=5",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Pedido criado com sucesso!")
	assert.Contains(t, out, "Loja Centro")
	assert.Contains(t, out, "Parafuso")
	assert.Contains(t, out, "R$ 150.00")
	assert.Contains(t, out, "5%")
	assert.Contains(t, out, "Pendente")

	out, err = r.exec("product", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "R$ 10.50")
}

func TestUpdateKeepsUntouchedFields(t *testing.T) {
	r := run{api: startAPI(t)}

	_, err := r.exec("supplier", "create",
		"--set", "supplier_name=ACME", "--set", "supplier_category=Peças",
		"--set", "contact_email=a@acme.com", "--set", "phone_number=11912345678")
	require.NoError(t, err)

	out, err := r.exec("supplier", "find", "ACME")
	require.NoError(t, err)
	id := recordValue(t, out, "ID")

	out, err = r.exec("supplier", "update", id, "--set", "status=Inativo")
	require.NoError(t, err)
	assert.Contains(t, out, "Fornecedor atualizado com sucesso!")
	assert.Contains(t, out, "Inativo")
	assert.Contains(t, out, "Peças")
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	api := startAPI(t)
	r := run{api: api}

	_, err := r.exec("user", "create",
		"--set", "name=Ana", "--set", "email=ana@hub.com",
		"--set", "username=ana", "--set", "password=secret")
	require.NoError(t, err)
	out, err := r.exec("user", "find", "Ana")
	require.NoError(t, err)
	id := recordValue(t, out, "ID")

	out, err = run{api: api, stdin: "n\n"}.exec("user", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Tem certeza que deseja deletar este usuário?")
	assert.Contains(t, out, "Operação cancelada.")

	out, err = run{api: api, stdin: "s\n"}.exec("user", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Usuário deletado com sucesso!")

	_, err = r.exec("user", "delete", id, "--yes")
	require.Error(t, err)
	assert.Equal(t, "Erro ao deletar usuário", err.Error())
}

func TestGetUnknownPrintsServerMessage(t *testing.T) {
	r := run{api: startAPI(t)}

	_, err := r.exec("campaign", "get", "missing")
	require.Error(t, err)
	assert.Equal(t, "campaign not found", err.Error())
}

func TestListFailsWithGenericMessage(t *testing.T) {
	r := run{api: "http://127.0.0.1:1"}

	_, err := r.exec("store", "list")
	require.Error(t, err)
	assert.Equal(t, "Erro ao carregar lojas", err.Error())
}

func recordValue(t *testing.T, out, header string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if v, ok := strings.CutPrefix(line, header+":"); ok {
			return strings.TrimSpace(v)
		}
	}
	t.Fatalf("%s not found in output:\n%s", header, out)
	return ""
}
