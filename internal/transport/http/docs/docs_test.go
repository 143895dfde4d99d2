package docs

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type schema struct {
	Required   []string       `json:"required"`
	Properties map[string]any `json:"properties"`
}

func TestInputSchemasRequireOnlyFieldsWithoutDefaults(t *testing.T) {
	var doc struct {
		Components struct {
			Schemas map[string]schema `json:"schemas"`
		} `json:"components"`
	}
	require.NoError(t, jsoniter.Unmarshal(OpenAPI(), &doc))

	want := map[string][]string{
		"SupplierInput": {"supplier_name", "supplier_category", "contact_email", "phone_number"},
		"ProductInput":  {"name", "description", "supplier_id", "price", "stock_quantity"},
		"UserInput":     {"name", "email", "username", "password"},
		"StoreInput":    {"name", "address", "cnpj", "phone", "email"},
		"OrderInput":    {"name", "store_id", "item", "amount"},
		"CampaignInput": {"name", "store_id", "item", "amount"},
	}
	for name, required := range want {
		s, ok := doc.Components.Schemas[name]
		require.True(t, ok, name)
		assert.ElementsMatch(t, required, s.Required, name)
		for _, field := range s.Required {
			assert.Contains(t, s.Properties, field, name)
		}
	}
}
