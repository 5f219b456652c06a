package introspection_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"go.appointy.com/charql/introspection"
	"go.appointy.com/charql/schemabuilder"
)

type widget struct {
	Name string `graphql:"name,description=The name of the widget."`
	Old  string `graphql:"old,deprecated=Use name."`
}

func TestComputeSchemaJSON(t *testing.T) {
	sb := schemabuilder.NewSchema()
	sb.Object("Widget", widget{}, schemabuilder.WithDescription("A widget."))
	sb.Query().FieldFunc("widget", func() *widget { return &widget{Name: "w"} },
		schemabuilder.FieldDesc("The widget."))

	out, err := introspection.ComputeSchemaJSON(sb.MustBuild())
	require.NoError(t, err)

	var doc struct {
		Schema struct {
			QueryType struct {
				Name string `json:"name"`
			} `json:"queryType"`
			Types []struct {
				Name        string `json:"name"`
				Description string `json:"description"`
				Fields      []struct {
					Name              string `json:"name"`
					Description       string `json:"description"`
					IsDeprecated      bool   `json:"isDeprecated"`
					DeprecationReason string `json:"deprecationReason"`
				} `json:"fields"`
			} `json:"types"`
		} `json:"__schema"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))
	require.Equal(t, "Query", doc.Schema.QueryType.Name)

	found := false
	for _, typ := range doc.Schema.Types {
		if typ.Name != "Widget" {
			continue
		}
		found = true
		require.Equal(t, "A widget.", typ.Description)
		require.Len(t, typ.Fields, 2)
		for _, f := range typ.Fields {
			switch f.Name {
			case "name":
				require.Equal(t, "The name of the widget.", f.Description)
				require.False(t, f.IsDeprecated)
			case "old":
				require.True(t, f.IsDeprecated)
				require.Equal(t, "Use name.", f.DeprecationReason)
			}
		}
	}
	require.True(t, found, string(out))
}
