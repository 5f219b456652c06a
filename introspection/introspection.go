// Package introspection renders the introspection result of a schema, the
// document clients such as GraphiQL and code generators consume.
package introspection

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/graphql-go/graphql"
	"github.com/pkg/errors"
)

// ComputeSchemaJSON runs IntrospectionQuery against schema and returns the
// indented JSON of its data.
func ComputeSchemaJSON(schema *graphql.Schema) ([]byte, error) {
	result := graphql.Do(graphql.Params{
		Schema:        *schema,
		RequestString: IntrospectionQuery,
		Context:       context.Background(),
	})
	if result.HasErrors() {
		msgs := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, errors.Errorf("introspection failed: %s", strings.Join(msgs, "; "))
	}

	return json.MarshalIndent(result.Data, "", "  ")
}
