// Package characters exposes the upstream character catalog as a GraphQL
// schema. Each query field performs exactly one upstream call.
package characters

import (
	"context"
	"net/http"

	"github.com/graphql-go/graphql"

	"go.appointy.com/charql"
	"go.appointy.com/charql/internal/catalog"
	"go.appointy.com/charql/schemabuilder"
)

// Catalog is the upstream the resolvers read from. *catalog.Client
// implements it.
type Catalog interface {
	Characters(ctx context.Context, page string) (*catalog.CharacterInfo, error)
	Character(ctx context.Context, id string) (*catalog.Character, error)
	CharactersByIDs(ctx context.Context, ids string) ([]catalog.Character, error)
}

// Server holds the dependencies of the resolvers.
type Server struct {
	catalog Catalog
}

func NewServer(c Catalog) *Server {
	return &Server{catalog: c}
}

// Schema builds the executable schema.
func Schema(c Catalog) (*graphql.Schema, error) {
	sb := schemabuilder.NewSchema()
	RegisterSchema(sb, NewServer(c))
	return sb.Build()
}

// GetGraphqlServer builds the schema and returns the handler serving it.
func GetGraphqlServer(c Catalog, opts ...charql.HandlerOption) (http.Handler, error) {
	schema, err := Schema(c)
	if err != nil {
		return nil, err
	}
	return charql.HTTPHandler(schema, opts...), nil
}
