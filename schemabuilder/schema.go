package schemabuilder

import (
	"fmt"
	"reflect"

	"github.com/graphql-go/graphql"
)

// Schema is a struct that can be used to build out a GraphQL schema.  Functions
// can be registered against the "Query" object, and output objects can be
// registered against their Go type.
type Schema struct {
	objects map[string]*Object
}

// NewSchema creates a new schema.
func NewSchema() *Schema {
	return &Schema{
		objects: make(map[string]*Object),
	}
}

// query is the Go type backing the root Query object.
type query struct{}

// Object registers a struct as a GraphQL Object in our Schema. We'll read the
// fields of the struct to determine it's basic "Fields" and we'll return an
// Object struct that we can use to register custom relationships and fields on
// the object.
func (s *Schema) Object(name string, typ interface{}, opts ...ObjectOption) *Object {
	if object, ok := s.objects[name]; ok {
		if reflect.TypeOf(object.Type) != reflect.TypeOf(typ) {
			panic(fmt.Sprintf("re-registered object %s with a different type", name))
		}
		return object
	}

	object := &Object{
		Name: name,
		Type: typ,
	}
	for _, opt := range opts {
		opt(object)
	}
	s.objects[name] = object

	return object
}

// Query returns an Object struct that we can use to register all the top level
// graphql query functions we'd like to expose.
func (s *Schema) Query() *Object {
	return s.Object("Query", query{})
}

// Build takes the schema we have built on our Query object and builds a
// graphql-go schema from it.
func (s *Schema) Build() (*graphql.Schema, error) {
	sb := &schemaBuilder{
		types:   make(map[reflect.Type]*graphql.Object),
		objects: make(map[reflect.Type]*Object),
	}

	for _, object := range s.objects {
		typ := reflect.TypeOf(object.Type)
		if typ.Kind() != reflect.Struct {
			return nil, fmt.Errorf("object.Type should be a struct, not %s", typ.String())
		}

		if _, ok := sb.objects[typ]; ok {
			return nil, fmt.Errorf("duplicate object for %s", typ.String())
		}

		sb.objects[typ] = object
	}

	queryObj, err := sb.getObject(reflect.TypeOf(query{}))
	if err != nil {
		return nil, err
	}

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: queryObj})
	if err != nil {
		return nil, err
	}
	return &schema, nil
}

// MustBuild builds a schema and panics if an error occurs.
func (s *Schema) MustBuild() *graphql.Schema {
	built, err := s.Build()
	if err != nil {
		panic(err)
	}
	return built
}
