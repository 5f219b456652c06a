package schemabuilder

import (
	"fmt"
	"strconv"
)

// Object - an Object represents a Go type and set of methods to be converted into an Object in a GraphQL schema.
type Object struct {
	Name        string // Optional, defaults to Type's name.
	Description string
	Type        interface{}
	Methods     Methods
}

// A Methods map represents the set of methods exposed on a Object.
type Methods map[string]*method

type method struct {
	MarkedNonNullable bool
	Fn                interface{}
	Description       string
}

// ObjectOption configures an Object at registration time.
type ObjectOption func(*Object)

// WithDescription sets the description of the registered type.
func WithDescription(desc string) ObjectOption {
	return func(o *Object) {
		o.Description = desc
	}
}

// FieldOption configures a single field registered with FieldFunc.
type FieldOption func(*method)

// FieldDesc sets the description of a field.
func FieldDesc(desc string) FieldOption {
	return func(m *method) {
		m.Description = desc
	}
}

// NonNullable marks a field returning a pointer as non-null in the schema.
// The resolver must then never return a nil pointer without an error.
func NonNullable() FieldOption {
	return func(m *method) {
		m.MarkedNonNullable = true
	}
}

// FieldFunc exposes a field on an object. The function f can take a number of
// optional arguments:
// func([ctx context.Context], [o *Type], [args struct {}]) ([Result], [error])
//
// For example, for an object of type Character, an id field might take just an
// instance of the object:
//
//	character.FieldFunc("id", func(c *Character) schemabuilder.ID {
//	   return schemabuilder.ID{Value: strconv.Itoa(c.ID)}
//	})
//
// A query field might take both a context and arguments:
//
//	query.FieldFunc("character", func(ctx context.Context, args struct{
//	    ID schemabuilder.ID `graphql:"id"`
//	}) (*Character, error) {
//	    return client.Character(ctx, args.ID.Value)
//	})
//
// A FieldFunc named like one of the struct fields replaces that field.
func (s *Object) FieldFunc(name string, f interface{}, opts ...FieldOption) {
	if s.Methods == nil {
		s.Methods = make(Methods)
	}

	m := &method{Fn: f}
	for _, opt := range opts {
		opt(m)
	}

	if _, ok := s.Methods[name]; ok {
		panic(fmt.Sprintf("duplicate method %s on %s", name, s.Name))
	}
	s.Methods[name] = m
}

// ID is the graphql ID scalar
type ID struct {
	Value string
}

// MarshalJSON implements JSON Marshalling used to generate the output
func (id ID) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, id.Value), nil
}
