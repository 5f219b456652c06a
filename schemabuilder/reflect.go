package schemabuilder

import (
	"context"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
)

// graphQLFieldInfo contains basic struct field information related to GraphQL.
type graphQLFieldInfo struct {
	// Skipped indicates that this field should not be included in GraphQL.
	Skipped bool

	// Name is the GraphQL field name that should be exposed for this field.
	Name string

	// DeprecationReason if set (non-empty) marks field deprecated.
	// Parsed from graphql tag options, e.g., `graphql:"age,deprecated=Use birthdate"`.
	DeprecationReason string

	// Description is parsed from the tag, e.g. `graphql:"name,description=The name"`.
	Description string
}

// parseGraphQLFieldInfo parses a struct field and returns a struct with the parsed information about the field (tag info, name, etc).
// The graphql tag wins over the json tag, so upstream payload structs expose
// their JSON names without any extra tagging.
func parseGraphQLFieldInfo(field reflect.StructField) (*graphQLFieldInfo, error) {
	if field.PkgPath != "" || field.Anonymous {
		return &graphQLFieldInfo{Skipped: true}, nil
	}

	tag := field.Tag.Get("graphql")
	if tag == "" {
		tag = field.Tag.Get("json")
	}
	tags := strings.Split(tag, ",")
	var name string
	if len(tags) > 0 {
		name = strings.TrimSpace(tags[0])
	}
	if name == "-" {
		return &graphQLFieldInfo{Skipped: true}, nil
	}

	if name == "" {
		name = makeGraphql(field.Name)
	}

	var depReason string
	var description string
	for _, opt := range tags[1:] {
		opt = strings.TrimSpace(opt)
		if strings.HasPrefix(opt, "deprecated=") {
			depReason = strings.TrimPrefix(opt, "deprecated=")
		} else if strings.HasPrefix(opt, "description=") {
			description = strings.TrimPrefix(opt, "description=")
		}
	}

	return &graphQLFieldInfo{Name: name, DeprecationReason: depReason, Description: description}, nil
}

// makeGraphql converts a field name "MyField" into a graphQL field name "myField".
func makeGraphql(s string) string {
	return strcase.ToLowerCamel(s)
}

// Common Types that we will need to perform type assertions against.
var errType = reflect.TypeOf((*error)(nil)).Elem()
var contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
var idType = reflect.TypeOf(ID{})
