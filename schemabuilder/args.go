package schemabuilder

import (
	"fmt"
	"reflect"

	"github.com/graphql-go/graphql"
)

// argParser turns the coerced argument map handed out by the executor into
// the args struct a FieldFunc expects.
type argParser struct {
	Type   reflect.Type
	Args   graphql.FieldConfigArgument
	fields []argField
}

type argField struct {
	name  string
	index []int
}

// Parse builds a new args struct from the argument map.
func (p *argParser) Parse(args map[string]interface{}) (reflect.Value, error) {
	dest := reflect.New(p.Type).Elem()
	for _, f := range p.fields {
		value, ok := args[f.name]
		if !ok {
			continue
		}
		if err := setValue(dest.FieldByIndex(f.index), value); err != nil {
			return reflect.Value{}, fmt.Errorf("error parsing argument %s: %s", f.name, err)
		}
	}
	return dest, nil
}

func (sb *schemaBuilder) makeArgParser(typ reflect.Type) (*argParser, error) {
	parser := &argParser{
		Type: typ,
		Args: graphql.FieldConfigArgument{},
	}

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		info, err := parseGraphQLFieldInfo(field)
		if err != nil {
			return nil, err
		}
		if info.Skipped {
			continue
		}
		if _, ok := parser.Args[info.Name]; ok {
			return nil, fmt.Errorf("duplicate argument %s", info.Name)
		}

		input, err := getInput(field.Type)
		if err != nil {
			return nil, fmt.Errorf("bad argument %s: %s", info.Name, err)
		}

		parser.Args[info.Name] = &graphql.ArgumentConfig{
			Type:        input,
			Description: info.Description,
		}
		parser.fields = append(parser.fields, argField{name: info.Name, index: field.Index})
	}

	return parser, nil
}

// getInput maps a Go type to a graphql input type. Pointers and slices of
// pointers are nullable, everything else is non-null.
func getInput(typ reflect.Type) (graphql.Input, error) {
	nullable := false
	if typ.Kind() == reflect.Ptr {
		nullable = true
		typ = typ.Elem()
	}

	var base graphql.Input
	switch {
	case typ == idType:
		base = graphql.ID
	case typ.Kind() == reflect.String:
		base = graphql.String
	case typ.Kind() == reflect.Bool:
		base = graphql.Boolean
	case isIntKind(typ.Kind()):
		base = graphql.Int
	case typ.Kind() == reflect.Float32 || typ.Kind() == reflect.Float64:
		base = graphql.Float
	case typ.Kind() == reflect.Slice:
		elem, err := getInput(typ.Elem())
		if err != nil {
			return nil, err
		}
		base = graphql.NewList(elem)
	default:
		return nil, fmt.Errorf("bad arg type %s: should be a scalar or a slice of scalars", typ)
	}

	if nullable {
		return base, nil
	}
	return graphql.NewNonNull(base), nil
}

// setValue stores a coerced argument value into dest.
func setValue(dest reflect.Value, value interface{}) error {
	if value == nil {
		if dest.Kind() == reflect.Ptr || dest.Kind() == reflect.Slice {
			dest.Set(reflect.Zero(dest.Type()))
			return nil
		}
		return fmt.Errorf("null value for non-null type %s", dest.Type())
	}

	if dest.Kind() == reflect.Ptr {
		ptr := reflect.New(dest.Type().Elem())
		if err := setValue(ptr.Elem(), value); err != nil {
			return err
		}
		dest.Set(ptr)
		return nil
	}

	if dest.Type() == idType {
		dest.Set(reflect.ValueOf(ID{Value: fmt.Sprint(value)}))
		return nil
	}

	switch dest.Kind() {
	case reflect.String:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		dest.SetString(s)
	case reflect.Bool:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		dest.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := asInt64(value)
		if !ok {
			return fmt.Errorf("expected int, got %T", value)
		}
		dest.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := asInt64(value)
		if !ok || n < 0 {
			return fmt.Errorf("expected unsigned int, got %v", value)
		}
		dest.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		switch f := value.(type) {
		case float64:
			dest.SetFloat(f)
		case float32:
			dest.SetFloat(float64(f))
		case int:
			dest.SetFloat(float64(f))
		default:
			return fmt.Errorf("expected float, got %T", value)
		}
	case reflect.Slice:
		items, ok := value.([]interface{})
		if !ok {
			return fmt.Errorf("expected list, got %T", value)
		}
		slice := reflect.MakeSlice(dest.Type(), len(items), len(items))
		for i, item := range items {
			if err := setValue(slice.Index(i), item); err != nil {
				return err
			}
		}
		dest.Set(slice)
	default:
		return fmt.Errorf("unsupported argument type %s", dest.Type())
	}
	return nil
}

func asInt64(value interface{}) (int64, bool) {
	switch n := value.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), float64(int64(n)) == n
	}
	return 0, false
}
