package schemabuilder

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	"github.com/graphql-go/graphql"
)

// schemaBuilder is a struct for holding all the graph information for types as
// we build out graphql types for our graphql schema.
type schemaBuilder struct {
	types   map[reflect.Type]*graphql.Object
	objects map[reflect.Type]*Object
}

// getObject returns the graphql object for a struct type, building it on first
// use. The object is cached before its fields are built so self references
// resolve to the same object.
func (sb *schemaBuilder) getObject(typ reflect.Type) (*graphql.Object, error) {
	if object, ok := sb.types[typ]; ok {
		return object, nil
	}

	name := typ.Name()
	var description string
	var methods Methods
	if def, ok := sb.objects[typ]; ok {
		name = def.Name
		description = def.Description
		methods = def.Methods
	}
	if name == "" {
		return nil, fmt.Errorf("bad type %s: should have a name", typ)
	}

	fields := graphql.Fields{}
	object := graphql.NewObject(graphql.ObjectConfig{
		Name:        name,
		Description: description,
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return fields
		}),
	})
	sb.types[typ] = object

	if typ != reflect.TypeOf(query{}) {
		if err := sb.buildStructFields(typ, methods, fields); err != nil {
			return nil, err
		}
	}

	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		field, err := sb.buildFunction(typ, methods[name])
		if err != nil {
			return nil, fmt.Errorf("bad method %s on type %s: %s", name, typ, err)
		}
		fields[name] = field
	}

	return object, nil
}

// buildStructFields exposes every exported struct field that is not shadowed
// by a registered method.
func (sb *schemaBuilder) buildStructFields(typ reflect.Type, methods Methods, fields graphql.Fields) error {
	for i := 0; i < typ.NumField(); i++ {
		structField := typ.Field(i)
		info, err := parseGraphQLFieldInfo(structField)
		if err != nil {
			return err
		}
		if info.Skipped {
			continue
		}
		if _, ok := methods[info.Name]; ok {
			continue
		}
		if _, ok := fields[info.Name]; ok {
			return fmt.Errorf("bad type %s: two fields named %s", typ, info.Name)
		}

		output, err := sb.getOutput(structField.Type)
		if err != nil {
			return fmt.Errorf("bad field %s on type %s: %s", structField.Name, typ, err)
		}

		index := structField.Index
		fields[info.Name] = &graphql.Field{
			Name:              info.Name,
			Type:              output,
			Description:       info.Description,
			DeprecationReason: info.DeprecationReason,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				source, ok := derefSource(p.Source, typ)
				if !ok {
					return nil, fmt.Errorf("unexpected source %T for %s", p.Source, typ)
				}
				if !source.IsValid() {
					return nil, nil
				}
				return unwrapValue(source.FieldByIndex(index)), nil
			},
		}
	}
	return nil
}

// buildFunction wraps a registered FieldFunc into a graphql-go field.
func (sb *schemaBuilder) buildFunction(typ reflect.Type, m *method) (*graphql.Field, error) {
	fun := reflect.ValueOf(m.Fn)
	funcType := fun.Type()
	if funcType.Kind() != reflect.Func {
		return nil, fmt.Errorf("fun must be func, not %s", funcType)
	}

	in := make([]reflect.Type, 0, funcType.NumIn())
	for i := 0; i < funcType.NumIn(); i++ {
		in = append(in, funcType.In(i))
	}

	var hasContext, hasSource bool
	var sourceType reflect.Type
	var parser *argParser

	if len(in) > 0 && in[0] == contextType {
		hasContext = true
		in = in[1:]
	}

	if len(in) > 0 && (in[0] == typ || in[0] == reflect.PtrTo(typ)) {
		hasSource = true
		sourceType = in[0]
		in = in[1:]
	}

	if len(in) > 0 && in[0].Kind() == reflect.Struct {
		var err error
		if parser, err = sb.makeArgParser(in[0]); err != nil {
			return nil, err
		}
		in = in[1:]
	}

	if len(in) > 0 {
		return nil, fmt.Errorf("extra parameters %v", in)
	}

	out := make([]reflect.Type, 0, funcType.NumOut())
	for i := 0; i < funcType.NumOut(); i++ {
		out = append(out, funcType.Out(i))
	}

	hasError := len(out) > 0 && out[len(out)-1] == errType
	if hasError {
		out = out[:len(out)-1]
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("must return exactly one value, optionally followed by an error")
	}

	retType := out[0]
	output, err := sb.getOutput(retType)
	if err != nil {
		return nil, err
	}
	if m.MarkedNonNullable {
		if _, ok := output.(*graphql.NonNull); !ok {
			output = graphql.NewNonNull(output)
		}
	}

	field := &graphql.Field{
		Type:        output,
		Description: m.Description,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			args := make([]reflect.Value, 0, funcType.NumIn())

			if hasContext {
				ctx := p.Context
				if ctx == nil {
					ctx = context.Background()
				}
				args = append(args, reflect.ValueOf(&ctx).Elem())
			}

			if hasSource {
				source, ok := coerceSource(p.Source, sourceType)
				if !ok {
					return nil, fmt.Errorf("unexpected source %T, expected %s", p.Source, sourceType)
				}
				args = append(args, source)
			}

			if parser != nil {
				parsed, err := parser.Parse(p.Args)
				if err != nil {
					return nil, err
				}
				args = append(args, parsed)
			}

			results := fun.Call(args)
			if hasError {
				if err := results[len(results)-1]; !err.IsNil() {
					return nil, err.Interface().(error)
				}
			}
			return unwrapValue(results[0]), nil
		},
	}
	if parser != nil {
		field.Args = parser.Args
	}

	return field, nil
}

// getOutput maps a Go type to a graphql output type. Pointers are nullable,
// everything else is non-null.
func (sb *schemaBuilder) getOutput(typ reflect.Type) (graphql.Output, error) {
	nullable := false
	if typ.Kind() == reflect.Ptr {
		nullable = true
		typ = typ.Elem()
	}

	var base graphql.Output
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
		elem, err := sb.getOutput(typ.Elem())
		if err != nil {
			return nil, err
		}
		base = graphql.NewList(elem)
	case typ.Kind() == reflect.Struct:
		object, err := sb.getObject(typ)
		if err != nil {
			return nil, err
		}
		base = object
	default:
		return nil, fmt.Errorf("bad type %s: should be a scalar, slice, or struct type", typ)
	}

	if nullable {
		return base, nil
	}
	return graphql.NewNonNull(base), nil
}

func isIntKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// derefSource returns the struct value behind source. An invalid value is
// returned for a nil pointer.
func derefSource(source interface{}, typ reflect.Type) (reflect.Value, bool) {
	v := reflect.ValueOf(source)
	for v.IsValid() && v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, true
		}
		v = v.Elem()
	}
	if !v.IsValid() || v.Type() != typ {
		return reflect.Value{}, false
	}
	return v, true
}

// coerceSource adapts the value produced by the parent resolver to the
// receiver type expected by a FieldFunc. List items arrive as values even
// when the FieldFunc takes a pointer.
func coerceSource(source interface{}, want reflect.Type) (reflect.Value, bool) {
	v := reflect.ValueOf(source)
	if !v.IsValid() {
		return reflect.Value{}, false
	}
	if v.Type() == want {
		return v, true
	}
	if want.Kind() == reflect.Ptr && v.Type() == want.Elem() {
		ptr := reflect.New(want.Elem())
		ptr.Elem().Set(v)
		return ptr, true
	}
	if v.Kind() == reflect.Ptr && v.Type().Elem() == want && !v.IsNil() {
		return v.Elem(), true
	}
	return reflect.Value{}, false
}

// unwrapValue converts a resolver result into something graphql-go can
// serialize: nil pointers become nil and IDs become their string value.
func unwrapValue(v reflect.Value) interface{} {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return nil
		}
	case reflect.Ptr:
		if v.IsNil() {
			return nil
		}
		if v.Type().Elem() == idType {
			return v.Elem().Interface().(ID).Value
		}
	}
	if v.Type() == idType {
		return v.Interface().(ID).Value
	}
	return v.Interface()
}
