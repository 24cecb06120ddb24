// Package generated binds schema.graphql to the query resolvers as a gqlgen
// ExecutableSchema. Field collection, variable coercion and validation are
// left to gqlgen's executor; this package only resolves and marshals.
package generated

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"io"

	"github.com/99designs/gqlgen/graphql"
	"github.com/rratsunrollun/rollun-usps/internal/graphql/model"
	"github.com/rratsunrollun/rollun-usps/pkg/shipping"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

//go:embed schema.graphql
var sourceSchema string

var parsedSchema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphql", Input: sourceSchema})

// NewExecutableSchema creates an ExecutableSchema from the ResolverRoot interface.
func NewExecutableSchema(cfg Config) graphql.ExecutableSchema {
	return &executableSchema{
		schema:    parsedSchema,
		resolvers: cfg.Resolvers,
	}
}

// Config wires the resolvers into the schema.
type Config struct {
	Resolvers  ResolverRoot
	Directives DirectiveRoot
}

type ResolverRoot interface {
	Query() QueryResolver
}

type DirectiveRoot struct{}

type QueryResolver interface {
	Health(ctx context.Context) (bool, error)
	Suppliers(ctx context.Context, name *string) ([]*model.Supplier, error)
	SelectShipping(ctx context.Context, productID string, destinationZip string) (*shipping.SelectionResult, error)
}

var errIntrospection = errors.New("introspection is not supported")

type executableSchema struct {
	schema    *ast.Schema
	resolvers ResolverRoot
}

func (e *executableSchema) Schema() *ast.Schema {
	return e.schema
}

func (e *executableSchema) Complexity(ctx context.Context, typeName, field string, childComplexity int, rawArgs map[string]any) (int, bool) {
	return 0, false
}

func (e *executableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	opCtx := graphql.GetOperationContext(ctx)
	ec := executionContext{opCtx, e}
	first := true

	return func(ctx context.Context) *graphql.Response {
		if !first {
			return nil
		}
		first = false

		if opCtx.Operation.Operation != ast.Query {
			return graphql.ErrorResponse(ctx, "%s operations are not supported", opCtx.Operation.Operation)
		}

		var buf bytes.Buffer
		ec._Query(ctx, opCtx.Operation.SelectionSet).MarshalGQL(&buf)
		return &graphql.Response{Data: buf.Bytes()}
	}
}

type executionContext struct {
	*graphql.OperationContext
	*executableSchema
}

var (
	queryImplementors             = []string{"Query"}
	supplierImplementors          = []string{"Supplier"}
	shippingMethodImplementors    = []string{"ShippingMethod"}
	shippingSelectionImplementors = []string{"ShippingSelection"}
)

// _Query resolves the root fields. An error on a non-null field nulls the
// whole data object; selectShipping is nullable and only nulls itself.
func (ec *executionContext) _Query(ctx context.Context, sel ast.SelectionSet) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, queryImplementors)
	out := newObject(len(fields))

	for _, field := range fields {
		args := field.ArgumentMap(ec.Variables)
		fctx := graphql.WithFieldContext(ctx, &graphql.FieldContext{
			Object:     "Query",
			Field:      field,
			Args:       args,
			IsMethod:   true,
			IsResolver: true,
		})

		switch field.Name {
		case "__typename":
			out.add(field.Alias, graphql.MarshalString("Query"))
		case "__schema", "__type":
			graphql.AddError(fctx, errIntrospection)
			if field.Name == "__schema" {
				return graphql.Null
			}
			out.add(field.Alias, graphql.Null)
		case "health":
			v, err := ec.resolvers.Query().Health(fctx)
			if err != nil {
				graphql.AddError(fctx, err)
				return graphql.Null
			}
			out.add(field.Alias, graphql.MarshalBoolean(v))
		case "suppliers":
			var name *string
			if v, ok := args["name"].(string); ok {
				name = &v
			}
			v, err := ec.resolvers.Query().Suppliers(fctx, name)
			if err != nil {
				graphql.AddError(fctx, err)
				return graphql.Null
			}
			list := make(graphql.Array, 0, len(v))
			for _, s := range v {
				if s == nil {
					continue
				}
				list = append(list, ec._Supplier(fctx, field.Selections, s))
			}
			out.add(field.Alias, list)
		case "selectShipping":
			productID, _ := args["productId"].(string)
			destinationZip, _ := args["destinationZip"].(string)
			v, err := ec.resolvers.Query().SelectShipping(fctx, productID, destinationZip)
			if err != nil {
				graphql.AddError(fctx, err)
				out.add(field.Alias, graphql.Null)
				continue
			}
			if v == nil {
				out.add(field.Alias, graphql.Null)
				continue
			}
			out.add(field.Alias, ec._ShippingSelection(fctx, field.Selections, v))
		default:
			panic("unknown field " + field.Name)
		}
	}
	return out
}

func (ec *executionContext) _Supplier(ctx context.Context, sel ast.SelectionSet, obj *model.Supplier) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, supplierImplementors)
	out := newObject(len(fields))

	for _, field := range fields {
		switch field.Name {
		case "__typename":
			out.add(field.Alias, graphql.MarshalString("Supplier"))
		case "name":
			out.add(field.Alias, graphql.MarshalString(obj.Name))
		case "originZip":
			out.add(field.Alias, graphql.MarshalString(obj.OriginZip))
		case "methods":
			list := make(graphql.Array, len(obj.Methods))
			for i := range obj.Methods {
				list[i] = ec._ShippingMethod(ctx, field.Selections, &obj.Methods[i])
			}
			out.add(field.Alias, list)
		default:
			panic("unknown field " + field.Name)
		}
	}
	return out
}

func (ec *executionContext) _ShippingMethod(ctx context.Context, sel ast.SelectionSet, obj *shipping.ShippingMethod) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, shippingMethodImplementors)
	out := newObject(len(fields))

	for _, field := range fields {
		switch field.Name {
		case "__typename":
			out.add(field.Alias, graphql.MarshalString("ShippingMethod"))
		case "id":
			out.add(field.Alias, graphql.MarshalID(obj.ID))
		case "type":
			out.add(field.Alias, graphql.MarshalString(obj.Type))
		case "courier":
			out.add(field.Alias, graphql.MarshalString(obj.Courier))
		case "priority":
			out.add(field.Alias, graphql.MarshalInt(obj.Priority))
		default:
			panic("unknown field " + field.Name)
		}
	}
	return out
}

func (ec *executionContext) _ShippingSelection(ctx context.Context, sel ast.SelectionSet, obj *shipping.SelectionResult) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, shippingSelectionImplementors)
	out := newObject(len(fields))

	for _, field := range fields {
		switch field.Name {
		case "__typename":
			out.add(field.Alias, graphql.MarshalString("ShippingSelection"))
		case "id":
			out.add(field.Alias, graphql.MarshalID(obj.ID))
		case "supplier":
			out.add(field.Alias, graphql.MarshalString(obj.Supplier))
		case "shippingType":
			out.add(field.Alias, marshalOptionalString(obj.ShippingType))
		case "shippingMethod":
			out.add(field.Alias, marshalOptionalString(obj.ShippingMethod))
		case "courier":
			out.add(field.Alias, marshalOptionalString(obj.Courier))
		case "priority":
			out.add(field.Alias, graphql.MarshalInt(obj.Priority))
		case "cost":
			out.add(field.Alias, graphql.MarshalFloat(obj.Cost))
		default:
			panic("unknown field " + field.Name)
		}
	}
	return out
}

// Empty strings are reported as null.
func marshalOptionalString(v string) graphql.Marshaler {
	if v == "" {
		return graphql.Null
	}
	return graphql.MarshalString(v)
}

// object writes its fields in selection order.
type object struct {
	keys   []string
	values []graphql.Marshaler
}

func newObject(size int) *object {
	return &object{
		keys:   make([]string, 0, size),
		values: make([]graphql.Marshaler, 0, size),
	}
}

func (o *object) add(key string, v graphql.Marshaler) {
	o.keys = append(o.keys, key)
	o.values = append(o.values, v)
}

func (o *object) MarshalGQL(w io.Writer) {
	io.WriteString(w, "{")
	for i, key := range o.keys {
		if i > 0 {
			io.WriteString(w, ",")
		}
		graphql.MarshalString(key).MarshalGQL(w)
		io.WriteString(w, ":")
		o.values[i].MarshalGQL(w)
	}
	io.WriteString(w, "}")
}
