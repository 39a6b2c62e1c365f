package graphql

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	apierrors "github.com/feral-file/ff-observations/internal/api/shared/errors"
)

//go:embed schema.graphqls
var schemaSource string

// Config configures the executable schema
type Config struct {
	Resolvers ResolverRoot
}

type executableSchema struct {
	schema    *ast.Schema
	resolvers ResolverRoot
}

// NewExecutableSchema loads the schema and binds it to the resolvers
func NewExecutableSchema(cfg Config) (graphql.ExecutableSchema, error) {
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphqls", Input: schemaSource})
	if err != nil {
		return nil, fmt.Errorf("failed to load GraphQL schema: %w", err)
	}

	return &executableSchema{
		schema:    schema,
		resolvers: cfg.Resolvers,
	}, nil
}

func (e *executableSchema) Schema() *ast.Schema {
	return e.schema
}

func (e *executableSchema) Complexity(ctx context.Context, typeName, field string, childComplexity int, rawArgs map[string]any) (int, bool) {
	return 0, false
}

// Exec runs the validated operation of the request
func (e *executableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	opCtx := graphql.GetOperationContext(ctx)
	if opCtx.Operation.Operation != ast.Query {
		return graphql.OneShot(graphql.ErrorResponse(ctx, "unsupported GraphQL operation: %s", opCtx.Operation.Operation))
	}

	// Fields resolve when the response is read so their errors land in it
	first := true
	return func(ctx context.Context) *graphql.Response {
		if !first {
			return nil
		}
		first = false

		fields := graphql.CollectFields(opCtx, opCtx.Operation.SelectionSet, []string{"Query"})
		data := graphql.NewFieldSet(fields)
		for i, field := range fields {
			data.Values[i] = e.queryField(ctx, opCtx, field)
		}

		var buf bytes.Buffer
		data.MarshalGQL(&buf)
		return &graphql.Response{Data: buf.Bytes()}
	}
}

// queryField resolves one root field. Failures null the field and are reported
// in the errors list; sibling fields still resolve.
func (e *executableSchema) queryField(ctx context.Context, opCtx *graphql.OperationContext, field graphql.CollectedField) (ret graphql.Marshaler) {
	args := field.ArgumentMap(opCtx.Variables)
	ctx = graphql.WithFieldContext(ctx, &graphql.FieldContext{
		Object:     "Query",
		Field:      field,
		Args:       args,
		IsMethod:   true,
		IsResolver: true,
	})
	defer func() {
		if r := recover(); r != nil {
			graphql.AddError(ctx, opCtx.Recover(ctx, r))
			ret = graphql.Null
		}
	}()

	q := e.resolvers.Query()
	switch field.Name {
	case "__typename":
		return graphql.MarshalString("Query")

	case "artifact":
		var (
			collection string
			tokenID    BigInt
		)
		if err := bindArgs(args, stringArg("collection", &collection), bigIntArg("tokenId", &tokenID)); err != nil {
			return fail(ctx, err)
		}
		res, err := q.Artifact(ctx, collection, tokenID)
		if err != nil || res == nil {
			return fail(ctx, err)
		}
		return marshalObject(opCtx, field.Selections, res)

	case "artifacts":
		var (
			where                   ArtifactFilter
			orderBy, orderDirection string
			limit, offset           *int
		)
		if err := bindArgs(args,
			artifactFilterArg("where", &where),
			stringArg("orderBy", &orderBy),
			stringArg("orderDirection", &orderDirection),
			optionalIntArg("limit", &limit),
			optionalIntArg("offset", &offset),
		); err != nil {
			return fail(ctx, err)
		}
		res, err := q.Artifacts(ctx, where, orderBy, orderDirection, limit, offset)
		if err != nil || res == nil {
			return fail(ctx, err)
		}
		return marshalObject(opCtx, field.Selections, res)

	case "observations":
		var (
			where                   *ObservationFilter
			orderBy, orderDirection string
			limit                   *int
			after                   *string
		)
		if err := bindArgs(args,
			observationFilterArg("where", &where),
			stringArg("orderBy", &orderBy),
			stringArg("orderDirection", &orderDirection),
			optionalIntArg("limit", &limit),
			optionalStringArg("after", &after),
		); err != nil {
			return fail(ctx, err)
		}
		res, err := q.Observations(ctx, where, orderBy, orderDirection, limit, after)
		if err != nil || res == nil {
			return fail(ctx, err)
		}
		return marshalObject(opCtx, field.Selections, res)

	case "tips":
		var recipient string
		if err := bindArgs(args, stringArg("recipient", &recipient)); err != nil {
			return fail(ctx, err)
		}
		res, err := q.Tips(ctx, recipient)
		if err != nil || res == nil {
			return fail(ctx, err)
		}
		return marshalObject(opCtx, field.Selections, res)

	case "collectionTips":
		var collection string
		if err := bindArgs(args, stringArg("collection", &collection)); err != nil {
			return fail(ctx, err)
		}
		res, err := q.CollectionTips(ctx, collection)
		if err != nil || res == nil {
			return fail(ctx, err)
		}
		return marshalObject(opCtx, field.Selections, res)
	}

	// Introspection fields pass validation but are not resolved
	return fail(ctx, apierrors.NewBadRequestError(fmt.Sprintf("field %s is not supported", field.Name)))
}

// fail reports err, if any, on the current field and nulls it
func fail(ctx context.Context, err error) graphql.Marshaler {
	if err != nil {
		graphql.AddError(ctx, err)
	}
	return graphql.Null
}

// argBinder decodes one coerced argument value
type argBinder func(args map[string]any) error

func bindArgs(args map[string]any, binders ...argBinder) error {
	for _, bind := range binders {
		if err := bind(args); err != nil {
			return apierrors.NewValidationError(err.Error())
		}
	}
	return nil
}

func stringArg(name string, dst *string) argBinder {
	return func(args map[string]any) error {
		v, ok := args[name]
		if !ok || v == nil {
			return nil
		}
		s, err := graphql.UnmarshalString(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = s
		return nil
	}
}

func optionalStringArg(name string, dst **string) argBinder {
	return func(args map[string]any) error {
		if v, ok := args[name]; !ok || v == nil {
			return nil
		}
		var s string
		if err := stringArg(name, &s)(args); err != nil {
			return err
		}
		*dst = &s
		return nil
	}
}

func optionalIntArg(name string, dst **int) argBinder {
	return func(args map[string]any) error {
		v, ok := args[name]
		if !ok || v == nil {
			return nil
		}
		i, err := graphql.UnmarshalInt(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = &i
		return nil
	}
}

func optionalBoolArg(name string, dst **bool) argBinder {
	return func(args map[string]any) error {
		v, ok := args[name]
		if !ok || v == nil {
			return nil
		}
		b, err := graphql.UnmarshalBoolean(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = &b
		return nil
	}
}

func bigIntArg(name string, dst *BigInt) argBinder {
	return func(args map[string]any) error {
		v, ok := args[name]
		if !ok || v == nil {
			return nil
		}
		if err := dst.UnmarshalGQL(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}

func optionalBigIntArg(name string, dst **BigInt) argBinder {
	return func(args map[string]any) error {
		if v, ok := args[name]; !ok || v == nil {
			return nil
		}
		var b BigInt
		if err := bigIntArg(name, &b)(args); err != nil {
			return err
		}
		*dst = &b
		return nil
	}
}

func inputObject(name string, args map[string]any) (map[string]any, bool, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return nil, false, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false, fmt.Errorf("%s: expected an input object, got %T", name, v)
	}
	return obj, true, nil
}

func artifactFilterArg(name string, dst *ArtifactFilter) argBinder {
	return func(args map[string]any) error {
		obj, ok, err := inputObject(name, args)
		if err != nil || !ok {
			return err
		}
		return stringArg("collection", &dst.Collection)(obj)
	}
}

func observationFilterArg(name string, dst **ObservationFilter) argBinder {
	return func(args map[string]any) error {
		obj, ok, err := inputObject(name, args)
		if err != nil || !ok {
			return err
		}

		var filter ObservationFilter
		for _, bind := range []argBinder{
			optionalStringArg("collection", &filter.Collection),
			optionalBigIntArg("tokenId", &filter.TokenID),
			optionalStringArg("observer", &filter.Observer),
			optionalBoolArg("update", &filter.Update),
			optionalBoolArg("deleted", &filter.Deleted),
		} {
			if err := bind(obj); err != nil {
				return fmt.Errorf("%s.%w", name, err)
			}
		}
		*dst = &filter
		return nil
	}
}
