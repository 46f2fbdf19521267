// Package graphql wraps graphql-go with the small pieces the API needs:
// schema construction and request execution.
package graphql

import (
	"context"

	"github.com/graphql-go/graphql"
)

// NewSchema builds a query-only schema from the root query object.
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}

// Request is the standard GraphQL POST payload.
type Request struct {
	Query         string                 `json:"query" validate:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Execute runs req against schema. Resolver errors end up in the result's
// Errors field, not in an error return, per the GraphQL spec.
func Execute(ctx context.Context, schema graphql.Schema, req Request) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        ctx,
	})
}
