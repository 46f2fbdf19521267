package controllers

import (
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/vastra/pkg/bind"
	gql "github.com/shashiranjanraj/vastra/pkg/graphql"
	"github.com/shashiranjanraj/vastra/pkg/response"
)

// GraphQLController serves the read-only query endpoint.
type GraphQLController struct {
	schema graphql.Schema
}

func NewGraphQLController(schema graphql.Schema) *GraphQLController {
	return &GraphQLController{schema: schema}
}

// Query executes one GraphQL query.
func (c *GraphQLController) Query(w http.ResponseWriter, r *http.Request) {
	var body gql.Request
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	response.Success(w, gql.Execute(r.Context(), c.schema, body))
}
