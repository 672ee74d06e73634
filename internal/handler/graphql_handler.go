package handler

import (
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/labstack/echo/v4"
)

// GraphQLRequest is the standard GraphQL-over-HTTP request body.
type GraphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// GraphQLHandler executes GraphQL operations against the schema. The route
// sits behind the optional auth gate; resolvers read the identity from the
// request context and enforce authentication per operation.
type GraphQLHandler struct {
	schema graphql.Schema
}

// NewGraphQLHandler creates a new GraphQL handler.
func NewGraphQLHandler(schema graphql.Schema) *GraphQLHandler {
	return &GraphQLHandler{schema: schema}
}

// Query godoc
// @Summary Execute a GraphQL operation
// @Tags graphql
// @Accept json
// @Produce json
// @Param request body GraphQLRequest true "GraphQL request"
// @Success 200 {object} map[string]interface{}
// @Router /graphql [post]
func (h *GraphQLHandler) Query(c echo.Context) error {
	var req GraphQLRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.Request().Context(),
	})

	return c.JSON(http.StatusOK, result)
}
