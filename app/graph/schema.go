// Package graph exposes a read-only GraphQL view of the catalog and
// order history.
package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/vastra/app/services"
	gql "github.com/shashiranjanraj/vastra/pkg/graphql"
)

var itemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Item",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.Int},
		"name":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.Int},
		"photo":       &graphql.Field{Type: graphql.String},
		"category":    &graphql.Field{Type: graphql.String},
	},
})

var orderDetailType = graphql.NewObject(graphql.ObjectConfig{
	Name: "OrderDetail",
	Fields: graphql.Fields{
		"itemId":    &graphql.Field{Type: graphql.Int},
		"name":      &graphql.Field{Type: graphql.String},
		"photo":     &graphql.Field{Type: graphql.String},
		"quantity":  &graphql.Field{Type: graphql.Int},
		"price":     &graphql.Field{Type: graphql.Int},
		"totalCost": &graphql.Field{Type: graphql.Int},
	},
})

var orderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Order",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.Int},
		"userId":      &graphql.Field{Type: graphql.Int},
		"status":      &graphql.Field{Type: graphql.String},
		"orderDate":   &graphql.Field{Type: graphql.DateTime},
		"orderNumber": &graphql.Field{Type: graphql.String},
		"orderDetails": &graphql.Field{
			Type: graphql.NewList(orderDetailType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				order, ok := p.Source.(services.HistoryOrder)
				if !ok {
					return nil, nil
				}
				return order.OrderDetails, nil
			},
		},
	},
})

// NewSchema builds the read-only query schema over the given services.
func NewSchema(items *services.ItemService, history *services.HistoryService) (graphql.Schema, error) {
	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQuery",
		Fields: graphql.Fields{
			"items": &graphql.Field{
				Type: graphql.NewList(itemType),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if category, ok := p.Args["category"].(string); ok && category != "" {
						return items.ByCategory(category)
					}
					all, _, err := items.List(1, 100)
					return all, err
				},
			},
			"item": &graphql.Field{
				Type: itemType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					return items.Get(uint(id))
				},
			},
			"orders": &graphql.Field{
				Type: graphql.NewList(orderType),
				Args: graphql.FieldConfigArgument{
					"userId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					userID, _ := p.Args["userId"].(int)
					return history.ForUser(uint(userID))
				},
			},
		},
	})

	return gql.NewSchema(rootQuery)
}
