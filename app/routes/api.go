// Package routes wires the HTTP surface onto the router.
package routes

import (
	"time"

	"github.com/shashiranjanraj/vastra/app/controllers"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
	"github.com/shashiranjanraj/vastra/pkg/middleware"
	"github.com/shashiranjanraj/vastra/pkg/rbac"
	"github.com/shashiranjanraj/vastra/pkg/reqid"
	"github.com/shashiranjanraj/vastra/pkg/router"
	"github.com/shashiranjanraj/vastra/pkg/ws"
)

// Controllers bundles everything RegisterAPI mounts.
type Controllers struct {
	Auth    *controllers.AuthController
	Cart    *controllers.CartController
	Order   *controllers.OrderController
	Item    *controllers.ItemController
	GraphQL *controllers.GraphQLController
	OrderWS *ws.Hub
}

// RegisterAPI mounts the whole HTTP surface: global middleware, public
// auth and catalog reads, JWT-protected cart/order routes, admin catalog
// writes, metrics, the order feed and GraphQL.
func RegisterAPI(r *router.Router, c Controllers) {
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(300, time.Minute))

	r.Get("/metrics", "metrics", metrics.Handler())

	api := r.Group("/api")

	// Accounts.
	api.Post("/register", "auth.register", c.Auth.Register)
	api.Post("/login", "auth.login", c.Auth.Login)

	// Catalog reads are public.
	api.Get("/items", "items.index", c.Item.Index)
	api.Get("/items/{id}", "items.show", c.Item.Show)

	// Cart and orders need a valid token.
	authed := api.Group("", middleware.Auth)
	authed.Post("/cart", "cart.add", c.Cart.Add)
	authed.Get("/cart/{userId}", "cart.list", c.Cart.List)
	authed.Put("/cart/{userId}/{itemId}", "cart.update", c.Cart.Update)
	authed.Delete("/cart/{userId}/{itemId}", "cart.remove", c.Cart.Remove)
	authed.Post("/orders", "orders.place", c.Order.Place)
	authed.Get("/orders/{userId}", "orders.history", c.Order.History)

	// Catalog writes are admin only.
	admin := api.Group("", middleware.Auth, rbac.HasRole("admin"))
	admin.Post("/items", "items.create", c.Item.Create)
	admin.Put("/items/{id}", "items.update", c.Item.Update)
	admin.Delete("/items/{id}", "items.delete", c.Item.Delete)
	admin.Post("/items/{id}/photo", "items.photo", c.Item.UploadPhoto)

	if c.GraphQL != nil {
		api.Post("/graphql", "graphql", c.GraphQL.Query)
	}

	if c.OrderWS != nil {
		r.Get("/ws/orders", "ws.orders", c.OrderWS.Serve)
	}
}
