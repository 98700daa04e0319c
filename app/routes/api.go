package routes

import (
	"github.com/shashiranjanraj/logitrack/app/controllers"
	appctx "github.com/shashiranjanraj/logitrack/pkg/ctx"
	"github.com/shashiranjanraj/logitrack/pkg/rbac"
	"github.com/shashiranjanraj/logitrack/pkg/router"
)

// API holds the controllers mounted under /api.
type API struct {
	Auth      *controllers.AuthController
	Inventory *controllers.InventoryController
	Orders    *controllers.OrderController
}

// RegisterAPI mounts every /api route. authenticate guards everything but
// the auth endpoints; deletes additionally require the Manager role.
func RegisterAPI(r *router.Router, api API, authenticate router.Middleware) {
	managerOnly := rbac.RequireRole(rbac.RoleManager)

	authGroup := r.Group("/api/auth")
	authGroup.Post("/register", "auth.register", appctx.Wrap(api.Auth.Register))
	authGroup.Post("/login", "auth.login", appctx.Wrap(api.Auth.Login))

	inventory := r.Group("/api/inventory", authenticate)
	inventory.Get("/", "inventory.index", appctx.Wrap(api.Inventory.Index))
	inventory.Post("/", "inventory.store", appctx.Wrap(api.Inventory.Store))
	inventory.Delete("/{id:[0-9]+}", "inventory.destroy", appctx.Wrap(api.Inventory.Destroy), managerOnly)

	orders := r.Group("/api/orders", authenticate)
	orders.Get("/", "orders.index", appctx.Wrap(api.Orders.Index))
	orders.Get("/{id:[0-9]+}", "orders.show", appctx.Wrap(api.Orders.Show))
	orders.Post("/", "orders.store", appctx.Wrap(api.Orders.Store))
	orders.Delete("/{id:[0-9]+}", "orders.destroy", appctx.Wrap(api.Orders.Destroy), managerOnly)
}
