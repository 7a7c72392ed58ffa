package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deliverlabs/food-ordering-service/internal/api/http/handlers"
	"github.com/deliverlabs/food-ordering-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Orders         *handlers.OrdersHandler
	Menu           *handlers.MenuHandler
	Delivery       *handlers.DeliveryHandler
	Analytics      *handlers.AnalyticsHandler
	Realtime       *handlers.RealtimeHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP and websocket routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	authenticated := cfg.AuthMiddleware.Handle

	api.Get("/metrics", authenticated, auth.RequireAction(auth.ActionViewAnalytics), cfg.Health.Metrics)

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", authenticated, auth.RequireAnyRole(), cfg.Auth.Me)

	users := api.Group("/users", authenticated, auth.RequireAction(auth.ActionManageUsers))
	users.Post("/", cfg.Users.Create)
	users.Get("/", cfg.Users.List)
	users.Put("/:id/role", cfg.Users.UpdateRole)

	orders := api.Group("/orders")
	orders.Post("/", cfg.Orders.Create)
	orders.Get("/", authenticated, auth.RequireAction(auth.ActionViewOrders), cfg.Orders.List)
	orders.Get("/status/:status", authenticated, auth.RequireAction(auth.ActionViewOrders), cfg.Orders.ListByStatus)
	orders.Get("/:id", cfg.Orders.Get)
	orders.Put("/:id/status", authenticated, auth.RequireAction(auth.ActionUpdateOrderStatus), cfg.Orders.UpdateStatus)

	menu := api.Group("/menu")
	manageMenu := auth.RequireAction(auth.ActionManageMenu)
	menu.Get("/", cfg.Menu.List)
	menu.Get("/category/:category", cfg.Menu.ListByCategory)
	menu.Get("/:id", cfg.Menu.Get)
	menu.Post("/", authenticated, manageMenu, cfg.Menu.Create)
	menu.Put("/:id", authenticated, manageMenu, cfg.Menu.Update)
	menu.Delete("/:id", authenticated, manageMenu, cfg.Menu.Delete)

	delivery := api.Group("/delivery-persons", authenticated)
	delivery.Post("/", auth.RequireAction(auth.ActionManageDeliveryPersons), cfg.Delivery.Create)
	delivery.Get("/", auth.RequireAction(auth.ActionViewOrders), cfg.Delivery.List)
	delivery.Get("/available", auth.RequireAction(auth.ActionViewOrders), cfg.Delivery.ListAvailable)

	api.Get("/analytics/today", authenticated, auth.RequireAction(auth.ActionViewAnalytics), cfg.Analytics.Today)

	ws := app.Group("/ws", cfg.Realtime.RequireUpgrade)
	wsAuth := cfg.AuthMiddleware.HandleQueryToken
	ws.Get("/admin", wsAuth, auth.RequireAction(auth.ActionViewOrders), cfg.Realtime.Staff())
	ws.Get("/delivery/:person_id", wsAuth, auth.RequireAction(auth.ActionViewOrders), cfg.Realtime.Delivery())
	ws.Get("/client/:order_id", cfg.Realtime.RequireOrder, cfg.Realtime.Customer())
}
