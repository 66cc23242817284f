package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/yeny-crm/internal/config"
	"github.com/example/yeny-crm/internal/handlers"
	"github.com/example/yeny-crm/internal/middleware"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(db)
	adminHandler := handlers.NewAdminHandler(db)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/auth/me", authHandler.Me)

	pedidos := protected.Group("/pedidos")
	pedidos.Post("/", orderHandler.CreateOrder)
	pedidos.Get("/", orderHandler.ListOrders)
	pedidos.Get("/recientes", orderHandler.ListRecentOrders)
	pedidos.Get("/:id", orderHandler.GetOrder)
	pedidos.Patch("/:id/estado", orderHandler.UpdateOrderStatus)
	pedidos.Put("/:id", orderHandler.ReplaceOrder)

	usuarios := protected.Group("/usuarios")
	usuarios.Get("/", adminHandler.ListUsers)
	usuarios.Post("/", adminHandler.CreateUser)
	usuarios.Delete("/:id", adminHandler.DeleteUser)
	usuarios.Patch("/:id/estado", adminHandler.ToggleUserActive)
}
