package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tandon-kartikeya/cleanroom-bphc/handlers"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/session", handlers.CreateSession)
	auth.Post("/admin/login", handlers.AdminLogin)
}
