package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tandon-kartikeya/cleanroom-bphc/handlers"
)

func PublicRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/equipment", handlers.ListEquipment)
	api.Get("/faculty-directory", handlers.ListFacultyDirectory)
}
