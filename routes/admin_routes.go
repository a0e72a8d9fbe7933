package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tandon-kartikeya/cleanroom-bphc/handlers"
	"github.com/tandon-kartikeya/cleanroom-bphc/middleware"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/bookings", handlers.AdminGetAllBookings)
	admin.Post("/bookings/:docId/approve", handlers.AdminApprove)
	admin.Post("/bookings/:docId/reject", handlers.AdminReject)
	admin.Post("/bookings/:docId/override", handlers.AdminOverride)
	admin.Delete("/bookings", handlers.AdminDeleteAllBookings)

	admin.Get("/outbox", handlers.AdminGetOutbox)

	equipment := admin.Group("/equipment")
	equipment.Post("", handlers.CreateEquipment)
	equipment.Put("/:equipmentId", handlers.UpdateEquipment)
	equipment.Delete("/:equipmentId", handlers.DeactivateEquipment)
}
