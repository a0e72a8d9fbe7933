package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tandon-kartikeya/cleanroom-bphc/handlers"
	"github.com/tandon-kartikeya/cleanroom-bphc/middleware"
)

func FacultyRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	faculty := api.Group("/faculty", middleware.Protected(), middleware.FacultyRequired())
	faculty.Get("/bookings", handlers.GetFacultyBookings)
	faculty.Post("/bookings/:docId/approve", handlers.FacultyApprove)
	faculty.Post("/bookings/:docId/reject", handlers.FacultyReject)
}
