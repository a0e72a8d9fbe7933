package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tandon-kartikeya/cleanroom-bphc/database"
	"github.com/tandon-kartikeya/cleanroom-bphc/middleware"
	"github.com/tandon-kartikeya/cleanroom-bphc/notifications"
	"github.com/tandon-kartikeya/cleanroom-bphc/services"
)

// CreateBooking takes the multi-step form payload and files a new request.
// The owner email always comes from the verified token, not the payload.
func CreateBooking(c *fiber.Ctx) error {
	var draft services.BookingDraft
	if err := c.BodyParser(&draft); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	draft.Email = middleware.ClaimString(c, "email")
	if err := validate.Struct(&draft); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	record, err := services.Bookings.Create(&draft)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create booking"})
	}

	if record.FacultyEmail != "" {
		go notifications.SendEmail("", record.FacultyEmail,
			"New Cleanroom Booking Request",
			"<h1>New Booking Request</h1><p>A student has requested cleanroom equipment and selected you as the reviewing faculty. Reference: <b>"+record.ID+"</b>.</p>")
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

// GetMyBookings lists the caller's own requests, newest first.
func GetMyBookings(c *fiber.Ctx) error {
	email := middleware.ClaimString(c, "email")
	if email == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing email claim"})
	}

	records, err := services.Bookings.ListByStudent(email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load bookings"})
	}
	return c.JSON(records)
}

// parseDocID resolves the :docId route parameter. Mutations always key on
// the store-assigned document id, never on the REQ-#### reference code.
func parseDocID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("docId"))
}

// decisionError maps service failures onto HTTP statuses.
func decisionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, database.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	case errors.Is(err, database.ErrVersionConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Booking was modified by someone else, please retry"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update booking"})
	}
}
