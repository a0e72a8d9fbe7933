package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tandon-kartikeya/cleanroom-bphc/database"
	"github.com/tandon-kartikeya/cleanroom-bphc/middleware"
	"github.com/tandon-kartikeya/cleanroom-bphc/models"
	"github.com/tandon-kartikeya/cleanroom-bphc/notifications"
	"github.com/tandon-kartikeya/cleanroom-bphc/services"
	ws "github.com/tandon-kartikeya/cleanroom-bphc/websocket"
)

// ListFacultyDirectory feeds the reviewer picker on the booking form.
func ListFacultyDirectory(c *fiber.Ctx) error {
	var faculty []models.User
	err := database.DB.
		Select("id", "full_name", "email", "faculty_id").
		Where("role = ? AND is_active = ?", models.RoleFaculty, true).
		Order("full_name").
		Find(&faculty).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(faculty)
}

type FacultyApproveRequest struct {
	Feedback string `json:"feedback"`
}

type FacultyRejectRequest struct {
	Feedback string `json:"feedback" validate:"required"`
}

// GetFacultyBookings lists requests assigned to the caller, matched by
// reviewer id or email.
func GetFacultyBookings(c *fiber.Ctx) error {
	facultyID := middleware.ClaimString(c, "faculty_id")
	email := middleware.ClaimString(c, "email")

	records, err := services.Bookings.ListByFaculty(facultyID, email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load bookings"})
	}
	return c.JSON(records)
}

// FacultyApprove moves a pending_faculty booking on to admin review.
func FacultyApprove(c *fiber.Ctx) error {
	docID, err := parseDocID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var req FacultyApproveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	record, err := services.Bookings.UpdateStatus(
		docID,
		services.DecisionApproved,
		req.Feedback,
		middleware.ClaimString(c, "name"),
		models.RoleFaculty,
		nil,
	)
	if err != nil {
		return decisionError(c, err)
	}

	notifications.NotifyDecision(&record.Booking, models.RoleFaculty)
	ws.NotifyStatusChange(record)
	return c.JSON(record)
}

// FacultyReject turns a pending_faculty booking down. The reason is
// mandatory and is checked before anything touches the store.
func FacultyReject(c *fiber.Ctx) error {
	docID, err := parseDocID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var req FacultyRejectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	record, err := services.Bookings.UpdateStatus(
		docID,
		services.DecisionRejected,
		req.Feedback,
		middleware.ClaimString(c, "name"),
		models.RoleFaculty,
		nil,
	)
	if err != nil {
		return decisionError(c, err)
	}

	notifications.NotifyDecision(&record.Booking, models.RoleFaculty)
	ws.NotifyStatusChange(record)
	return c.JSON(record)
}
