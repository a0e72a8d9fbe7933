package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tandon-kartikeya/cleanroom-bphc/middleware"
	"github.com/tandon-kartikeya/cleanroom-bphc/models"
	"github.com/tandon-kartikeya/cleanroom-bphc/notifications"
	"github.com/tandon-kartikeya/cleanroom-bphc/services"
	ws "github.com/tandon-kartikeya/cleanroom-bphc/websocket"
)

type AdminApproveRequest struct {
	Notes           string           `json:"notes"`
	ActualDate      string           `json:"actualDate" validate:"required"`
	ActualTimeRange models.TimeRange `json:"actualTimeRange"`
}

type AdminRejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type AdminOverrideRequest struct {
	Decision        string            `json:"decision" validate:"required,oneof=approved rejected"`
	Feedback        string            `json:"feedback" validate:"required"`
	ActualDate      string            `json:"actualDate"`
	ActualTimeRange *models.TimeRange `json:"actualTimeRange"`
}

func AdminGetAllBookings(c *fiber.Ctx) error {
	records, err := services.Bookings.ListAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load bookings"})
	}
	return c.JSON(records)
}

// AdminApprove gives the final sign-off and allocates the actual schedule.
// The date and both ends of the time range are required up front.
func AdminApprove(c *fiber.Ctx) error {
	docID, err := parseDocID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var req AdminApproveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	schedule := &services.Schedule{
		ActualDate: req.ActualDate,
		TimeRange:  req.ActualTimeRange,
	}

	record, err := services.Bookings.UpdateStatus(
		docID,
		services.DecisionApproved,
		req.Notes,
		middleware.ClaimString(c, "name"),
		models.RoleAdmin,
		schedule,
	)
	if err != nil {
		return decisionError(c, err)
	}

	notifications.NotifyDecision(&record.Booking, models.RoleAdmin)
	ws.NotifyStatusChange(record)
	return c.JSON(record)
}

func AdminReject(c *fiber.Ctx) error {
	docID, err := parseDocID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var req AdminRejectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	record, err := services.Bookings.UpdateStatus(
		docID,
		services.DecisionRejected,
		req.Reason,
		middleware.ClaimString(c, "name"),
		models.RoleAdmin,
		nil,
	)
	if err != nil {
		return decisionError(c, err)
	}

	notifications.NotifyDecision(&record.Booking, models.RoleAdmin)
	ws.NotifyStatusChange(record)
	return c.JSON(record)
}

// AdminOverride forces a terminal status from any state, overriding the
// faculty vote. It goes through the direct path: outbox first, durable
// write best-effort, never a visible permission failure.
func AdminOverride(c *fiber.Ctx) error {
	docID, err := parseDocID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var req AdminOverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var schedule *services.Schedule
	if req.Decision == services.DecisionApproved {
		schedule = &services.Schedule{ActualDate: req.ActualDate}
		if req.ActualTimeRange != nil {
			schedule.TimeRange = *req.ActualTimeRange
		}
	}

	record, err := services.Bookings.DirectUpdate(
		docID,
		req.Decision,
		req.Feedback,
		middleware.ClaimString(c, "name"),
		schedule,
	)
	if err != nil {
		return decisionError(c, err)
	}

	notifications.NotifyDecision(&record.Booking, models.RoleAdmin)
	ws.NotifyStatusChange(record)
	return c.JSON(record)
}

// AdminDeleteAllBookings is the bulk clear behind the maintenance action.
func AdminDeleteAllBookings(c *fiber.Ctx) error {
	deleted, err := services.Bookings.DeleteAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete bookings"})
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

// AdminGetOutbox exposes records still waiting for reconciliation, so the
// deferred-durability trade-off is visible instead of silent.
func AdminGetOutbox(c *fiber.Ctx) error {
	outbox := services.Bookings.Outbox()
	return c.JSON(fiber.Map{
		"pending": outbox.Pending(),
		"count":   outbox.Len(),
	})
}
