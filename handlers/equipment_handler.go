package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tandon-kartikeya/cleanroom-bphc/database"
	"github.com/tandon-kartikeya/cleanroom-bphc/models"
)

type EquipmentRequest struct {
	Code  string `json:"code" validate:"required"`
	Label string `json:"label" validate:"required"`
}

// ListEquipment feeds the booking form's equipment picker.
func ListEquipment(c *fiber.Ctx) error {
	var items []models.Equipment
	if err := database.DB.Where("is_active = ?", true).Order("code").Find(&items).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(items)
}

func CreateEquipment(c *fiber.Ctx) error {
	var req EquipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	item := models.Equipment{Code: req.Code, Label: req.Label, IsActive: true}
	if err := database.DB.Create(&item).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Equipment code already exists"})
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func UpdateEquipment(c *fiber.Ctx) error {
	var item models.Equipment
	if err := database.DB.Where("id = ?", c.Params("equipmentId")).First(&item).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Equipment not found"})
	}

	var req EquipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	item.Code = req.Code
	item.Label = req.Label
	if err := database.DB.Save(&item).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update equipment"})
	}
	return c.JSON(item)
}

func DeactivateEquipment(c *fiber.Ctx) error {
	var item models.Equipment
	if err := database.DB.Where("id = ?", c.Params("equipmentId")).First(&item).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Equipment not found"})
	}

	item.IsActive = false
	if err := database.DB.Save(&item).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate equipment"})
	}
	return c.JSON(fiber.Map{"message": "Equipment deactivated"})
}
