package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/services"
)

type availabilityApplicationService interface {
	Create(ctx context.Context, actorUserID int64, role string, input services.AvailabilityInput) (*models.TrainerAvailability, error)
	Update(ctx context.Context, actorUserID int64, role string, slotID int64, input services.AvailabilityInput) (*models.TrainerAvailability, error)
	ListForTrainer(ctx context.Context, trainerProfileID int64) ([]models.TrainerAvailability, error)
}

type AvailabilityHandler struct {
	service availabilityApplicationService
}

func NewAvailabilityHandler(service availabilityApplicationService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

type availabilityRequest struct {
	DayOfWeek   string `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable *bool  `json:"is_available"`
}

func (h *AvailabilityHandler) Create(c *fiber.Ctx) error {
	if actorRole(c) != models.RoleTrainer {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req availabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	slot, err := h.service.Create(c.Context(), userID, actorRole(c), services.AvailabilityInput{
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		return mapAvailabilityError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"availability": slot})
}

func (h *AvailabilityHandler) Update(c *fiber.Ctx) error {
	role := actorRole(c)
	if role != models.RoleTrainer && role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	slotID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid availability id"})
	}

	var req availabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	slot, err := h.service.Update(c.Context(), userID, role, slotID, services.AvailabilityInput{
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		return mapAvailabilityError(c, err)
	}
	return c.JSON(fiber.Map{"availability": slot})
}

func (h *AvailabilityHandler) ListForTrainer(c *fiber.Ctx) error {
	trainerProfileID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid trainer id"})
	}

	slots, err := h.service.ListForTrainer(c.Context(), trainerProfileID)
	if err != nil {
		return mapAvailabilityError(c, err)
	}
	return c.JSON(fiber.Map{"availability": slots})
}

func mapAvailabilityError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "day_of_week and a valid HH:MM start_time/end_time range are required"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Slot overlaps an existing availability window"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Availability not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process availability request"})
	}
}
