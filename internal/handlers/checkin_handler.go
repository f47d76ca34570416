package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/services"
)

type CheckInHandler struct {
	service *services.CheckInService
}

func NewCheckInHandler(service *services.CheckInService) *CheckInHandler {
	return &CheckInHandler{service: service}
}

type checkInRequest struct {
	ClubID       int64 `json:"club_id" validate:"gt=0"`
	MembershipID int64 `json:"membership_id" validate:"gt=0"`
}

func (h *CheckInHandler) CheckIn(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req checkInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	checkIn, err := h.service.CheckIn(c.Context(), userID, req.ClubID, req.MembershipID)
	if err != nil {
		return mapCheckInError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"check_in": checkIn})
}

func (h *CheckInHandler) History(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	page, limit, offset := parsePage(c)
	checkIns, total, err := h.service.History(c.Context(), userID, offset, limit)
	if err != nil {
		return mapCheckInError(c, err)
	}

	return c.JSON(fiber.Map{
		"check_ins":  checkIns,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func mapCheckInError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrMembershipInactive):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Membership is not active"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process check-in request"})
	}
}
