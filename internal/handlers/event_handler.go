package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/repository"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/services"
)

type EventHandler struct {
	service *services.EventService
}

func NewEventHandler(service *services.EventService) *EventHandler {
	return &EventHandler{service: service}
}

type createEventRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	StartsAt    string  `json:"starts_at" validate:"required"`
	Capacity    int     `json:"capacity" validate:"gt=0"`
}

func (h *EventHandler) ListByClub(c *fiber.Ctx) error {
	clubID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid club id"})
	}

	events, err := h.service.ListByClub(c.Context(), clubID)
	if err != nil {
		return mapEventError(c, err)
	}
	return c.JSON(fiber.Map{"events": events})
}

func (h *EventHandler) Create(c *fiber.Ctx) error {
	if actorRole(c) != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	clubID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid club id"})
	}

	var req createEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	startsAt, err := time.Parse(time.RFC3339, strings.TrimSpace(req.StartsAt))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "starts_at must be a valid RFC3339 timestamp"})
	}

	event, err := h.service.Create(c.Context(), repository.CreateEventInput{
		ClubID:      clubID,
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    startsAt.UTC(),
		Capacity:    req.Capacity,
	})
	if err != nil {
		return mapEventError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"event": event})
}

func (h *EventHandler) Register(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid event id"})
	}

	registration, err := h.service.Register(c.Context(), eventID, userID)
	if err != nil {
		return mapEventError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"registration": registration})
}

func mapEventError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrEventFull):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Event is full"})
	case errors.Is(err, services.ErrAlreadyRegistered):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Already registered for this event"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process event request"})
	}
}
