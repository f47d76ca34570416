package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/services"
)

type sessionApplicationService interface {
	Book(ctx context.Context, actorUserID int64, role string, input services.BookSessionInput) (*models.SessionDetail, error)
	CheckAvailability(ctx context.Context, trainerProfileID int64, requestedTime time.Time, durationMinutes int) (bool, error)
	List(ctx context.Context, actorUserID int64, role string, input services.SessionListInput) ([]models.SessionDetail, error)
	Get(ctx context.Context, actorUserID int64, role string, sessionID int64) (*models.SessionDetail, error)
	UpdateStatus(ctx context.Context, actorUserID int64, role string, sessionID int64, requestedStatus string) (*models.SessionDetail, error)
	Cancel(ctx context.Context, actorUserID int64, role string, sessionID int64, reason string) (*models.SessionDetail, error)
	Update(ctx context.Context, actorUserID int64, role string, sessionID int64, input services.UpdateSessionInput) (*models.SessionDetail, error)
	Rate(ctx context.Context, actorUserID int64, sessionID int64, rating int, feedback *string) (*models.SessionDetail, error)
	Pay(ctx context.Context, actorUserID int64, role string, sessionID int64) (*models.SessionDetail, error)
}

type SessionHandler struct {
	service sessionApplicationService
}

func NewSessionHandler(service sessionApplicationService) *SessionHandler {
	return &SessionHandler{service: service}
}

type bookSessionRequest struct {
	TrainerProfileID int64   `json:"trainer_profile_id" validate:"gt=0"`
	MembershipID     int64   `json:"membership_id" validate:"gt=0"`
	TraineeUserID    *int64  `json:"trainee_user_id"`
	ScheduledAt      string  `json:"scheduled_at" validate:"required"`
	DurationMinutes  int     `json:"duration_minutes" validate:"gt=0"`
	Location         *string `json:"location"`
	Notes            *string `json:"notes"`
}

type updateSessionStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type cancelSessionRequest struct {
	Reason string `json:"reason"`
}

type updateSessionRequest struct {
	ScheduledAt     *string  `json:"scheduled_at"`
	DurationMinutes *int     `json:"duration_minutes"`
	FeeAmount       *float64 `json:"fee_amount"`
	Location        *string  `json:"location"`
	Notes           *string  `json:"notes"`
	TrainerNotes    *string  `json:"trainer_notes"`
}

type rateSessionRequest struct {
	Rating   int     `json:"rating" validate:"min=1,max=5"`
	Feedback *string `json:"feedback"`
}

func (h *SessionHandler) Book(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req bookSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	scheduledAt, err := time.Parse(time.RFC3339, strings.TrimSpace(req.ScheduledAt))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "scheduled_at must be a valid RFC3339 timestamp"})
	}

	detail, err := h.service.Book(c.Context(), userID, actorRole(c), services.BookSessionInput{
		TrainerProfileID: req.TrainerProfileID,
		MembershipID:     req.MembershipID,
		TraineeID:        req.TraineeUserID,
		ScheduledAt:      scheduledAt,
		DurationMinutes:  req.DurationMinutes,
		Location:         req.Location,
		Notes:            req.Notes,
	})
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"session": detail})
}

func (h *SessionHandler) CheckAvailability(c *fiber.Ctx) error {
	trainerProfileID, err := strconv.ParseInt(c.Query("trainer_id"), 10, 64)
	if err != nil || trainerProfileID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "trainer_id must be a positive integer"})
	}

	requestedTime, err := time.Parse(time.RFC3339, strings.TrimSpace(c.Query("time")))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "time must be a valid RFC3339 timestamp"})
	}

	durationMinutes := parsePositiveInt(c.Query("duration_minutes"), 60)

	available, err := h.service.CheckAvailability(c.Context(), trainerProfileID, requestedTime, durationMinutes)
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.JSON(fiber.Map{"available": available})
}

func (h *SessionHandler) List(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	timeframe := strings.TrimSpace(c.Query("timeframe"))
	if timeframe != "" && timeframe != "upcoming" && timeframe != "past" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "timeframe must be upcoming or past"})
	}

	sessions, err := h.service.List(c.Context(), userID, actorRole(c), services.SessionListInput{
		Status:    strings.TrimSpace(c.Query("status")),
		Timeframe: timeframe,
	})
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.JSON(fiber.Map{"sessions": sessions})
}

func (h *SessionHandler) Get(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	session, err := h.service.Get(c.Context(), userID, actorRole(c), sessionID)
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.JSON(fiber.Map{"session": session})
}

func (h *SessionHandler) UpdateStatus(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var req updateSessionStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	session, err := h.service.UpdateStatus(c.Context(), userID, actorRole(c), sessionID, req.Status)
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.JSON(fiber.Map{"session": session})
}

func (h *SessionHandler) Cancel(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var req cancelSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	session, err := h.service.Cancel(c.Context(), userID, actorRole(c), sessionID, req.Reason)
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.JSON(fiber.Map{"session": session})
}

func (h *SessionHandler) Update(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var req updateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	input := services.UpdateSessionInput{
		DurationMinutes: req.DurationMinutes,
		FeeAmount:       req.FeeAmount,
		Location:        req.Location,
		Notes:           req.Notes,
		TrainerNotes:    req.TrainerNotes,
	}
	if req.ScheduledAt != nil {
		scheduledAt, err := time.Parse(time.RFC3339, strings.TrimSpace(*req.ScheduledAt))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "scheduled_at must be a valid RFC3339 timestamp"})
		}
		input.ScheduledAt = &scheduledAt
	}

	session, err := h.service.Update(c.Context(), userID, actorRole(c), sessionID, input)
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.JSON(fiber.Map{"session": session})
}

func (h *SessionHandler) Rate(c *fiber.Ctx) error {
	if actorRole(c) != models.RoleMember {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var req rateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	session, err := h.service.Rate(c.Context(), userID, sessionID, req.Rating, req.Feedback)
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.JSON(fiber.Map{"session": session})
}

func (h *SessionHandler) Pay(c *fiber.Ctx) error {
	if actorRole(c) != models.RoleMember {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	session, err := h.service.Pay(c.Context(), userID, actorRole(c), sessionID)
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.JSON(fiber.Map{"session": session})
}

func mapSessionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Requested time conflicts with another session"})
	case errors.Is(err, services.ErrInvalidStateTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrMembershipInactive):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Membership is not active"})
	case errors.Is(err, services.ErrTrainerMismatch):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Trainer does not serve this sport and tier"})
	case errors.Is(err, services.ErrTrainerNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trainer not found"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process session request"})
	}
}
