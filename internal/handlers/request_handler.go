package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/services"
)

type requestApplicationService interface {
	Create(ctx context.Context, requesterID int64, input services.CreateRequestInput) (*models.TrainerRequest, error)
	ListIncoming(ctx context.Context, actorUserID int64, offset, limit int) ([]models.TrainerRequest, int, error)
	ListMine(ctx context.Context, requesterID int64, offset, limit int) ([]models.TrainerRequest, int, error)
	Get(ctx context.Context, actorUserID int64, role string, requestID int64) (*models.TrainerRequest, error)
	Accept(ctx context.Context, actorUserID int64, requestID int64) (*models.TrainerRequest, error)
	Decline(ctx context.Context, actorUserID int64, requestID int64) (*models.TrainerRequest, error)
	Cancel(ctx context.Context, actorUserID int64, requestID int64) (*models.TrainerRequest, error)
}

type RequestHandler struct {
	service requestApplicationService
}

func NewRequestHandler(service requestApplicationService) *RequestHandler {
	return &RequestHandler{service: service}
}

type createTrainerRequestRequest struct {
	MembershipID    int64                  `json:"membership_id" validate:"gt=0"`
	ServiceID       int64                  `json:"service_id" validate:"gt=0"`
	RequestType     string                 `json:"request_type" validate:"required,oneof=open_request specific_trainer"`
	TargetTrainerID *int64                 `json:"target_trainer_id"`
	ClubID          *int64                 `json:"club_id"`
	PreferredSlots  []models.PreferredSlot `json:"preferred_slots"`
	Message         *string                `json:"message"`
}

func (h *RequestHandler) Create(c *fiber.Ctx) error {
	if actorRole(c) != models.RoleMember {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createTrainerRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	request, err := h.service.Create(c.Context(), userID, services.CreateRequestInput{
		MembershipID:    req.MembershipID,
		ServiceID:       req.ServiceID,
		RequestType:     req.RequestType,
		TargetTrainerID: req.TargetTrainerID,
		ClubID:          req.ClubID,
		PreferredSlots:  req.PreferredSlots,
		Message:         req.Message,
	})
	if err != nil {
		return mapRequestError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"request": request})
}

func (h *RequestHandler) ListIncoming(c *fiber.Ctx) error {
	if actorRole(c) != models.RoleTrainer {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	page, limit, offset := parsePage(c)
	requests, total, err := h.service.ListIncoming(c.Context(), userID, offset, limit)
	if err != nil {
		return mapRequestError(c, err)
	}

	return c.JSON(fiber.Map{
		"requests":   requests,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *RequestHandler) ListMine(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	page, limit, offset := parsePage(c)
	requests, total, err := h.service.ListMine(c.Context(), userID, offset, limit)
	if err != nil {
		return mapRequestError(c, err)
	}

	return c.JSON(fiber.Map{
		"requests":   requests,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *RequestHandler) Get(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request id"})
	}

	request, err := h.service.Get(c.Context(), userID, actorRole(c), requestID)
	if err != nil {
		return mapRequestError(c, err)
	}
	return c.JSON(fiber.Map{"request": request})
}

func (h *RequestHandler) Accept(c *fiber.Ctx) error {
	if actorRole(c) != models.RoleTrainer {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request id"})
	}

	request, err := h.service.Accept(c.Context(), userID, requestID)
	if err != nil {
		return mapRequestError(c, err)
	}
	return c.JSON(fiber.Map{"request": request})
}

func (h *RequestHandler) Decline(c *fiber.Ctx) error {
	if actorRole(c) != models.RoleTrainer {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request id"})
	}

	request, err := h.service.Decline(c.Context(), userID, requestID)
	if err != nil {
		return mapRequestError(c, err)
	}
	return c.JSON(fiber.Map{"request": request})
}

func (h *RequestHandler) Cancel(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request id"})
	}

	request, err := h.service.Cancel(c.Context(), userID, requestID)
	if err != nil {
		return mapRequestError(c, err)
	}
	return c.JSON(fiber.Map{"request": request})
}

func mapRequestError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrRequestUnavailable):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Request is no longer available"})
	case errors.Is(err, services.ErrTrainerMismatch):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Trainer does not serve this sport and tier"})
	case errors.Is(err, services.ErrMembershipInactive):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Membership is not active"})
	case errors.Is(err, services.ErrTrainerNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trainer not found"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process trainer request"})
	}
}
