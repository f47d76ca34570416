package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/services"
)

type membershipApplicationService interface {
	Purchase(ctx context.Context, userID int64, input services.PurchaseMembershipInput) (*services.MembershipDetail, error)
	ListMine(ctx context.Context, userID int64) ([]models.Membership, error)
	Get(ctx context.Context, actorUserID int64, role string, membershipID int64) (*models.Membership, error)
	Cancel(ctx context.Context, actorUserID int64, role string, membershipID int64) (*models.Membership, error)
}

type MembershipHandler struct {
	service membershipApplicationService
}

func NewMembershipHandler(service membershipApplicationService) *MembershipHandler {
	return &MembershipHandler{service: service}
}

type purchaseMembershipRequest struct {
	SportID int64  `json:"sport_id" validate:"gt=0"`
	TierID  int64  `json:"tier_id" validate:"gt=0"`
	ClubID  *int64 `json:"club_id"`
}

func (h *MembershipHandler) Purchase(c *fiber.Ctx) error {
	if actorRole(c) != models.RoleMember {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req purchaseMembershipRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	detail, err := h.service.Purchase(c.Context(), userID, services.PurchaseMembershipInput{
		SportID: req.SportID,
		TierID:  req.TierID,
		ClubID:  req.ClubID,
	})
	if err != nil {
		return mapMembershipError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"membership": detail})
}

func (h *MembershipHandler) ListMine(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	memberships, err := h.service.ListMine(c.Context(), userID)
	if err != nil {
		return mapMembershipError(c, err)
	}
	return c.JSON(fiber.Map{"memberships": memberships})
}

func (h *MembershipHandler) Get(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	membershipID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid membership id"})
	}

	membership, err := h.service.Get(c.Context(), userID, actorRole(c), membershipID)
	if err != nil {
		return mapMembershipError(c, err)
	}
	return c.JSON(fiber.Map{"membership": membership})
}

func (h *MembershipHandler) Cancel(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	membershipID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid membership id"})
	}

	membership, err := h.service.Cancel(c.Context(), userID, actorRole(c), membershipID)
	if err != nil {
		return mapMembershipError(c, err)
	}
	return c.JSON(fiber.Map{"membership": membership})
}

func mapMembershipError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrInvalidStateTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Membership not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process membership request"})
	}
}
