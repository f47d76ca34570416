package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/repository"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/services"
)

type TrainerHandler struct {
	trainerService    *services.TrainerProfileService
	membershipService *services.MembershipService
}

func NewTrainerHandler(
	trainerService *services.TrainerProfileService,
	membershipService *services.MembershipService,
) *TrainerHandler {
	return &TrainerHandler{
		trainerService:    trainerService,
		membershipService: membershipService,
	}
}

type trainerProfileRequest struct {
	SportID     *int64   `json:"sport_id"`
	TierID      *int64   `json:"tier_id"`
	Bio         *string  `json:"bio"`
	HourlyRate  *float64 `json:"hourly_rate"`
	IsAvailable *bool    `json:"is_available"`
}

type verifyTrainerRequest struct {
	Verified bool `json:"verified"`
}

func (h *TrainerHandler) CreateProfile(c *fiber.Ctx) error {
	if actorRole(c) != models.RoleTrainer {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req trainerProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	profile, err := h.trainerService.Create(c.Context(), userID, services.TrainerProfileInput{
		SportID:    req.SportID,
		TierID:     req.TierID,
		Bio:        req.Bio,
		HourlyRate: req.HourlyRate,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Trainer profile already exists"})
		}
		return mapTrainerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"trainer": profile})
}

func (h *TrainerHandler) GetOwnProfile(c *fiber.Ctx) error {
	if actorRole(c) != models.RoleTrainer {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	profile, err := h.trainerService.GetOwn(c.Context(), userID)
	if err != nil {
		return mapTrainerError(c, err)
	}
	return c.JSON(fiber.Map{"trainer": profile})
}

func (h *TrainerHandler) UpdateProfile(c *fiber.Ctx) error {
	if actorRole(c) != models.RoleTrainer {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req trainerProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	profile, err := h.trainerService.Update(c.Context(), userID, services.TrainerProfileInput{
		SportID:     req.SportID,
		TierID:      req.TierID,
		Bio:         req.Bio,
		HourlyRate:  req.HourlyRate,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		return mapTrainerError(c, err)
	}
	return c.JSON(fiber.Map{"trainer": profile})
}

func (h *TrainerHandler) List(c *fiber.Ctx) error {
	page, limit, offset := parsePage(c)

	filter := repository.TrainerListFilter{
		Offset: offset,
		Limit:  limit,
	}
	if raw := c.Query("sport_id"); raw != "" {
		sportID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || sportID <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "sport_id must be a positive integer"})
		}
		filter.SportID = sportID
	}
	if raw := c.Query("tier_id"); raw != "" {
		tierID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || tierID <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "tier_id must be a positive integer"})
		}
		filter.TierID = tierID
	}
	filter.VerifiedOnly = c.QueryBool("verified")

	trainers, total, err := h.trainerService.List(c.Context(), filter)
	if err != nil {
		return mapTrainerError(c, err)
	}

	return c.JSON(fiber.Map{
		"trainers":   trainers,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *TrainerHandler) Get(c *fiber.Ctx) error {
	profileID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid trainer id"})
	}

	profile, err := h.trainerService.Get(c.Context(), profileID)
	if err != nil {
		return mapTrainerError(c, err)
	}
	return c.JSON(fiber.Map{"trainer": profile})
}

// Recommend ranks trainers for one of the caller's memberships, passed as the
// membership_id query parameter.
func (h *TrainerHandler) Recommend(c *fiber.Ctx) error {
	if actorRole(c) != models.RoleMember {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	membershipID, err := strconv.ParseInt(c.Query("membership_id"), 10, 64)
	if err != nil || membershipID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "membership_id must be a positive integer"})
	}

	var maxHourlyRate *float64
	if raw := c.Query("max_hourly_rate"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "max_hourly_rate must be a non-negative number"})
		}
		maxHourlyRate = &value
	}

	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	membership, err := h.membershipService.Get(c.Context(), userID, actorRole(c), membershipID)
	if err != nil {
		return mapMembershipError(c, err)
	}

	trainers, err := h.trainerService.Recommend(c.Context(), membership, maxHourlyRate, limit)
	if err != nil {
		return mapTrainerError(c, err)
	}
	return c.JSON(fiber.Map{"trainers": trainers})
}

func (h *TrainerHandler) Verify(c *fiber.Ctx) error {
	if actorRole(c) != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	profileID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid trainer id"})
	}

	var req verifyTrainerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	profile, err := h.trainerService.SetVerified(c.Context(), profileID, req.Verified)
	if err != nil {
		return mapTrainerError(c, err)
	}
	return c.JSON(fiber.Map{"trainer": profile})
}

func mapTrainerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trainer not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process trainer request"})
	}
}
