package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/repository"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/services"
)

type CatalogHandler struct {
	service *services.CatalogService
}

func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

type createClubRequest struct {
	Name        string  `json:"name" validate:"required"`
	City        string  `json:"city" validate:"required"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
}

type updateClubRequest struct {
	Name        *string `json:"name"`
	City        *string `json:"city"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
}

type createSportRequest struct {
	Name string `json:"name" validate:"required"`
}

type createTierRequest struct {
	Name         string  `json:"name" validate:"required"`
	Price        float64 `json:"price" validate:"gte=0"`
	DurationDays int     `json:"duration_days" validate:"gt=0"`
}

func (h *CatalogHandler) ListClubs(c *fiber.Ctx) error {
	clubs, err := h.service.ListClubs(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch clubs"})
	}
	return c.JSON(fiber.Map{"clubs": clubs})
}

func (h *CatalogHandler) GetClub(c *fiber.Ctx) error {
	clubID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid club id"})
	}

	club, err := h.service.GetClub(c.Context(), clubID)
	if err != nil {
		return mapCatalogError(c, err)
	}
	return c.JSON(fiber.Map{"club": club})
}

func (h *CatalogHandler) CreateClub(c *fiber.Ctx) error {
	if actorRole(c) != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	var req createClubRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	club, err := h.service.CreateClub(c.Context(), repository.CreateClubInput{
		Name:        req.Name,
		City:        req.City,
		Address:     req.Address,
		Description: req.Description,
	})
	if err != nil {
		return mapCatalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"club": club})
}

func (h *CatalogHandler) UpdateClub(c *fiber.Ctx) error {
	if actorRole(c) != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	clubID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid club id"})
	}

	var req updateClubRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	club, err := h.service.UpdateClub(c.Context(), clubID, repository.UpdateClubInput{
		Name:        req.Name,
		City:        req.City,
		Address:     req.Address,
		Description: req.Description,
	})
	if err != nil {
		return mapCatalogError(c, err)
	}
	return c.JSON(fiber.Map{"club": club})
}

func (h *CatalogHandler) ListSports(c *fiber.Ctx) error {
	sports, err := h.service.ListSports(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch sports"})
	}
	return c.JSON(fiber.Map{"sports": sports})
}

func (h *CatalogHandler) CreateSport(c *fiber.Ctx) error {
	if actorRole(c) != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	var req createSportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	sport, err := h.service.CreateSport(c.Context(), req.Name)
	if err != nil {
		return mapCatalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"sport": sport})
}

func (h *CatalogHandler) CreateTier(c *fiber.Ctx) error {
	if actorRole(c) != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	sportID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid sport id"})
	}

	var req createTierRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	tier, err := h.service.CreateTier(c.Context(), repository.CreateTierInput{
		SportID:      sportID,
		Name:         req.Name,
		Price:        req.Price,
		DurationDays: req.DurationDays,
	})
	if err != nil {
		return mapCatalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"tier": tier})
}

type createServiceRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

func (h *CatalogHandler) ListServices(c *fiber.Ctx) error {
	trainerServices, err := h.service.ListServices(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch services"})
	}
	return c.JSON(fiber.Map{"services": trainerServices})
}

func (h *CatalogHandler) CreateService(c *fiber.Ctx) error {
	if actorRole(c) != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	var req createServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	trainerService, err := h.service.CreateService(c.Context(), req.Name, req.Description)
	if err != nil {
		return mapCatalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"service": trainerService})
}

func mapCatalogError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process catalog request"})
	}
}
