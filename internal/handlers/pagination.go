package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func parsePage(c *fiber.Ctx) (page, limit, offset int) {
	page = parsePositiveInt(c.Query("page"), 1)
	limit = parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit, (page - 1) * limit
}

func buildPaginationMeta(page, limit, total int) models.PaginationMeta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return models.PaginationMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
