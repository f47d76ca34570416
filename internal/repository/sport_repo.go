package repository

import (
	"context"

	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
)

type SportRepository struct {
	db DBTX
}

func NewSportRepository(db DBTX) *SportRepository {
	return &SportRepository{db: db}
}

func (r *SportRepository) CreateSport(ctx context.Context, name string) (*models.Sport, error) {
	query := `
		INSERT INTO sports (name)
		VALUES ($1)
		RETURNING id, name, created_at
	`
	var sport models.Sport
	if err := r.db.QueryRow(ctx, query, name).Scan(&sport.ID, &sport.Name, &sport.CreatedAt); err != nil {
		return nil, err
	}
	return &sport, nil
}

func (r *SportRepository) GetSportByID(ctx context.Context, sportID int64) (*models.Sport, error) {
	query := `
		SELECT id, name, created_at
		FROM sports
		WHERE id = $1
	`
	var sport models.Sport
	if err := r.db.QueryRow(ctx, query, sportID).Scan(&sport.ID, &sport.Name, &sport.CreatedAt); err != nil {
		return nil, err
	}
	return &sport, nil
}

func (r *SportRepository) ListSports(ctx context.Context) ([]models.Sport, error) {
	query := `
		SELECT id, name, created_at
		FROM sports
		ORDER BY name ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sports := make([]models.Sport, 0)
	for rows.Next() {
		var sport models.Sport
		if err := rows.Scan(&sport.ID, &sport.Name, &sport.CreatedAt); err != nil {
			return nil, err
		}
		sports = append(sports, sport)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sports, nil
}

type CreateTierInput struct {
	SportID      int64
	Name         string
	Price        float64
	DurationDays int
}

func (r *SportRepository) CreateTier(ctx context.Context, input CreateTierInput) (*models.SportTier, error) {
	query := `
		INSERT INTO sport_tiers (sport_id, name, price, duration_days)
		VALUES ($1, $2, $3, $4)
		RETURNING id, sport_id, name, price, duration_days, created_at
	`
	var tier models.SportTier
	err := r.db.QueryRow(ctx, query, input.SportID, input.Name, input.Price, input.DurationDays).Scan(
		&tier.ID,
		&tier.SportID,
		&tier.Name,
		&tier.Price,
		&tier.DurationDays,
		&tier.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tier, nil
}

func (r *SportRepository) GetTierByID(ctx context.Context, tierID int64) (*models.SportTier, error) {
	query := `
		SELECT id, sport_id, name, price, duration_days, created_at
		FROM sport_tiers
		WHERE id = $1
	`
	var tier models.SportTier
	err := r.db.QueryRow(ctx, query, tierID).Scan(
		&tier.ID,
		&tier.SportID,
		&tier.Name,
		&tier.Price,
		&tier.DurationDays,
		&tier.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tier, nil
}

func (r *SportRepository) ListTiersBySport(ctx context.Context, sportID int64) ([]models.SportTier, error) {
	query := `
		SELECT id, sport_id, name, price, duration_days, created_at
		FROM sport_tiers
		WHERE sport_id = $1
		ORDER BY price ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, sportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tiers := make([]models.SportTier, 0)
	for rows.Next() {
		var tier models.SportTier
		if err := rows.Scan(
			&tier.ID,
			&tier.SportID,
			&tier.Name,
			&tier.Price,
			&tier.DurationDays,
			&tier.CreatedAt,
		); err != nil {
			return nil, err
		}
		tiers = append(tiers, tier)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tiers, nil
}
