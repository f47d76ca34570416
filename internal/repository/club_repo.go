package repository

import (
	"context"

	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
)

type CreateClubInput struct {
	Name        string
	City        string
	Address     *string
	Description *string
}

type UpdateClubInput struct {
	Name        *string
	City        *string
	Address     *string
	Description *string
}

type ClubRepository struct {
	db DBTX
}

func NewClubRepository(db DBTX) *ClubRepository {
	return &ClubRepository{db: db}
}

func (r *ClubRepository) Create(ctx context.Context, input CreateClubInput) (*models.Club, error) {
	query := `
		INSERT INTO clubs (name, city, address, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, city, address, description, created_at, updated_at
	`
	var club models.Club
	err := r.db.QueryRow(ctx, query, input.Name, input.City, input.Address, input.Description).Scan(
		&club.ID,
		&club.Name,
		&club.City,
		&club.Address,
		&club.Description,
		&club.CreatedAt,
		&club.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &club, nil
}

func (r *ClubRepository) GetByID(ctx context.Context, clubID int64) (*models.Club, error) {
	query := `
		SELECT id, name, city, address, description, created_at, updated_at
		FROM clubs
		WHERE id = $1
	`
	var club models.Club
	err := r.db.QueryRow(ctx, query, clubID).Scan(
		&club.ID,
		&club.Name,
		&club.City,
		&club.Address,
		&club.Description,
		&club.CreatedAt,
		&club.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &club, nil
}

func (r *ClubRepository) List(ctx context.Context) ([]models.Club, error) {
	query := `
		SELECT id, name, city, address, description, created_at, updated_at
		FROM clubs
		ORDER BY name ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clubs := make([]models.Club, 0)
	for rows.Next() {
		var club models.Club
		if err := rows.Scan(
			&club.ID,
			&club.Name,
			&club.City,
			&club.Address,
			&club.Description,
			&club.CreatedAt,
			&club.UpdatedAt,
		); err != nil {
			return nil, err
		}
		clubs = append(clubs, club)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return clubs, nil
}

func (r *ClubRepository) UpdatePartial(ctx context.Context, clubID int64, input UpdateClubInput) (*models.Club, error) {
	query := `
		UPDATE clubs
		SET name = COALESCE($1, name),
			city = COALESCE($2, city),
			address = COALESCE($3, address),
			description = COALESCE($4, description),
			updated_at = NOW()
		WHERE id = $5
		RETURNING id, name, city, address, description, created_at, updated_at
	`
	var club models.Club
	err := r.db.QueryRow(ctx, query,
		input.Name,
		input.City,
		input.Address,
		input.Description,
		clubID,
	).Scan(
		&club.ID,
		&club.Name,
		&club.City,
		&club.Address,
		&club.Description,
		&club.CreatedAt,
		&club.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &club, nil
}
