package repository

import (
	"context"
	"time"

	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
)

type CreateMembershipInput struct {
	UserID    int64
	SportID   int64
	TierID    int64
	ClubID    *int64
	StartsAt  time.Time
	ExpiresAt time.Time
}

type MembershipRepository struct {
	db DBTX
}

func NewMembershipRepository(db DBTX) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Create(ctx context.Context, input CreateMembershipInput) (*models.Membership, error) {
	query := `
		INSERT INTO memberships (user_id, sport_id, tier_id, club_id, status, starts_at, expires_at)
		VALUES ($1, $2, $3, $4, 'active', $5, $6)
		RETURNING id, user_id, sport_id, tier_id, club_id, status, starts_at, expires_at, created_at, updated_at
	`
	var membership models.Membership
	err := r.db.QueryRow(ctx, query,
		input.UserID,
		input.SportID,
		input.TierID,
		input.ClubID,
		input.StartsAt,
		input.ExpiresAt,
	).Scan(
		&membership.ID,
		&membership.UserID,
		&membership.SportID,
		&membership.TierID,
		&membership.ClubID,
		&membership.Status,
		&membership.StartsAt,
		&membership.ExpiresAt,
		&membership.CreatedAt,
		&membership.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *MembershipRepository) GetByID(ctx context.Context, membershipID int64) (*models.Membership, error) {
	query := `
		SELECT id, user_id, sport_id, tier_id, club_id, status, starts_at, expires_at, created_at, updated_at
		FROM memberships
		WHERE id = $1
	`
	var membership models.Membership
	err := r.db.QueryRow(ctx, query, membershipID).Scan(
		&membership.ID,
		&membership.UserID,
		&membership.SportID,
		&membership.TierID,
		&membership.ClubID,
		&membership.Status,
		&membership.StartsAt,
		&membership.ExpiresAt,
		&membership.CreatedAt,
		&membership.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *MembershipRepository) ListByUser(ctx context.Context, userID int64) ([]models.Membership, error) {
	query := `
		SELECT id, user_id, sport_id, tier_id, club_id, status, starts_at, expires_at, created_at, updated_at
		FROM memberships
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	memberships := make([]models.Membership, 0)
	for rows.Next() {
		var membership models.Membership
		if err := rows.Scan(
			&membership.ID,
			&membership.UserID,
			&membership.SportID,
			&membership.TierID,
			&membership.ClubID,
			&membership.Status,
			&membership.StartsAt,
			&membership.ExpiresAt,
			&membership.CreatedAt,
			&membership.UpdatedAt,
		); err != nil {
			return nil, err
		}
		memberships = append(memberships, membership)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return memberships, nil
}

func (r *MembershipRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	membershipID int64,
	currentStatus string,
	nextStatus string,
) (*models.Membership, error) {
	query := `
		UPDATE memberships
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING id, user_id, sport_id, tier_id, club_id, status, starts_at, expires_at, created_at, updated_at
	`
	var membership models.Membership
	err := r.db.QueryRow(ctx, query, membershipID, currentStatus, nextStatus).Scan(
		&membership.ID,
		&membership.UserID,
		&membership.SportID,
		&membership.TierID,
		&membership.ClubID,
		&membership.Status,
		&membership.StartsAt,
		&membership.ExpiresAt,
		&membership.CreatedAt,
		&membership.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &membership, nil
}
