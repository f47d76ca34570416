package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
)

type CreateTrainerProfileInput struct {
	UserID     int64
	SportID    int64
	TierID     int64
	Bio        *string
	HourlyRate *float64
}

type UpdateTrainerProfileInput struct {
	SportID     *int64
	TierID      *int64
	Bio         *string
	HourlyRate  *float64
	IsAvailable *bool
}

type TrainerListFilter struct {
	SportID      int64
	TierID       int64
	VerifiedOnly bool
	Offset       int
	Limit        int
}

type TrainerProfileRepository struct {
	db DBTX
}

func NewTrainerProfileRepository(db DBTX) *TrainerProfileRepository {
	return &TrainerProfileRepository{db: db}
}

const trainerProfileColumns = `id, user_id, sport_id, tier_id, bio, hourly_rate, rating,
	is_verified, is_available, created_at, updated_at`

// rowScanner covers both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrainerProfile(row rowScanner) (*models.TrainerProfile, error) {
	var profile models.TrainerProfile
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.SportID,
		&profile.TierID,
		&profile.Bio,
		&profile.HourlyRate,
		&profile.Rating,
		&profile.IsVerified,
		&profile.IsAvailable,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *TrainerProfileRepository) Create(ctx context.Context, input CreateTrainerProfileInput) (*models.TrainerProfile, error) {
	query := fmt.Sprintf(`
		INSERT INTO trainer_profiles (user_id, sport_id, tier_id, bio, hourly_rate)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s
	`, trainerProfileColumns)
	return scanTrainerProfile(r.db.QueryRow(ctx, query,
		input.UserID,
		input.SportID,
		input.TierID,
		input.Bio,
		input.HourlyRate,
	))
}

func (r *TrainerProfileRepository) GetByID(ctx context.Context, profileID int64) (*models.TrainerProfile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM trainer_profiles
		WHERE id = $1
	`, trainerProfileColumns)
	return scanTrainerProfile(r.db.QueryRow(ctx, query, profileID))
}

func (r *TrainerProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.TrainerProfile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM trainer_profiles
		WHERE user_id = $1
	`, trainerProfileColumns)
	return scanTrainerProfile(r.db.QueryRow(ctx, query, userID))
}

func (r *TrainerProfileRepository) UpdatePartial(
	ctx context.Context,
	userID int64,
	input UpdateTrainerProfileInput,
) (*models.TrainerProfile, error) {
	query := fmt.Sprintf(`
		UPDATE trainer_profiles
		SET sport_id = COALESCE($1, sport_id),
			tier_id = COALESCE($2, tier_id),
			bio = COALESCE($3, bio),
			hourly_rate = COALESCE($4, hourly_rate),
			is_available = COALESCE($5, is_available),
			updated_at = NOW()
		WHERE user_id = $6
		RETURNING %s
	`, trainerProfileColumns)
	return scanTrainerProfile(r.db.QueryRow(ctx, query,
		input.SportID,
		input.TierID,
		input.Bio,
		input.HourlyRate,
		input.IsAvailable,
		userID,
	))
}

func (r *TrainerProfileRepository) SetVerified(ctx context.Context, profileID int64, verified bool) (*models.TrainerProfile, error) {
	query := fmt.Sprintf(`
		UPDATE trainer_profiles
		SET is_verified = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, trainerProfileColumns)
	return scanTrainerProfile(r.db.QueryRow(ctx, query, profileID, verified))
}

// RefreshRating recomputes the profile's aggregate rating from its rated
// sessions.
func (r *TrainerProfileRepository) RefreshRating(ctx context.Context, profileID int64) error {
	query := `
		UPDATE trainer_profiles
		SET rating = (
			SELECT AVG(rating)::numeric(3,2)
			FROM trainer_sessions
			WHERE trainer_profile_id = $1 AND rating IS NOT NULL
		),
		updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, profileID)
	return err
}

func (r *TrainerProfileRepository) List(ctx context.Context, filter TrainerListFilter) ([]models.TrainerProfile, int, error) {
	args := []any{}
	whereParts := []string{"TRUE"}

	if filter.SportID > 0 {
		args = append(args, filter.SportID)
		whereParts = append(whereParts, fmt.Sprintf("sport_id = $%d", len(args)))
	}
	if filter.TierID > 0 {
		args = append(args, filter.TierID)
		whereParts = append(whereParts, fmt.Sprintf("tier_id = $%d", len(args)))
	}
	if filter.VerifiedOnly {
		whereParts = append(whereParts, "is_verified = TRUE")
	}

	where := strings.Join(whereParts, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM trainer_profiles WHERE %s`, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM trainer_profiles
		WHERE %s
		ORDER BY rating DESC NULLS LAST, id ASC
		LIMIT $%d OFFSET $%d
	`, trainerProfileColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	profiles := make([]models.TrainerProfile, 0)
	for rows.Next() {
		profile, err := scanTrainerProfile(rows)
		if err != nil {
			return nil, 0, err
		}
		profiles = append(profiles, *profile)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}
