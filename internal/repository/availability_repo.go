package repository

import (
	"context"

	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
)

type CreateAvailabilityInput struct {
	TrainerProfileID int64
	DayOfWeek        string
	StartTime        string
	EndTime          string
	IsAvailable      bool
}

type UpdateAvailabilityInput struct {
	DayOfWeek   *string
	StartTime   *string
	EndTime     *string
	IsAvailable *bool
}

type AvailabilityRepository struct {
	db DBTX
}

func NewAvailabilityRepository(db DBTX) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

func scanAvailability(row rowScanner) (*models.TrainerAvailability, error) {
	var slot models.TrainerAvailability
	err := row.Scan(
		&slot.ID,
		&slot.TrainerProfileID,
		&slot.DayOfWeek,
		&slot.StartTime,
		&slot.EndTime,
		&slot.IsAvailable,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *AvailabilityRepository) Create(ctx context.Context, input CreateAvailabilityInput) (*models.TrainerAvailability, error) {
	query := `
		INSERT INTO trainer_availabilities (trainer_profile_id, day_of_week, start_time, end_time, is_available)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, trainer_profile_id, day_of_week, start_time, end_time, is_available, created_at, updated_at
	`
	return scanAvailability(r.db.QueryRow(ctx, query,
		input.TrainerProfileID,
		input.DayOfWeek,
		input.StartTime,
		input.EndTime,
		input.IsAvailable,
	))
}

func (r *AvailabilityRepository) GetByID(ctx context.Context, slotID int64) (*models.TrainerAvailability, error) {
	query := `
		SELECT id, trainer_profile_id, day_of_week, start_time, end_time, is_available, created_at, updated_at
		FROM trainer_availabilities
		WHERE id = $1
	`
	return scanAvailability(r.db.QueryRow(ctx, query, slotID))
}

func (r *AvailabilityRepository) Update(ctx context.Context, slotID int64, input UpdateAvailabilityInput) (*models.TrainerAvailability, error) {
	query := `
		UPDATE trainer_availabilities
		SET day_of_week = COALESCE($1, day_of_week),
			start_time = COALESCE($2, start_time),
			end_time = COALESCE($3, end_time),
			is_available = COALESCE($4, is_available),
			updated_at = NOW()
		WHERE id = $5
		RETURNING id, trainer_profile_id, day_of_week, start_time, end_time, is_available, created_at, updated_at
	`
	return scanAvailability(r.db.QueryRow(ctx, query,
		input.DayOfWeek,
		input.StartTime,
		input.EndTime,
		input.IsAvailable,
		slotID,
	))
}

// ListForTrainerDay returns every slot of the trainer on the given weekday,
// optionally excluding one record (the one being updated).
func (r *AvailabilityRepository) ListForTrainerDay(
	ctx context.Context,
	trainerProfileID int64,
	dayOfWeek string,
	excludeID int64,
) ([]models.TrainerAvailability, error) {
	query := `
		SELECT id, trainer_profile_id, day_of_week, start_time, end_time, is_available, created_at, updated_at
		FROM trainer_availabilities
		WHERE trainer_profile_id = $1
		  AND day_of_week = $2
		  AND id <> $3
		ORDER BY start_time ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, trainerProfileID, dayOfWeek, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]models.TrainerAvailability, 0)
	for rows.Next() {
		slot, err := scanAvailability(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, *slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *AvailabilityRepository) ListForTrainer(ctx context.Context, trainerProfileID int64) ([]models.TrainerAvailability, error) {
	query := `
		SELECT id, trainer_profile_id, day_of_week, start_time, end_time, is_available, created_at, updated_at
		FROM trainer_availabilities
		WHERE trainer_profile_id = $1
		ORDER BY
			CASE day_of_week
				WHEN 'monday' THEN 1
				WHEN 'tuesday' THEN 2
				WHEN 'wednesday' THEN 3
				WHEN 'thursday' THEN 4
				WHEN 'friday' THEN 5
				WHEN 'saturday' THEN 6
				ELSE 7
			END,
			start_time ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, trainerProfileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]models.TrainerAvailability, 0)
	for rows.Next() {
		slot, err := scanAvailability(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, *slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return slots, nil
}
