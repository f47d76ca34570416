package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
)

type CreateSessionInput struct {
	TrainerProfileID int64
	TraineeID        int64
	MembershipID     int64
	ScheduledAt      time.Time
	DurationMinutes  int
	FeeAmount        float64
	Location         *string
	Notes            *string
}

type SessionListFilter struct {
	TrainerProfileID int64
	TraineeID        int64
	Status           string
	Timeframe        string
}

type RescheduleSessionInput struct {
	ScheduledAt     *time.Time
	DurationMinutes *int
	FeeAmount       *float64
	Location        *string
	Notes           *string
	TrainerNotes    *string
}

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, trainer_profile_id, trainee_id, membership_id, scheduled_at, duration_min,
	status, fee_amount, payment_status, location, notes, rating, feedback, trainer_notes,
	created_at, updated_at`

func scanSession(row rowScanner) (*models.TrainerSession, error) {
	var session models.TrainerSession
	err := row.Scan(
		&session.ID,
		&session.TrainerProfileID,
		&session.TraineeID,
		&session.MembershipID,
		&session.ScheduledAt,
		&session.DurationMinutes,
		&session.Status,
		&session.FeeAmount,
		&session.PaymentStatus,
		&session.Location,
		&session.Notes,
		&session.Rating,
		&session.Feedback,
		&session.TrainerNotes,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Create(ctx context.Context, input CreateSessionInput) (*models.TrainerSession, error) {
	query := fmt.Sprintf(`
		INSERT INTO trainer_sessions (trainer_profile_id, trainee_id, membership_id, scheduled_at,
			duration_min, status, fee_amount, payment_status, location, notes)
		VALUES ($1, $2, $3, $4, $5, 'scheduled', $6, 'unpaid', $7, $8)
		RETURNING %s
	`, sessionColumns)
	return scanSession(r.db.QueryRow(ctx, query,
		input.TrainerProfileID,
		input.TraineeID,
		input.MembershipID,
		input.ScheduledAt,
		input.DurationMinutes,
		input.FeeAmount,
		input.Location,
		input.Notes,
	))
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID int64) (*models.TrainerSession, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM trainer_sessions
		WHERE id = $1
	`, sessionColumns)
	return scanSession(r.db.QueryRow(ctx, query, sessionID))
}

func (r *SessionRepository) GetByIDForUpdate(ctx context.Context, sessionID int64) (*models.TrainerSession, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM trainer_sessions
		WHERE id = $1
		FOR UPDATE
	`, sessionColumns)
	return scanSession(r.db.QueryRow(ctx, query, sessionID))
}

func (r *SessionRepository) List(ctx context.Context, filter SessionListFilter) ([]models.TrainerSession, error) {
	args := []any{}
	whereParts := []string{}

	if filter.TrainerProfileID > 0 {
		args = append(args, filter.TrainerProfileID)
		whereParts = append(whereParts, fmt.Sprintf("trainer_profile_id = $%d", len(args)))
	}
	if filter.TraineeID > 0 {
		args = append(args, filter.TraineeID)
		whereParts = append(whereParts, fmt.Sprintf("trainee_id = $%d", len(args)))
	}
	if len(whereParts) == 0 {
		whereParts = append(whereParts, "TRUE")
	}

	if status := strings.TrimSpace(filter.Status); status != "" {
		args = append(args, status)
		whereParts = append(whereParts, fmt.Sprintf("status = $%d", len(args)))
	}

	switch strings.TrimSpace(filter.Timeframe) {
	case "upcoming":
		whereParts = append(
			whereParts,
			"(scheduled_at + (duration_min * INTERVAL '1 minute')) > NOW()",
		)
	case "past":
		whereParts = append(
			whereParts,
			"(scheduled_at + (duration_min * INTERVAL '1 minute')) <= NOW()",
		)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM trainer_sessions
		WHERE %s
		ORDER BY scheduled_at ASC, id ASC
	`, sessionColumns, strings.Join(whereParts, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.TrainerSession, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *SessionRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	sessionID int64,
	currentStatus string,
	nextStatus string,
) (*models.TrainerSession, error) {
	query := fmt.Sprintf(`
		UPDATE trainer_sessions
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING %s
	`, sessionColumns)
	return scanSession(r.db.QueryRow(ctx, query, sessionID, currentStatus, nextStatus))
}

// CancelIfCurrent mirrors UpdateStatusIfCurrent but also appends the
// cancellation reason to notes in the same statement, so a lost race can
// never double-append.
func (r *SessionRepository) CancelIfCurrent(
	ctx context.Context,
	sessionID int64,
	currentStatus string,
	reason string,
) (*models.TrainerSession, error) {
	query := fmt.Sprintf(`
		UPDATE trainer_sessions
		SET status = 'cancelled',
			notes = TRIM(BOTH E'\n' FROM COALESCE(notes, '') || E'\n' || $3),
			updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING %s
	`, sessionColumns)
	return scanSession(r.db.QueryRow(ctx, query, sessionID, currentStatus, reason))
}

func (r *SessionRepository) Reschedule(
	ctx context.Context,
	sessionID int64,
	input RescheduleSessionInput,
) (*models.TrainerSession, error) {
	query := fmt.Sprintf(`
		UPDATE trainer_sessions
		SET scheduled_at = COALESCE($2, scheduled_at),
			duration_min = COALESCE($3, duration_min),
			fee_amount = COALESCE($4, fee_amount),
			location = COALESCE($5, location),
			notes = COALESCE($6, notes),
			trainer_notes = COALESCE($7, trainer_notes),
			updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, sessionColumns)
	return scanSession(r.db.QueryRow(ctx, query,
		sessionID,
		input.ScheduledAt,
		input.DurationMinutes,
		input.FeeAmount,
		input.Location,
		input.Notes,
		input.TrainerNotes,
	))
}

func (r *SessionRepository) SetRating(
	ctx context.Context,
	sessionID int64,
	rating int,
	feedback *string,
) (*models.TrainerSession, error) {
	query := fmt.Sprintf(`
		UPDATE trainer_sessions
		SET rating = $2, feedback = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, sessionColumns)
	return scanSession(r.db.QueryRow(ctx, query, sessionID, rating, feedback))
}

func (r *SessionRepository) SetPaymentStatusIfCurrent(
	ctx context.Context,
	sessionID int64,
	currentStatus string,
	nextStatus string,
) (*models.TrainerSession, error) {
	query := fmt.Sprintf(`
		UPDATE trainer_sessions
		SET payment_status = $3, updated_at = NOW()
		WHERE id = $1 AND payment_status = $2
		RETURNING %s
	`, sessionColumns)
	return scanSession(r.db.QueryRow(ctx, query, sessionID, currentStatus, nextStatus))
}

// HasConflict reports whether any non-cancelled session of the trainer
// overlaps the half-open interval [requestedTime, requestedTime+duration).
func (r *SessionRepository) HasConflict(
	ctx context.Context,
	trainerProfileID int64,
	requestedTime time.Time,
	durationMinutes int,
) (bool, error) {
	return r.hasConflict(ctx, trainerProfileID, requestedTime, durationMinutes, 0)
}

func (r *SessionRepository) HasConflictExcludingSession(
	ctx context.Context,
	trainerProfileID int64,
	requestedTime time.Time,
	durationMinutes int,
	excludedSessionID int64,
) (bool, error) {
	return r.hasConflict(ctx, trainerProfileID, requestedTime, durationMinutes, excludedSessionID)
}

func (r *SessionRepository) hasConflict(
	ctx context.Context,
	trainerProfileID int64,
	requestedTime time.Time,
	durationMinutes int,
	excludedSessionID int64,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM trainer_sessions
			WHERE trainer_profile_id = $1
			  AND id <> $4
			  AND status <> 'cancelled'
			  AND scheduled_at < ($2::timestamptz + ($3::int * INTERVAL '1 minute'))
			  AND (scheduled_at + (duration_min * INTERVAL '1 minute')) > $2::timestamptz
		)
	`
	var hasConflict bool
	if err := r.db.QueryRow(ctx, query, trainerProfileID, requestedTime, durationMinutes, excludedSessionID).Scan(&hasConflict); err != nil {
		return false, err
	}
	return hasConflict, nil
}
