package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
)

type CreateRequestInput struct {
	ReferenceCode   string
	RequesterID     int64
	MembershipID    int64
	SportID         int64
	TierID          int64
	ServiceID       int64
	RequestType     string
	TargetTrainerID *int64
	ClubID          *int64
	PreferredSlots  []models.PreferredSlot
	Message         *string
	ExpiresAt       time.Time
}

type RequestRepository struct {
	db DBTX
}

func NewRequestRepository(db DBTX) *RequestRepository {
	return &RequestRepository{db: db}
}

const requestColumns = `id, reference_code, requester_id, membership_id, sport_id, tier_id, service_id,
	request_type, target_trainer_id, club_id, preferred_slots, message, status,
	accepted_by_trainer_id, accepted_at, expires_at, created_at, updated_at`

func scanRequest(row rowScanner) (*models.TrainerRequest, error) {
	var request models.TrainerRequest
	err := row.Scan(
		&request.ID,
		&request.ReferenceCode,
		&request.RequesterID,
		&request.MembershipID,
		&request.SportID,
		&request.TierID,
		&request.ServiceID,
		&request.RequestType,
		&request.TargetTrainerID,
		&request.ClubID,
		&request.PreferredSlots,
		&request.Message,
		&request.Status,
		&request.AcceptedBy,
		&request.AcceptedAt,
		&request.ExpiresAt,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *RequestRepository) Create(ctx context.Context, input CreateRequestInput) (*models.TrainerRequest, error) {
	query := fmt.Sprintf(`
		INSERT INTO trainer_requests (reference_code, requester_id, membership_id, sport_id, tier_id,
			service_id, request_type, target_trainer_id, club_id, preferred_slots, message, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'pending', $12)
		RETURNING %s
	`, requestColumns)
	return scanRequest(r.db.QueryRow(ctx, query,
		input.ReferenceCode,
		input.RequesterID,
		input.MembershipID,
		input.SportID,
		input.TierID,
		input.ServiceID,
		input.RequestType,
		input.TargetTrainerID,
		input.ClubID,
		input.PreferredSlots,
		input.Message,
		input.ExpiresAt,
	))
}

func (r *RequestRepository) GetByID(ctx context.Context, requestID int64) (*models.TrainerRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM trainer_requests
		WHERE id = $1
	`, requestColumns)
	return scanRequest(r.db.QueryRow(ctx, query, requestID))
}

// GetByIDForUpdate takes a row lock on the request. It must only be called
// inside a transaction; the lock is held until commit or rollback.
func (r *RequestRepository) GetByIDForUpdate(ctx context.Context, requestID int64) (*models.TrainerRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM trainer_requests
		WHERE id = $1
		FOR UPDATE
	`, requestColumns)
	return scanRequest(r.db.QueryRow(ctx, query, requestID))
}

// ListIncoming returns pending requests visible to a trainer: every open
// request plus specific requests targeting this trainer's profile. Open
// requests are not filtered by the trainer's own sport/tier here; Accept is
// the gate.
func (r *RequestRepository) ListIncoming(
	ctx context.Context,
	trainerProfileID int64,
	offset int,
	limit int,
) ([]models.TrainerRequest, int, error) {
	where := `
		status = 'pending'
		AND (request_type = 'open_request'
			OR (request_type = 'specific_trainer' AND target_trainer_id = $1))
	`

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM trainer_requests WHERE %s`, where)
	if err := r.db.QueryRow(ctx, countQuery, trainerProfileID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM trainer_requests
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, requestColumns, where)

	rows, err := r.db.Query(ctx, query, trainerProfileID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests := make([]models.TrainerRequest, 0)
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, *request)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *RequestRepository) ListByRequester(
	ctx context.Context,
	requesterID int64,
	offset int,
	limit int,
) ([]models.TrainerRequest, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM trainer_requests WHERE requester_id = $1`
	if err := r.db.QueryRow(ctx, countQuery, requesterID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM trainer_requests
		WHERE requester_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, requestColumns)

	rows, err := r.db.Query(ctx, query, requesterID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests := make([]models.TrainerRequest, 0)
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, *request)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// AcceptPending transitions pending -> accepted and stamps the accepting
// trainer, guarded by the current status. Returns pgx.ErrNoRows when the
// request is no longer pending.
func (r *RequestRepository) AcceptPending(
	ctx context.Context,
	requestID int64,
	trainerProfileID int64,
) (*models.TrainerRequest, error) {
	query := fmt.Sprintf(`
		UPDATE trainer_requests
		SET status = 'accepted', accepted_by_trainer_id = $2, accepted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING %s
	`, requestColumns)
	return scanRequest(r.db.QueryRow(ctx, query, requestID, trainerProfileID))
}

// UpdateStatusIfPending is the guard for decline and cancel. Returns
// pgx.ErrNoRows when the request already left pending.
func (r *RequestRepository) UpdateStatusIfPending(
	ctx context.Context,
	requestID int64,
	nextStatus string,
) (*models.TrainerRequest, error) {
	query := fmt.Sprintf(`
		UPDATE trainer_requests
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING %s
	`, requestColumns)
	return scanRequest(r.db.QueryRow(ctx, query, requestID, nextStatus))
}
