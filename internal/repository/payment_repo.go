package repository

import (
	"context"

	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
)

type CreatePaymentInput struct {
	UserID       int64
	Kind         string
	SessionID    *int64
	MembershipID *int64
	Amount       float64
	Status       string
}

type PaymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, user_id, kind, session_id, membership_id, amount, status, created_at`

func scanPayment(row rowScanner) (*models.Payment, error) {
	var payment models.Payment
	err := row.Scan(
		&payment.ID,
		&payment.UserID,
		&payment.Kind,
		&payment.SessionID,
		&payment.MembershipID,
		&payment.Amount,
		&payment.Status,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) Create(ctx context.Context, input CreatePaymentInput) (*models.Payment, error) {
	query := `
		INSERT INTO payments (user_id, kind, session_id, membership_id, amount, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + paymentColumns + `
	`
	return scanPayment(r.db.QueryRow(ctx, query,
		input.UserID,
		input.Kind,
		input.SessionID,
		input.MembershipID,
		input.Amount,
		input.Status,
	))
}

func (r *PaymentRepository) GetBySessionID(ctx context.Context, sessionID int64) (*models.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE session_id = $1
		ORDER BY id DESC
		LIMIT 1
	`
	return scanPayment(r.db.QueryRow(ctx, query, sessionID))
}

func (r *PaymentRepository) GetBySessionIDForUpdate(ctx context.Context, sessionID int64) (*models.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE session_id = $1
		ORDER BY id DESC
		LIMIT 1
		FOR UPDATE
	`
	return scanPayment(r.db.QueryRow(ctx, query, sessionID))
}

func (r *PaymentRepository) ListBySessionIDs(ctx context.Context, sessionIDs []int64) (map[int64]models.Payment, error) {
	payments := make(map[int64]models.Payment, len(sessionIDs))
	if len(sessionIDs) == 0 {
		return payments, nil
	}

	query := `
		SELECT DISTINCT ON (session_id) ` + paymentColumns + `
		FROM payments
		WHERE session_id = ANY($1)
		ORDER BY session_id, id DESC
	`
	rows, err := r.db.Query(ctx, query, sessionIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		if payment.SessionID != nil {
			payments[*payment.SessionID] = *payment
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *PaymentRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	paymentID int64,
	currentStatus string,
	nextStatus string,
) (*models.Payment, error) {
	query := `
		UPDATE payments
		SET status = $3
		WHERE id = $1 AND status = $2
		RETURNING ` + paymentColumns + `
	`
	return scanPayment(r.db.QueryRow(ctx, query, paymentID, currentStatus, nextStatus))
}

// SetAmountIfPending follows a session fee change on the not-yet-settled
// payment. Paid payments keep the amount they settled at.
func (r *PaymentRepository) SetAmountIfPending(
	ctx context.Context,
	sessionID int64,
	amount float64,
) (*models.Payment, error) {
	query := `
		UPDATE payments
		SET amount = $2
		WHERE session_id = $1 AND status = 'pending'
		RETURNING ` + paymentColumns + `
	`
	return scanPayment(r.db.QueryRow(ctx, query, sessionID, amount))
}
