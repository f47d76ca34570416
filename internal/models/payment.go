package models

import "time"

const (
	PaymentKindSessionFee = "session_fee"
	PaymentKindMembership = "membership"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

type Payment struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Kind         string    `json:"kind"`
	SessionID    *int64    `json:"session_id,omitempty"`
	MembershipID *int64    `json:"membership_id,omitempty"`
	Amount       float64   `json:"amount"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
