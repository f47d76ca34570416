package models

import "time"

const (
	RequestTypeOpen     = "open_request"
	RequestTypeSpecific = "specific_trainer"

	RequestStatusPending   = "pending"
	RequestStatusAccepted  = "accepted"
	RequestStatusDeclined  = "declined"
	RequestStatusCancelled = "cancelled"
)

// TrainerService is a bookable service offered through the platform
// (e.g. "Private Lesson", "Group Training").
type TrainerService struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type PreferredSlot struct {
	Day   string `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// TrainerRequest is a client's ask for a trainer session. Sport and tier are
// snapshotted from the membership at creation time and never re-derived from
// the live membership afterwards.
type TrainerRequest struct {
	ID              int64           `json:"id"`
	ReferenceCode   string          `json:"reference_code"`
	RequesterID     int64           `json:"requester_id"`
	MembershipID    int64           `json:"membership_id"`
	SportID         int64           `json:"sport_id"`
	TierID          int64           `json:"tier_id"`
	ServiceID       int64           `json:"service_id"`
	RequestType     string          `json:"request_type"`
	TargetTrainerID *int64          `json:"target_trainer_id,omitempty"`
	ClubID          *int64          `json:"club_id,omitempty"`
	PreferredSlots  []PreferredSlot `json:"preferred_slots"`
	Message         *string         `json:"message,omitempty"`
	Status          string          `json:"status"`
	AcceptedBy      *int64          `json:"accepted_by_trainer_id,omitempty"`
	AcceptedAt      *time.Time      `json:"accepted_at,omitempty"`
	ExpiresAt       time.Time       `json:"expires_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
