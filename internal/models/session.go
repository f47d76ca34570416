package models

import "time"

const (
	SessionStatusScheduled = "scheduled"
	SessionStatusCompleted = "completed"
	SessionStatusCancelled = "cancelled"
	SessionStatusNoShow    = "no_show"
)

type TrainerSession struct {
	ID               int64     `json:"id"`
	TrainerProfileID int64     `json:"trainer_profile_id"`
	TraineeID        int64     `json:"trainee_id"`
	MembershipID     int64     `json:"membership_id"`
	ScheduledAt      time.Time `json:"scheduled_at"`
	DurationMinutes  int       `json:"duration_minutes"`
	Status           string    `json:"status"`
	FeeAmount        float64   `json:"fee_amount"`
	PaymentStatus    string    `json:"payment_status"`
	Location         *string   `json:"location,omitempty"`
	Notes            *string   `json:"notes,omitempty"`
	Rating           *int      `json:"rating,omitempty"`
	Feedback         *string   `json:"feedback,omitempty"`
	TrainerNotes     *string   `json:"trainer_notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// EndsAt derives the half-open end of the session interval.
func (s *TrainerSession) EndsAt() time.Time {
	return s.ScheduledAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

type SessionDetail struct {
	TrainerSession
	Payment *Payment `json:"payment,omitempty"`
}
