package models

import "time"

type TrainerProfile struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	SportID     int64     `json:"sport_id"`
	TierID      int64     `json:"tier_id"`
	Bio         *string   `json:"bio,omitempty"`
	HourlyRate  *float64  `json:"hourly_rate,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	IsVerified  bool      `json:"is_verified"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TrainerWithScore decorates a profile with its recommendation score.
type TrainerWithScore struct {
	TrainerProfile
	MatchScore int `json:"match_score"`
}

// TrainerAvailability is a recurring weekly slot. Start and end are wall-clock
// times in "HH:MM" form; the slot covers the half-open range [start, end).
type TrainerAvailability struct {
	ID               int64     `json:"id"`
	TrainerProfileID int64     `json:"trainer_profile_id"`
	DayOfWeek        string    `json:"day_of_week"`
	StartTime        string    `json:"start_time"`
	EndTime          string    `json:"end_time"`
	IsAvailable      bool      `json:"is_available"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
