package models

import "time"

type Club struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	City        string    `json:"city"`
	Address     *string   `json:"address,omitempty"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Sport struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SportTier is a priced service level scoped to a sport (e.g. Tennis Basic/Pro).
type SportTier struct {
	ID           int64     `json:"id"`
	SportID      int64     `json:"sport_id"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	DurationDays int       `json:"duration_days"`
	CreatedAt    time.Time `json:"created_at"`
}

type SportWithTiers struct {
	Sport
	Tiers []SportTier `json:"tiers"`
}
