package models

import "time"

type Membership struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	SportID   int64     `json:"sport_id"`
	TierID    int64     `json:"tier_id"`
	ClubID    *int64    `json:"club_id,omitempty"`
	Status    string    `json:"status"`
	StartsAt  time.Time `json:"starts_at"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActiveAt reports whether the membership grants access at the given instant.
// The validity window is half-open: [starts_at, expires_at).
func (m *Membership) IsActiveAt(at time.Time) bool {
	return m.Status == "active" && !at.Before(m.StartsAt) && at.Before(m.ExpiresAt)
}
