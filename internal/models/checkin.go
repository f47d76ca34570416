package models

import "time"

type CheckIn struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	ClubID       int64     `json:"club_id"`
	MembershipID int64     `json:"membership_id"`
	CheckedInAt  time.Time `json:"checked_in_at"`
}
