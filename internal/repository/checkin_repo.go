package repository

import (
	"context"

	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
)

type CheckInRepository struct {
	db DBTX
}

func NewCheckInRepository(db DBTX) *CheckInRepository {
	return &CheckInRepository{db: db}
}

func (r *CheckInRepository) Create(ctx context.Context, userID, clubID, membershipID int64) (*models.CheckIn, error) {
	query := `
		INSERT INTO check_ins (user_id, club_id, membership_id)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, club_id, membership_id, checked_in_at
	`
	var checkIn models.CheckIn
	err := r.db.QueryRow(ctx, query, userID, clubID, membershipID).Scan(
		&checkIn.ID,
		&checkIn.UserID,
		&checkIn.ClubID,
		&checkIn.MembershipID,
		&checkIn.CheckedInAt,
	)
	if err != nil {
		return nil, err
	}
	return &checkIn, nil
}

func (r *CheckInRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]models.CheckIn, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM check_ins WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, user_id, club_id, membership_id, checked_in_at
		FROM check_ins
		WHERE user_id = $1
		ORDER BY checked_in_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	checkIns := make([]models.CheckIn, 0)
	for rows.Next() {
		var checkIn models.CheckIn
		if err := rows.Scan(
			&checkIn.ID,
			&checkIn.UserID,
			&checkIn.ClubID,
			&checkIn.MembershipID,
			&checkIn.CheckedInAt,
		); err != nil {
			return nil, 0, err
		}
		checkIns = append(checkIns, checkIn)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return checkIns, total, nil
}
