package repository

import (
	"context"

	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
)

type NotificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, kind, title, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_read, created_at
	`
	return r.db.QueryRow(ctx, query,
		notification.UserID,
		notification.Kind,
		notification.Title,
		notification.Body,
	).Scan(&notification.ID, &notification.IsRead, &notification.CreatedAt)
}

func (r *NotificationRepository) ListByUser(
	ctx context.Context,
	userID int64,
	unreadOnly bool,
	offset int,
	limit int,
) ([]models.Notification, int, error) {
	where := `user_id = $1`
	if unreadOnly {
		where += ` AND is_read = FALSE`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE `+where, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, user_id, kind, title, body, is_read, created_at
		FROM notifications
		WHERE ` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	notifications := make([]models.Notification, 0)
	for rows.Next() {
		var notification models.Notification
		if err := rows.Scan(
			&notification.ID,
			&notification.UserID,
			&notification.Kind,
			&notification.Title,
			&notification.Body,
			&notification.IsRead,
			&notification.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		notifications = append(notifications, notification)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// MarkRead flips the read flag for a notification owned by the user. Returns
// pgx.ErrNoRows when the notification does not exist or belongs to someone else.
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, userID int64) (*models.Notification, error) {
	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, kind, title, body, is_read, created_at
	`
	var notification models.Notification
	err := r.db.QueryRow(ctx, query, notificationID, userID).Scan(
		&notification.ID,
		&notification.UserID,
		&notification.Kind,
		&notification.Title,
		&notification.Body,
		&notification.IsRead,
		&notification.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &notification, nil
}
