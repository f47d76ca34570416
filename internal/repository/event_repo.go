package repository

import (
	"context"
	"time"

	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
)

type CreateEventInput struct {
	ClubID      int64
	Title       string
	Description *string
	StartsAt    time.Time
	Capacity    int
}

type EventRepository struct {
	db DBTX
}

func NewEventRepository(db DBTX) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, input CreateEventInput) (*models.ClubEvent, error) {
	query := `
		INSERT INTO club_events (club_id, title, description, starts_at, capacity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, club_id, title, description, starts_at, capacity, created_at
	`
	var event models.ClubEvent
	err := r.db.QueryRow(ctx, query,
		input.ClubID,
		input.Title,
		input.Description,
		input.StartsAt,
		input.Capacity,
	).Scan(
		&event.ID,
		&event.ClubID,
		&event.Title,
		&event.Description,
		&event.StartsAt,
		&event.Capacity,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) GetByID(ctx context.Context, eventID int64) (*models.ClubEvent, error) {
	query := `
		SELECT id, club_id, title, description, starts_at, capacity, created_at
		FROM club_events
		WHERE id = $1
	`
	var event models.ClubEvent
	err := r.db.QueryRow(ctx, query, eventID).Scan(
		&event.ID,
		&event.ClubID,
		&event.Title,
		&event.Description,
		&event.StartsAt,
		&event.Capacity,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) ListByClub(ctx context.Context, clubID int64) ([]models.ClubEvent, error) {
	query := `
		SELECT id, club_id, title, description, starts_at, capacity, created_at
		FROM club_events
		WHERE club_id = $1
		ORDER BY starts_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.ClubEvent, 0)
	for rows.Next() {
		var event models.ClubEvent
		if err := rows.Scan(
			&event.ID,
			&event.ClubID,
			&event.Title,
			&event.Description,
			&event.StartsAt,
			&event.Capacity,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// Register inserts a registration only while seats remain. Returns
// pgx.ErrNoRows when the event is full; the unique index on
// (event_id, user_id) surfaces duplicates as a 23505 error.
func (r *EventRepository) Register(ctx context.Context, eventID, userID int64) (*models.EventRegistration, error) {
	query := `
		INSERT INTO event_registrations (event_id, user_id)
		SELECT $1, $2
		WHERE (SELECT COUNT(*) FROM event_registrations WHERE event_id = $1)
			< (SELECT capacity FROM club_events WHERE id = $1)
		RETURNING id, event_id, user_id, created_at
	`
	var registration models.EventRegistration
	err := r.db.QueryRow(ctx, query, eventID, userID).Scan(
		&registration.ID,
		&registration.EventID,
		&registration.UserID,
		&registration.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *EventRepository) CountRegistrations(ctx context.Context, eventID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM event_registrations WHERE event_id = $1`, eventID).Scan(&count)
	return count, err
}
