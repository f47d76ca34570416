package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/repository"
)

type EventService struct {
	eventRepo *repository.EventRepository
	clubRepo  *repository.ClubRepository
}

func NewEventService(
	eventRepo *repository.EventRepository,
	clubRepo *repository.ClubRepository,
) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		clubRepo:  clubRepo,
	}
}

func (s *EventService) Create(ctx context.Context, input repository.CreateEventInput) (*models.ClubEvent, error) {
	if strings.TrimSpace(input.Title) == "" || input.Capacity <= 0 {
		return nil, ErrInvalidInput
	}
	if input.StartsAt.Before(time.Now()) {
		return nil, ErrInvalidInput
	}
	if _, err := s.clubRepo.GetByID(ctx, input.ClubID); err != nil {
		return nil, err
	}
	return s.eventRepo.Create(ctx, input)
}

func (s *EventService) ListByClub(ctx context.Context, clubID int64) ([]models.ClubEvent, error) {
	if _, err := s.clubRepo.GetByID(ctx, clubID); err != nil {
		return nil, err
	}
	return s.eventRepo.ListByClub(ctx, clubID)
}

// Register signs a user up for an event. Capacity is enforced inside the
// insert itself and the unique index rejects double registration, so two
// racing calls cannot oversell the last seat.
func (s *EventService) Register(ctx context.Context, eventID, userID int64) (*models.EventRegistration, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	registration, err := s.eventRepo.Register(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventFull
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}
	return registration, nil
}
