package services

import (
	"context"
	"strings"
	"time"

	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/repository"
)

var weekdays = map[string]struct{}{
	"monday":    {},
	"tuesday":   {},
	"wednesday": {},
	"thursday":  {},
	"friday":    {},
	"saturday":  {},
	"sunday":    {},
}

// parseClock converts an "HH:MM" wall-clock value to minutes since midnight.
func parseClock(value string) (int, error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, ErrInvalidInput
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// intervalsOverlap applies the half-open overlap rule to two minute ranges:
// [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1. Back-to-back slots
// (e1 == s2) never conflict.
func intervalsOverlap(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// hasSlotConflict checks a candidate [start,end) against existing slots of
// the same trainer and day. Callers already exclude the record being updated.
func hasSlotConflict(startMin, endMin int, existing []models.TrainerAvailability) (bool, error) {
	for _, slot := range existing {
		otherStart, err := parseClock(slot.StartTime)
		if err != nil {
			return false, err
		}
		otherEnd, err := parseClock(slot.EndTime)
		if err != nil {
			return false, err
		}
		if intervalsOverlap(startMin, endMin, otherStart, otherEnd) {
			return true, nil
		}
	}
	return false, nil
}

type availabilityRepo interface {
	Create(ctx context.Context, input repository.CreateAvailabilityInput) (*models.TrainerAvailability, error)
	GetByID(ctx context.Context, slotID int64) (*models.TrainerAvailability, error)
	Update(ctx context.Context, slotID int64, input repository.UpdateAvailabilityInput) (*models.TrainerAvailability, error)
	ListForTrainerDay(ctx context.Context, trainerProfileID int64, dayOfWeek string, excludeID int64) ([]models.TrainerAvailability, error)
	ListForTrainer(ctx context.Context, trainerProfileID int64) ([]models.TrainerAvailability, error)
}

type trainerProfileReader interface {
	GetByID(ctx context.Context, profileID int64) (*models.TrainerProfile, error)
	GetByUserID(ctx context.Context, userID int64) (*models.TrainerProfile, error)
}

type AvailabilityService struct {
	availabilityRepo availabilityRepo
	trainerRepo      trainerProfileReader
}

func NewAvailabilityService(
	availabilityRepo availabilityRepo,
	trainerRepo trainerProfileReader,
) *AvailabilityService {
	return &AvailabilityService{
		availabilityRepo: availabilityRepo,
		trainerRepo:      trainerRepo,
	}
}

type AvailabilityInput struct {
	DayOfWeek   string
	StartTime   string
	EndTime     string
	IsAvailable *bool
}

func (s *AvailabilityService) Create(
	ctx context.Context,
	actorUserID int64,
	role string,
	input AvailabilityInput,
) (*models.TrainerAvailability, error) {
	day := strings.ToLower(strings.TrimSpace(input.DayOfWeek))
	if _, ok := weekdays[day]; !ok {
		return nil, ErrInvalidInput
	}

	startMin, endMin, err := parseSlotBounds(input.StartTime, input.EndTime)
	if err != nil {
		return nil, err
	}

	profile, err := s.trainerRepo.GetByUserID(ctx, actorUserID)
	if err != nil {
		return nil, err
	}

	existing, err := s.availabilityRepo.ListForTrainerDay(ctx, profile.ID, day, 0)
	if err != nil {
		return nil, err
	}
	conflict, err := hasSlotConflict(startMin, endMin, existing)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrConflict
	}

	isAvailable := true
	if input.IsAvailable != nil {
		isAvailable = *input.IsAvailable
	}

	return s.availabilityRepo.Create(ctx, repository.CreateAvailabilityInput{
		TrainerProfileID: profile.ID,
		DayOfWeek:        day,
		StartTime:        strings.TrimSpace(input.StartTime),
		EndTime:          strings.TrimSpace(input.EndTime),
		IsAvailable:      isAvailable,
	})
}

func (s *AvailabilityService) Update(
	ctx context.Context,
	actorUserID int64,
	role string,
	slotID int64,
	input AvailabilityInput,
) (*models.TrainerAvailability, error) {
	slot, err := s.availabilityRepo.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}

	if role != "admin" {
		profile, err := s.trainerRepo.GetByUserID(ctx, actorUserID)
		if err != nil {
			return nil, err
		}
		if profile.ID != slot.TrainerProfileID {
			return nil, ErrForbidden
		}
	}

	day := slot.DayOfWeek
	if strings.TrimSpace(input.DayOfWeek) != "" {
		day = strings.ToLower(strings.TrimSpace(input.DayOfWeek))
		if _, ok := weekdays[day]; !ok {
			return nil, ErrInvalidInput
		}
	}

	startTime := slot.StartTime
	if strings.TrimSpace(input.StartTime) != "" {
		startTime = strings.TrimSpace(input.StartTime)
	}
	endTime := slot.EndTime
	if strings.TrimSpace(input.EndTime) != "" {
		endTime = strings.TrimSpace(input.EndTime)
	}

	startMin, endMin, err := parseSlotBounds(startTime, endTime)
	if err != nil {
		return nil, err
	}

	// Re-check against every other slot of the trainer on the (possibly new)
	// day, excluding this record itself.
	existing, err := s.availabilityRepo.ListForTrainerDay(ctx, slot.TrainerProfileID, day, slot.ID)
	if err != nil {
		return nil, err
	}
	conflict, err := hasSlotConflict(startMin, endMin, existing)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrConflict
	}

	return s.availabilityRepo.Update(ctx, slotID, repository.UpdateAvailabilityInput{
		DayOfWeek:   &day,
		StartTime:   &startTime,
		EndTime:     &endTime,
		IsAvailable: input.IsAvailable,
	})
}

func (s *AvailabilityService) ListForTrainer(ctx context.Context, trainerProfileID int64) ([]models.TrainerAvailability, error) {
	if _, err := s.trainerRepo.GetByID(ctx, trainerProfileID); err != nil {
		return nil, err
	}
	return s.availabilityRepo.ListForTrainer(ctx, trainerProfileID)
}

// parseSlotBounds validates time ordering before any conflict checking:
// a malformed or inverted range is an input error, not a conflict.
func parseSlotBounds(startTime, endTime string) (int, int, error) {
	startMin, err := parseClock(startTime)
	if err != nil {
		return 0, 0, err
	}
	endMin, err := parseClock(endTime)
	if err != nil {
		return 0, 0, err
	}
	if endMin <= startMin {
		return 0, 0, ErrInvalidInput
	}
	return startMin, endMin, nil
}
