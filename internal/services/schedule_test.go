package services

import (
	"context"
	"testing"

	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/repository"
)

func TestIntervalsOverlap(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 int
		want           bool
	}{
		{"identical", 540, 600, 540, 600, true},
		{"partial overlap", 540, 600, 570, 630, true},
		{"contained", 540, 660, 570, 600, true},
		{"back to back", 540, 600, 600, 660, false},
		{"back to back reversed", 600, 660, 540, 600, false},
		{"disjoint", 540, 600, 720, 780, false},
		{"one minute overlap", 540, 601, 600, 660, true},
	}

	for _, tc := range cases {
		if got := intervalsOverlap(tc.s1, tc.e1, tc.s2, tc.e2); got != tc.want {
			t.Errorf("%s: intervalsOverlap(%d,%d,%d,%d) = %v, want %v",
				tc.name, tc.s1, tc.e1, tc.s2, tc.e2, got, tc.want)
		}
	}
}

func TestParseClock(t *testing.T) {
	minutes, err := parseClock("09:30")
	if err != nil {
		t.Fatalf("parseClock(09:30): %v", err)
	}
	if minutes != 570 {
		t.Fatalf("expected 570 minutes, got %d", minutes)
	}

	if _, err := parseClock("25:00"); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for 25:00, got %v", err)
	}
	if _, err := parseClock("9am"); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for 9am, got %v", err)
	}
}

func TestParseSlotBoundsRejectsInvertedRange(t *testing.T) {
	if _, _, err := parseSlotBounds("10:00", "09:00"); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for inverted range, got %v", err)
	}
	if _, _, err := parseSlotBounds("10:00", "10:00"); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for zero-length range, got %v", err)
	}
}

type stubAvailabilityRepo struct {
	slots   []models.TrainerAvailability
	created *repository.CreateAvailabilityInput
}

func (s *stubAvailabilityRepo) Create(_ context.Context, input repository.CreateAvailabilityInput) (*models.TrainerAvailability, error) {
	s.created = &input
	return &models.TrainerAvailability{
		ID:               101,
		TrainerProfileID: input.TrainerProfileID,
		DayOfWeek:        input.DayOfWeek,
		StartTime:        input.StartTime,
		EndTime:          input.EndTime,
		IsAvailable:      input.IsAvailable,
	}, nil
}

func (s *stubAvailabilityRepo) GetByID(_ context.Context, slotID int64) (*models.TrainerAvailability, error) {
	for i := range s.slots {
		if s.slots[i].ID == slotID {
			return &s.slots[i], nil
		}
	}
	return nil, ErrInvalidInput
}

func (s *stubAvailabilityRepo) Update(_ context.Context, slotID int64, input repository.UpdateAvailabilityInput) (*models.TrainerAvailability, error) {
	slot, err := s.GetByID(context.Background(), slotID)
	if err != nil {
		return nil, err
	}
	updated := *slot
	if input.DayOfWeek != nil {
		updated.DayOfWeek = *input.DayOfWeek
	}
	if input.StartTime != nil {
		updated.StartTime = *input.StartTime
	}
	if input.EndTime != nil {
		updated.EndTime = *input.EndTime
	}
	return &updated, nil
}

func (s *stubAvailabilityRepo) ListForTrainerDay(_ context.Context, trainerProfileID int64, dayOfWeek string, excludeID int64) ([]models.TrainerAvailability, error) {
	var out []models.TrainerAvailability
	for _, slot := range s.slots {
		if slot.TrainerProfileID == trainerProfileID && slot.DayOfWeek == dayOfWeek && slot.ID != excludeID {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (s *stubAvailabilityRepo) ListForTrainer(_ context.Context, trainerProfileID int64) ([]models.TrainerAvailability, error) {
	return s.slots, nil
}

type stubTrainerReader struct {
	profile models.TrainerProfile
}

func (s *stubTrainerReader) GetByID(_ context.Context, profileID int64) (*models.TrainerProfile, error) {
	return &s.profile, nil
}

func (s *stubTrainerReader) GetByUserID(_ context.Context, userID int64) (*models.TrainerProfile, error) {
	return &s.profile, nil
}

func TestAvailabilityCreateRejectsOverlappingSlot(t *testing.T) {
	repo := &stubAvailabilityRepo{
		slots: []models.TrainerAvailability{
			{ID: 1, TrainerProfileID: 7, DayOfWeek: "monday", StartTime: "09:00", EndTime: "11:00"},
		},
	}
	service := NewAvailabilityService(repo, &stubTrainerReader{profile: models.TrainerProfile{ID: 7, UserID: 42}})

	_, err := service.Create(context.Background(), 42, "trainer", AvailabilityInput{
		DayOfWeek: "Monday",
		StartTime: "10:00",
		EndTime:   "12:00",
	})
	if err != ErrConflict {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAvailabilityCreateAllowsBackToBackSlot(t *testing.T) {
	repo := &stubAvailabilityRepo{
		slots: []models.TrainerAvailability{
			{ID: 1, TrainerProfileID: 7, DayOfWeek: "monday", StartTime: "09:00", EndTime: "11:00"},
		},
	}
	service := NewAvailabilityService(repo, &stubTrainerReader{profile: models.TrainerProfile{ID: 7, UserID: 42}})

	slot, err := service.Create(context.Background(), 42, "trainer", AvailabilityInput{
		DayOfWeek: "monday",
		StartTime: "11:00",
		EndTime:   "13:00",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if slot.DayOfWeek != "monday" || slot.StartTime != "11:00" {
		t.Fatalf("unexpected slot %+v", slot)
	}
	if !repo.created.IsAvailable {
		t.Fatalf("expected slot to default to available")
	}
}

func TestAvailabilityCreateAllowsSameWindowOnOtherDay(t *testing.T) {
	repo := &stubAvailabilityRepo{
		slots: []models.TrainerAvailability{
			{ID: 1, TrainerProfileID: 7, DayOfWeek: "monday", StartTime: "09:00", EndTime: "11:00"},
		},
	}
	service := NewAvailabilityService(repo, &stubTrainerReader{profile: models.TrainerProfile{ID: 7, UserID: 42}})

	if _, err := service.Create(context.Background(), 42, "trainer", AvailabilityInput{
		DayOfWeek: "tuesday",
		StartTime: "09:00",
		EndTime:   "11:00",
	}); err != nil {
		t.Fatalf("Create on another day: %v", err)
	}
}

func TestAvailabilityUpdateExcludesSelfFromConflictCheck(t *testing.T) {
	repo := &stubAvailabilityRepo{
		slots: []models.TrainerAvailability{
			{ID: 1, TrainerProfileID: 7, DayOfWeek: "monday", StartTime: "09:00", EndTime: "11:00"},
		},
	}
	service := NewAvailabilityService(repo, &stubTrainerReader{profile: models.TrainerProfile{ID: 7, UserID: 42}})

	// Widening the slot overlaps only its own previous window.
	updated, err := service.Update(context.Background(), 42, "trainer", 1, AvailabilityInput{
		StartTime: "08:00",
		EndTime:   "12:00",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.StartTime != "08:00" || updated.EndTime != "12:00" {
		t.Fatalf("unexpected updated slot %+v", updated)
	}
}

func TestAvailabilityUpdateRejectsForeignSlot(t *testing.T) {
	repo := &stubAvailabilityRepo{
		slots: []models.TrainerAvailability{
			{ID: 1, TrainerProfileID: 99, DayOfWeek: "monday", StartTime: "09:00", EndTime: "11:00"},
		},
	}
	service := NewAvailabilityService(repo, &stubTrainerReader{profile: models.TrainerProfile{ID: 7, UserID: 42}})

	if _, err := service.Update(context.Background(), 42, "trainer", 1, AvailabilityInput{
		StartTime: "08:00",
		EndTime:   "10:00",
	}); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAvailabilityCreateRejectsUnknownDay(t *testing.T) {
	service := NewAvailabilityService(&stubAvailabilityRepo{}, &stubTrainerReader{profile: models.TrainerProfile{ID: 7}})

	if _, err := service.Create(context.Background(), 42, "trainer", AvailabilityInput{
		DayOfWeek: "someday",
		StartTime: "09:00",
		EndTime:   "10:00",
	}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
