package services

import (
	"testing"
	"time"

	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
)

func TestNormalizeSessionStatus(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"completed", models.SessionStatusCompleted},
		{"complete", models.SessionStatusCompleted},
		{" Completed ", models.SessionStatusCompleted},
		{"no_show", models.SessionStatusNoShow},
		{"no-show", models.SessionStatusNoShow},
		{"noshow", models.SessionStatusNoShow},
	}

	for _, tc := range cases {
		got, err := normalizeSessionStatus(tc.input)
		if err != nil {
			t.Errorf("normalizeSessionStatus(%q): %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("normalizeSessionStatus(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}

	// Cancellation has its own endpoint that records the reason; the status
	// endpoint refuses it.
	for _, input := range []string{"cancelled", "canceled", "cancel", "scheduled", "done"} {
		if _, err := normalizeSessionStatus(input); err != ErrInvalidStatus {
			t.Fatalf("expected ErrInvalidStatus for %q, got %v", input, err)
		}
	}
}

func TestValidateSessionTransition(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	past := &models.TrainerSession{
		Status:          models.SessionStatusScheduled,
		ScheduledAt:     now.Add(-2 * time.Hour),
		DurationMinutes: 60,
	}
	running := &models.TrainerSession{
		Status:          models.SessionStatusScheduled,
		ScheduledAt:     now.Add(-30 * time.Minute),
		DurationMinutes: 60,
	}
	future := &models.TrainerSession{
		Status:          models.SessionStatusScheduled,
		ScheduledAt:     now.Add(2 * time.Hour),
		DurationMinutes: 60,
	}

	cases := []struct {
		name    string
		role    string
		session *models.TrainerSession
		next    string
		want    error
	}{
		{"trainer completes ended session", "trainer", past, models.SessionStatusCompleted, nil},
		{"admin completes ended session", "admin", past, models.SessionStatusCompleted, nil},
		{"member cannot complete", "member", past, models.SessionStatusCompleted, ErrForbidden},
		{"cannot complete running session", "trainer", running, models.SessionStatusCompleted, ErrInvalidStateTransition},
		{"cannot complete future session", "trainer", future, models.SessionStatusCompleted, ErrInvalidStateTransition},
		{"trainer flags no-show after start", "trainer", running, models.SessionStatusNoShow, nil},
		{"no-show before start rejected", "trainer", future, models.SessionStatusNoShow, ErrInvalidStateTransition},
		{"member cannot flag no-show", "member", running, models.SessionStatusNoShow, ErrForbidden},
		{"cancelled not settable here", "trainer", future, models.SessionStatusCancelled, ErrInvalidStatus},
		{"unknown status rejected", "trainer", past, "archived", ErrInvalidStatus},
	}

	for _, tc := range cases {
		if got := validateSessionTransition(tc.role, tc.session, tc.next, now); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestValidateSessionTransitionTerminalStates(t *testing.T) {
	now := time.Now()
	for _, status := range []string{
		models.SessionStatusCompleted,
		models.SessionStatusCancelled,
		models.SessionStatusNoShow,
	} {
		session := &models.TrainerSession{
			Status:          status,
			ScheduledAt:     now.Add(-2 * time.Hour),
			DurationMinutes: 60,
		}
		if err := validateSessionTransition("admin", session, models.SessionStatusCompleted, now); err != ErrInvalidStateTransition {
			t.Errorf("expected ErrInvalidStateTransition from %s, got %v", status, err)
		}
	}
}

func TestValidateSessionUpdatePermissions(t *testing.T) {
	at := time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC)
	duration := 45
	fee := 80.0
	location := "court 2"
	note := "bring rackets"

	cases := []struct {
		name  string
		role  string
		input UpdateSessionInput
		want  error
	}{
		{"trainer reschedules", "trainer", UpdateSessionInput{ScheduledAt: &at}, nil},
		{"admin reschedules", "admin", UpdateSessionInput{ScheduledAt: &at, DurationMinutes: &duration}, nil},
		{"member cannot reschedule", "member", UpdateSessionInput{ScheduledAt: &at}, ErrForbidden},
		{"member cannot change duration", "member", UpdateSessionInput{DurationMinutes: &duration}, ErrForbidden},
		{"member cannot change fee", "member", UpdateSessionInput{FeeAmount: &fee}, ErrForbidden},
		{"member cannot change location", "member", UpdateSessionInput{Location: &location}, ErrForbidden},
		{"trainer changes fee", "trainer", UpdateSessionInput{FeeAmount: &fee}, nil},
		{"member writes own notes", "member", UpdateSessionInput{Notes: &note}, nil},
		{"trainer cannot write trainee notes", "trainer", UpdateSessionInput{Notes: &note}, ErrForbidden},
		{"trainer writes trainer notes", "trainer", UpdateSessionInput{TrainerNotes: &note}, nil},
		{"member cannot write trainer notes", "member", UpdateSessionInput{TrainerNotes: &note}, ErrForbidden},
	}

	for _, tc := range cases {
		if got := validateSessionUpdatePermissions(tc.role, tc.input); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestResolveBookingTrainee(t *testing.T) {
	self := int64(42)
	other := int64(77)

	if got, err := resolveBookingTrainee(42, "member", nil); err != nil || got != 42 {
		t.Fatalf("member booking for self: got %d, %v", got, err)
	}
	if got, err := resolveBookingTrainee(42, "member", &self); err != nil || got != 42 {
		t.Fatalf("member naming self: got %d, %v", got, err)
	}
	if _, err := resolveBookingTrainee(42, "member", &other); err != ErrForbidden {
		t.Fatalf("member naming someone else: expected ErrForbidden, got %v", err)
	}
	if got, err := resolveBookingTrainee(9, "trainer", &other); err != nil || got != 77 {
		t.Fatalf("trainer booking for trainee: got %d, %v", got, err)
	}
	if got, err := resolveBookingTrainee(1, "admin", &other); err != nil || got != 77 {
		t.Fatalf("admin booking for trainee: got %d, %v", got, err)
	}
	if _, err := resolveBookingTrainee(9, "trainer", nil); err != ErrInvalidInput {
		t.Fatalf("trainer without trainee: expected ErrInvalidInput, got %v", err)
	}
	if _, err := resolveBookingTrainee(1, "admin", nil); err != ErrInvalidInput {
		t.Fatalf("admin without trainee: expected ErrInvalidInput, got %v", err)
	}
}
