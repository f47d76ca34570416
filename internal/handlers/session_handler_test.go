package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/services"
)

type stubSessionService struct {
	bookResult         *models.SessionDetail
	bookErr            error
	availableResult    bool
	availableErr       error
	listResult         []models.SessionDetail
	listErr            error
	getResult          *models.SessionDetail
	getErr             error
	updateStatusResult *models.SessionDetail
	updateStatusErr    error
	cancelResult       *models.SessionDetail
	cancelErr          error
	lastActorID        int64
	lastRole           string
	lastSessionID      int64
	lastStatus         string
	lastReason         string
	lastBookInput      services.BookSessionInput
	lastTrainerID      int64
	lastDuration       int
}

func (s *stubSessionService) Book(_ context.Context, actorUserID int64, role string, input services.BookSessionInput) (*models.SessionDetail, error) {
	s.lastActorID = actorUserID
	s.lastRole = role
	s.lastBookInput = input
	return s.bookResult, s.bookErr
}

func (s *stubSessionService) CheckAvailability(_ context.Context, trainerProfileID int64, _ time.Time, durationMinutes int) (bool, error) {
	s.lastTrainerID = trainerProfileID
	s.lastDuration = durationMinutes
	return s.availableResult, s.availableErr
}

func (s *stubSessionService) List(_ context.Context, actorUserID int64, role string, _ services.SessionListInput) ([]models.SessionDetail, error) {
	s.lastActorID = actorUserID
	s.lastRole = role
	return s.listResult, s.listErr
}

func (s *stubSessionService) Get(_ context.Context, actorUserID int64, role string, sessionID int64) (*models.SessionDetail, error) {
	s.lastActorID = actorUserID
	s.lastRole = role
	s.lastSessionID = sessionID
	return s.getResult, s.getErr
}

func (s *stubSessionService) UpdateStatus(_ context.Context, actorUserID int64, role string, sessionID int64, requestedStatus string) (*models.SessionDetail, error) {
	s.lastActorID = actorUserID
	s.lastRole = role
	s.lastSessionID = sessionID
	s.lastStatus = requestedStatus
	return s.updateStatusResult, s.updateStatusErr
}

func (s *stubSessionService) Cancel(_ context.Context, actorUserID int64, role string, sessionID int64, reason string) (*models.SessionDetail, error) {
	s.lastActorID = actorUserID
	s.lastRole = role
	s.lastSessionID = sessionID
	s.lastReason = reason
	return s.cancelResult, s.cancelErr
}

func (s *stubSessionService) Update(_ context.Context, actorUserID int64, role string, sessionID int64, _ services.UpdateSessionInput) (*models.SessionDetail, error) {
	s.lastActorID = actorUserID
	s.lastRole = role
	s.lastSessionID = sessionID
	return s.getResult, s.getErr
}

func (s *stubSessionService) Rate(_ context.Context, actorUserID int64, sessionID int64, _ int, _ *string) (*models.SessionDetail, error) {
	s.lastActorID = actorUserID
	s.lastSessionID = sessionID
	return s.getResult, s.getErr
}

func (s *stubSessionService) Pay(_ context.Context, actorUserID int64, role string, sessionID int64) (*models.SessionDetail, error) {
	s.lastActorID = actorUserID
	s.lastRole = role
	s.lastSessionID = sessionID
	return s.getResult, s.getErr
}

func newSessionTestApp(service *stubSessionService, role string) *fiber.App {
	handler := &SessionHandler{service: service}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", role)
		c.Locals("user_id", "42")
		return c.Next()
	})
	app.Post("/api/v1/sessions/book", handler.Book)
	app.Get("/api/v1/sessions/availability", handler.CheckAvailability)
	app.Get("/api/v1/sessions", handler.List)
	app.Put("/api/v1/sessions/:id/status", handler.UpdateStatus)
	app.Post("/api/v1/sessions/:id/cancel", handler.Cancel)
	return app
}

func TestBookSessionReturnsCreatedSession(t *testing.T) {
	service := &stubSessionService{
		bookResult: &models.SessionDetail{
			TrainerSession: models.TrainerSession{
				ID:               91,
				TrainerProfileID: 7,
				TraineeID:        42,
				Status:           models.SessionStatusScheduled,
				DurationMinutes:  60,
			},
			Payment: &models.Payment{Status: models.PaymentStatusPending},
		},
	}
	app := newSessionTestApp(service, "member")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/book", strings.NewReader(`{
		"trainer_profile_id": 7,
		"membership_id": 3,
		"scheduled_at": "2026-09-15T09:00:00Z",
		"duration_minutes": 60,
		"notes": "focus on footwork"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastActorID != 42 {
		t.Fatalf("expected actor id 42, got %d", service.lastActorID)
	}
	if service.lastBookInput.TrainerProfileID != 7 || service.lastBookInput.MembershipID != 3 {
		t.Fatalf("unexpected book input %+v", service.lastBookInput)
	}
}

func TestBookSessionForwardsTrainerRoleAndTrainee(t *testing.T) {
	service := &stubSessionService{
		bookResult: &models.SessionDetail{
			TrainerSession: models.TrainerSession{
				ID:               92,
				TrainerProfileID: 7,
				TraineeID:        77,
				Status:           models.SessionStatusScheduled,
			},
		},
	}
	app := newSessionTestApp(service, "trainer")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/book", strings.NewReader(`{
		"trainer_profile_id": 7,
		"membership_id": 3,
		"trainee_user_id": 77,
		"scheduled_at": "2026-09-15T09:00:00Z",
		"duration_minutes": 60
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastRole != "trainer" || service.lastActorID != 42 {
		t.Fatalf("unexpected caller: actor %d role %q", service.lastActorID, service.lastRole)
	}
	if service.lastBookInput.TraineeID == nil || *service.lastBookInput.TraineeID != 77 {
		t.Fatalf("expected trainee 77 forwarded, got %+v", service.lastBookInput.TraineeID)
	}
}

func TestBookSessionMapsConflictTo409(t *testing.T) {
	service := &stubSessionService{bookErr: services.ErrConflict}
	app := newSessionTestApp(service, "member")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/book", strings.NewReader(`{
		"trainer_profile_id": 7,
		"membership_id": 3,
		"scheduled_at": "2026-09-15T09:00:00Z",
		"duration_minutes": 60
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestBookSessionRejectsBadTimestamp(t *testing.T) {
	service := &stubSessionService{}
	app := newSessionTestApp(service, "member")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/book", strings.NewReader(`{
		"trainer_profile_id": 7,
		"membership_id": 3,
		"scheduled_at": "tomorrow",
		"duration_minutes": 60
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCheckAvailabilityParsesQuery(t *testing.T) {
	service := &stubSessionService{availableResult: true}
	app := newSessionTestApp(service, "member")

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/sessions/availability?trainer_id=7&time=2026-09-15T09:00:00Z&duration_minutes=45", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Available bool `json:"available"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Available {
		t.Fatalf("expected available true")
	}
	if service.lastTrainerID != 7 || service.lastDuration != 45 {
		t.Fatalf("unexpected query parse: trainer %d duration %d", service.lastTrainerID, service.lastDuration)
	}
}

func TestUpdateStatusMapsStateTransitionTo422(t *testing.T) {
	service := &stubSessionService{updateStatusErr: services.ErrInvalidStateTransition}
	app := newSessionTestApp(service, "trainer")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/sessions/91/status", strings.NewReader(`{"status": "completed"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if service.lastSessionID != 91 || service.lastStatus != "completed" {
		t.Fatalf("unexpected call: session %d status %q", service.lastSessionID, service.lastStatus)
	}
}

func TestCancelSessionForwardsReason(t *testing.T) {
	service := &stubSessionService{
		cancelResult: &models.SessionDetail{
			TrainerSession: models.TrainerSession{ID: 91, Status: models.SessionStatusCancelled},
		},
	}
	app := newSessionTestApp(service, "member")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/91/cancel", strings.NewReader(`{"reason": "injury"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastReason != "injury" {
		t.Fatalf("expected reason to be forwarded, got %q", service.lastReason)
	}
	if service.lastRole != "member" {
		t.Fatalf("expected member role, got %q", service.lastRole)
	}
}
