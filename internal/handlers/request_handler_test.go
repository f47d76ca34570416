package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/services"
)

type stubRequestService struct {
	createResult  *models.TrainerRequest
	createErr     error
	acceptResult  *models.TrainerRequest
	acceptErr     error
	declineResult *models.TrainerRequest
	declineErr    error
	cancelResult  *models.TrainerRequest
	cancelErr     error
	listResult    []models.TrainerRequest
	listTotal     int
	listErr       error
	lastActorID   int64
	lastRequestID int64
	lastInput     services.CreateRequestInput
}

func (s *stubRequestService) Create(_ context.Context, requesterID int64, input services.CreateRequestInput) (*models.TrainerRequest, error) {
	s.lastActorID = requesterID
	s.lastInput = input
	return s.createResult, s.createErr
}

func (s *stubRequestService) ListIncoming(_ context.Context, actorUserID int64, offset, limit int) ([]models.TrainerRequest, int, error) {
	s.lastActorID = actorUserID
	return s.listResult, s.listTotal, s.listErr
}

func (s *stubRequestService) ListMine(_ context.Context, requesterID int64, offset, limit int) ([]models.TrainerRequest, int, error) {
	s.lastActorID = requesterID
	return s.listResult, s.listTotal, s.listErr
}

func (s *stubRequestService) Get(_ context.Context, actorUserID int64, role string, requestID int64) (*models.TrainerRequest, error) {
	s.lastActorID = actorUserID
	s.lastRequestID = requestID
	return s.createResult, s.createErr
}

func (s *stubRequestService) Accept(_ context.Context, actorUserID int64, requestID int64) (*models.TrainerRequest, error) {
	s.lastActorID = actorUserID
	s.lastRequestID = requestID
	return s.acceptResult, s.acceptErr
}

func (s *stubRequestService) Decline(_ context.Context, actorUserID int64, requestID int64) (*models.TrainerRequest, error) {
	s.lastActorID = actorUserID
	s.lastRequestID = requestID
	return s.declineResult, s.declineErr
}

func (s *stubRequestService) Cancel(_ context.Context, actorUserID int64, requestID int64) (*models.TrainerRequest, error) {
	s.lastActorID = actorUserID
	s.lastRequestID = requestID
	return s.cancelResult, s.cancelErr
}

func newRequestTestApp(service *stubRequestService, role string) *fiber.App {
	handler := &RequestHandler{service: service}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", role)
		c.Locals("user_id", "42")
		return c.Next()
	})
	app.Post("/api/v1/requests", handler.Create)
	app.Get("/api/v1/requests/incoming", handler.ListIncoming)
	app.Post("/api/v1/requests/:id/accept", handler.Accept)
	app.Post("/api/v1/requests/:id/decline", handler.Decline)
	app.Post("/api/v1/requests/:id/cancel", handler.Cancel)
	return app
}

func TestCreateRequestReturnsCreated(t *testing.T) {
	service := &stubRequestService{
		createResult: &models.TrainerRequest{
			ID:            11,
			ReferenceCode: "TR-A1B2C3D4",
			RequestType:   models.RequestTypeOpen,
			Status:        models.RequestStatusPending,
		},
	}
	app := newRequestTestApp(service, "member")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(`{
		"membership_id": 3,
		"service_id": 2,
		"request_type": "open_request",
		"preferred_slots": [{"day": "monday", "start": "09:00", "end": "10:00"}],
		"message": "looking for weekly drills"
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
		t.Fatalf("expected requester 42, got %d", service.lastActorID)
	}
	if service.lastInput.RequestType != models.RequestTypeOpen || len(service.lastInput.PreferredSlots) != 1 {
		t.Fatalf("unexpected input %+v", service.lastInput)
	}
}

func TestCreateRequestRejectsUnknownType(t *testing.T) {
	service := &stubRequestService{}
	app := newRequestTestApp(service, "member")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(`{
		"membership_id": 3,
		"service_id": 2,
		"request_type": "broadcast"
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

func TestCreateRequestRejectsTrainerRole(t *testing.T) {
	service := &stubRequestService{}
	app := newRequestTestApp(service, "trainer")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(`{
		"membership_id": 3,
		"service_id": 2,
		"request_type": "open_request"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestAcceptRequestMapsUnavailableTo409(t *testing.T) {
	service := &stubRequestService{acceptErr: services.ErrRequestUnavailable}
	app := newRequestTestApp(service, "trainer")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests/11/accept", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	if service.lastRequestID != 11 {
		t.Fatalf("expected request id 11, got %d", service.lastRequestID)
	}
}

func TestAcceptRequestMapsMismatchTo422(t *testing.T) {
	service := &stubRequestService{acceptErr: services.ErrTrainerMismatch}
	app := newRequestTestApp(service, "trainer")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests/11/accept", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestAcceptRequestRejectsMemberRole(t *testing.T) {
	service := &stubRequestService{}
	app := newRequestTestApp(service, "member")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests/11/accept", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestListIncomingRequiresTrainer(t *testing.T) {
	service := &stubRequestService{
		listResult: []models.TrainerRequest{{ID: 1}},
		listTotal:  1,
	}

	app := newRequestTestApp(service, "trainer")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/requests/incoming", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for trainer, got %d", resp.StatusCode)
	}

	memberApp := newRequestTestApp(service, "member")
	req = httptest.NewRequest(http.MethodGet, "/api/v1/requests/incoming", nil)
	resp, err = memberApp.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for member, got %d", resp.StatusCode)
	}
}

func TestCancelRequestForwardsActor(t *testing.T) {
	service := &stubRequestService{
		cancelResult: &models.TrainerRequest{ID: 11, Status: models.RequestStatusCancelled},
	}
	app := newRequestTestApp(service, "member")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests/11/cancel", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastActorID != 42 || service.lastRequestID != 11 {
		t.Fatalf("unexpected call: actor %d request %d", service.lastActorID, service.lastRequestID)
	}
}
