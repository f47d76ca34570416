package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/services"
)

type stubMembershipService struct {
	purchaseResult *services.MembershipDetail
	purchaseErr    error
	listResult     []models.Membership
	listErr        error
	getResult      *models.Membership
	getErr         error
	cancelResult   *models.Membership
	cancelErr      error
	lastActorID    int64
	lastRole       string
	lastID         int64
	lastInput      services.PurchaseMembershipInput
}

func (s *stubMembershipService) Purchase(_ context.Context, userID int64, input services.PurchaseMembershipInput) (*services.MembershipDetail, error) {
	s.lastActorID = userID
	s.lastInput = input
	return s.purchaseResult, s.purchaseErr
}

func (s *stubMembershipService) ListMine(_ context.Context, userID int64) ([]models.Membership, error) {
	s.lastActorID = userID
	return s.listResult, s.listErr
}

func (s *stubMembershipService) Get(_ context.Context, actorUserID int64, role string, membershipID int64) (*models.Membership, error) {
	s.lastActorID = actorUserID
	s.lastRole = role
	s.lastID = membershipID
	return s.getResult, s.getErr
}

func (s *stubMembershipService) Cancel(_ context.Context, actorUserID int64, role string, membershipID int64) (*models.Membership, error) {
	s.lastActorID = actorUserID
	s.lastRole = role
	s.lastID = membershipID
	return s.cancelResult, s.cancelErr
}

func newMembershipTestApp(service *stubMembershipService, role string) *fiber.App {
	handler := &MembershipHandler{service: service}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", role)
		c.Locals("user_id", "42")
		return c.Next()
	})
	app.Post("/api/v1/memberships", handler.Purchase)
	app.Get("/api/v1/memberships", handler.ListMine)
	app.Get("/api/v1/memberships/:id", handler.Get)
	app.Post("/api/v1/memberships/:id/cancel", handler.Cancel)
	return app
}

func TestPurchaseMembershipReturnsCreated(t *testing.T) {
	service := &stubMembershipService{
		purchaseResult: &services.MembershipDetail{
			Membership: models.Membership{
				ID:        3,
				UserID:    42,
				SportID:   1,
				TierID:    2,
				Status:    "active",
				StartsAt:  time.Now(),
				ExpiresAt: time.Now().AddDate(0, 1, 0),
			},
			Payment: &models.Payment{Status: models.PaymentStatusPaid},
		},
	}
	app := newMembershipTestApp(service, "member")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/memberships", strings.NewReader(`{
		"sport_id": 1,
		"tier_id": 2
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
		t.Fatalf("expected purchaser 42, got %d", service.lastActorID)
	}
	if service.lastInput.SportID != 1 || service.lastInput.TierID != 2 {
		t.Fatalf("unexpected input %+v", service.lastInput)
	}
}

func TestPurchaseMembershipRejectsTrainerRole(t *testing.T) {
	service := &stubMembershipService{}
	app := newMembershipTestApp(service, "trainer")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/memberships", strings.NewReader(`{
		"sport_id": 1,
		"tier_id": 2
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

func TestPurchaseMembershipRejectsMissingTier(t *testing.T) {
	service := &stubMembershipService{}
	app := newMembershipTestApp(service, "member")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/memberships", strings.NewReader(`{
		"sport_id": 1
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

func TestGetMembershipMapsForbiddenTo403(t *testing.T) {
	service := &stubMembershipService{getErr: services.ErrForbidden}
	app := newMembershipTestApp(service, "member")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/memberships/3", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if service.lastID != 3 {
		t.Fatalf("expected membership id 3, got %d", service.lastID)
	}
}

func TestCancelMembershipMapsRepeatTo422(t *testing.T) {
	service := &stubMembershipService{cancelErr: services.ErrInvalidStateTransition}
	app := newMembershipTestApp(service, "member")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/memberships/3/cancel", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if service.lastActorID != 42 || service.lastRole != "member" {
		t.Fatalf("unexpected call: actor %d role %q", service.lastActorID, service.lastRole)
	}
}
