package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/repository"
)

type stubRequestStore struct {
	request    *models.TrainerRequest
	lastCreate repository.CreateRequestInput
	lastStatus string
}

func (s *stubRequestStore) Create(_ context.Context, input repository.CreateRequestInput) (*models.TrainerRequest, error) {
	s.lastCreate = input
	return &models.TrainerRequest{
		ID:              101,
		ReferenceCode:   input.ReferenceCode,
		RequesterID:     input.RequesterID,
		MembershipID:    input.MembershipID,
		SportID:         input.SportID,
		TierID:          input.TierID,
		ServiceID:       input.ServiceID,
		RequestType:     input.RequestType,
		TargetTrainerID: input.TargetTrainerID,
		Status:          models.RequestStatusPending,
		ExpiresAt:       input.ExpiresAt,
	}, nil
}

func (s *stubRequestStore) GetByID(_ context.Context, _ int64) (*models.TrainerRequest, error) {
	return s.request, nil
}

func (s *stubRequestStore) ListIncoming(_ context.Context, _ int64, _, _ int) ([]models.TrainerRequest, int, error) {
	return nil, 0, nil
}

func (s *stubRequestStore) ListByRequester(_ context.Context, _ int64, _, _ int) ([]models.TrainerRequest, int, error) {
	return nil, 0, nil
}

func (s *stubRequestStore) UpdateStatusIfPending(_ context.Context, _ int64, status string) (*models.TrainerRequest, error) {
	s.lastStatus = status
	updated := *s.request
	updated.Status = status
	return &updated, nil
}

type stubMembershipReader struct {
	membership models.Membership
}

func (s *stubMembershipReader) GetByID(_ context.Context, _ int64) (*models.Membership, error) {
	membership := s.membership
	return &membership, nil
}

type stubServiceReader struct{}

func (s *stubServiceReader) GetByID(_ context.Context, serviceID int64) (*models.TrainerService, error) {
	return &models.TrainerService{ID: serviceID, Name: "drills"}, nil
}

type stubNotificationStore struct{}

func (s *stubNotificationStore) Create(_ context.Context, _ *models.Notification) error {
	return nil
}

func (s *stubNotificationStore) ListByUser(_ context.Context, _ int64, _ bool, _, _ int) ([]models.Notification, int, error) {
	return nil, 0, nil
}

func (s *stubNotificationStore) MarkRead(_ context.Context, _, _ int64) (*models.Notification, error) {
	return nil, nil
}

func newStubRequestService(store *stubRequestStore, memberships *stubMembershipReader, trainers *stubTrainerReader) *RequestService {
	return NewRequestService(
		nil,
		store,
		memberships,
		trainers,
		&stubServiceReader{},
		NewNotificationService(&stubNotificationStore{}, nil),
		nil,
	)
}

func activeStubMembership(userID, sportID, tierID int64) models.Membership {
	return models.Membership{
		ID:        3,
		UserID:    userID,
		SportID:   sportID,
		TierID:    tierID,
		Status:    "active",
		StartsAt:  time.Now().UTC().Add(-time.Hour),
		ExpiresAt: time.Now().UTC().Add(30 * 24 * time.Hour),
	}
}

func TestCreateRequestSnapshotsSportAndTier(t *testing.T) {
	store := &stubRequestStore{}
	memberships := &stubMembershipReader{membership: activeStubMembership(42, 4, 9)}
	service := newStubRequestService(store, memberships, &stubTrainerReader{})

	request, err := service.Create(context.Background(), 42, CreateRequestInput{
		MembershipID: 3,
		ServiceID:    2,
		RequestType:  models.RequestTypeOpen,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if store.lastCreate.SportID != 4 || store.lastCreate.TierID != 9 {
		t.Fatalf("expected sport 4 tier 9 copied from membership, got %+v", store.lastCreate)
	}
	if !strings.HasPrefix(store.lastCreate.ReferenceCode, "TR-") {
		t.Fatalf("expected TR- reference code, got %q", store.lastCreate.ReferenceCode)
	}
	if remaining := time.Until(store.lastCreate.ExpiresAt); remaining < 6*24*time.Hour || remaining > 8*24*time.Hour {
		t.Fatalf("expected roughly seven days of validity, got %v", remaining)
	}

	// A later change to the membership leaves the snapshot untouched.
	memberships.membership.SportID = 5
	memberships.membership.TierID = 1
	if request.SportID != 4 || request.TierID != 9 {
		t.Fatalf("expected request to keep the snapshotted sport and tier, got %+v", request)
	}
}

func TestCreateRequestRejectsMismatchedSpecificTrainer(t *testing.T) {
	target := int64(7)
	store := &stubRequestStore{}
	memberships := &stubMembershipReader{membership: activeStubMembership(42, 4, 9)}
	trainers := &stubTrainerReader{profile: models.TrainerProfile{ID: 7, UserID: 10, SportID: 4, TierID: 2}}
	service := newStubRequestService(store, memberships, trainers)

	_, err := service.Create(context.Background(), 42, CreateRequestInput{
		MembershipID:    3,
		ServiceID:       2,
		RequestType:     models.RequestTypeSpecific,
		TargetTrainerID: &target,
	})
	if err != ErrTrainerMismatch {
		t.Fatalf("expected ErrTrainerMismatch, got %v", err)
	}

	trainers.profile.TierID = 9
	request, err := service.Create(context.Background(), 42, CreateRequestInput{
		MembershipID:    3,
		ServiceID:       2,
		RequestType:     models.RequestTypeSpecific,
		TargetTrainerID: &target,
	})
	if err != nil {
		t.Fatalf("Create with matching trainer: %v", err)
	}
	if request.TargetTrainerID == nil || *request.TargetTrainerID != target {
		t.Fatalf("expected target trainer %d, got %+v", target, request.TargetTrainerID)
	}
}

func TestCreateRequestRequiresOwnActiveMembership(t *testing.T) {
	store := &stubRequestStore{}
	memberships := &stubMembershipReader{membership: activeStubMembership(41, 4, 9)}
	service := newStubRequestService(store, memberships, &stubTrainerReader{})

	input := CreateRequestInput{MembershipID: 3, ServiceID: 2, RequestType: models.RequestTypeOpen}

	if _, err := service.Create(context.Background(), 42, input); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden for foreign membership, got %v", err)
	}

	memberships.membership.UserID = 42
	memberships.membership.ExpiresAt = time.Now().UTC().Add(-time.Hour)
	if _, err := service.Create(context.Background(), 42, input); err != ErrMembershipInactive {
		t.Fatalf("expected ErrMembershipInactive for expired membership, got %v", err)
	}
}

func TestDeclineOpenRequestMirrorsAcceptEligibility(t *testing.T) {
	store := &stubRequestStore{
		request: &models.TrainerRequest{
			ID:          101,
			RequesterID: 42,
			RequestType: models.RequestTypeOpen,
			SportID:     4,
			TierID:      9,
			Status:      models.RequestStatusPending,
		},
	}
	memberships := &stubMembershipReader{membership: activeStubMembership(42, 4, 9)}
	trainers := &stubTrainerReader{profile: models.TrainerProfile{ID: 7, UserID: 10, SportID: 4, TierID: 2}}
	service := newStubRequestService(store, memberships, trainers)

	if _, err := service.Decline(context.Background(), 10, 101); err != ErrTrainerMismatch {
		t.Fatalf("expected ErrTrainerMismatch for non-matching trainer, got %v", err)
	}

	trainers.profile.TierID = 9
	declined, err := service.Decline(context.Background(), 10, 101)
	if err != nil {
		t.Fatalf("Decline: %v", err)
	}
	if declined.Status != models.RequestStatusDeclined {
		t.Fatalf("expected declined request, got %q", declined.Status)
	}
	if store.lastStatus != models.RequestStatusDeclined {
		t.Fatalf("expected declined status written, got %q", store.lastStatus)
	}
}

func TestCheckAcceptEligibilitySpecificRequest(t *testing.T) {
	target := int64(7)
	request := &models.TrainerRequest{
		RequestType:     models.RequestTypeSpecific,
		TargetTrainerID: &target,
		SportID:         1,
		TierID:          2,
	}

	if err := checkAcceptEligibility(&models.TrainerProfile{ID: 7}, request); err != nil {
		t.Fatalf("target trainer should be eligible, got %v", err)
	}
	if err := checkAcceptEligibility(&models.TrainerProfile{ID: 8, SportID: 1, TierID: 2}, request); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden for non-target trainer, got %v", err)
	}
}

func TestCheckAcceptEligibilityOpenRequest(t *testing.T) {
	request := &models.TrainerRequest{
		RequestType: models.RequestTypeOpen,
		SportID:     1,
		TierID:      2,
	}

	if err := checkAcceptEligibility(&models.TrainerProfile{ID: 3, SportID: 1, TierID: 2}, request); err != nil {
		t.Fatalf("matching trainer should be eligible, got %v", err)
	}
	if err := checkAcceptEligibility(&models.TrainerProfile{ID: 3, SportID: 1, TierID: 9}, request); err != ErrTrainerMismatch {
		t.Fatalf("expected ErrTrainerMismatch for tier mismatch, got %v", err)
	}
	if err := checkAcceptEligibility(&models.TrainerProfile{ID: 3, SportID: 5, TierID: 2}, request); err != ErrTrainerMismatch {
		t.Fatalf("expected ErrTrainerMismatch for sport mismatch, got %v", err)
	}
}

func TestCheckAcceptEligibilityUnknownType(t *testing.T) {
	request := &models.TrainerRequest{RequestType: "something_else"}
	if err := checkAcceptEligibility(&models.TrainerProfile{ID: 3}, request); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNewReferenceCodeFormat(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		code := newReferenceCode()
		if !strings.HasPrefix(code, "TR-") {
			t.Fatalf("expected TR- prefix, got %q", code)
		}
		if len(code) != 11 {
			t.Fatalf("expected 11 characters, got %q", code)
		}
		if code != strings.ToUpper(code) {
			t.Fatalf("expected upper-case code, got %q", code)
		}
		if _, dup := seen[code]; dup {
			t.Fatalf("duplicate reference code %q", code)
		}
		seen[code] = struct{}{}
	}
}

func TestClampPage(t *testing.T) {
	cases := []struct {
		offset, limit         int
		wantOffset, wantLimit int
	}{
		{0, 0, 0, 20},
		{-5, 10, 0, 10},
		{40, 500, 40, 20},
		{40, 100, 40, 100},
		{10, -1, 10, 20},
	}

	for _, tc := range cases {
		gotOffset, gotLimit := clampPage(tc.offset, tc.limit)
		if gotOffset != tc.wantOffset || gotLimit != tc.wantLimit {
			t.Errorf("clampPage(%d, %d) = (%d, %d), want (%d, %d)",
				tc.offset, tc.limit, gotOffset, gotLimit, tc.wantOffset, tc.wantLimit)
		}
	}
}
