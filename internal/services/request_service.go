package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/events"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/repository"
)

const requestValidity = 7 * 24 * time.Hour

type membershipReader interface {
	GetByID(ctx context.Context, membershipID int64) (*models.Membership, error)
}

type serviceReader interface {
	GetByID(ctx context.Context, serviceID int64) (*models.TrainerService, error)
}

type requestStore interface {
	Create(ctx context.Context, input repository.CreateRequestInput) (*models.TrainerRequest, error)
	GetByID(ctx context.Context, requestID int64) (*models.TrainerRequest, error)
	ListIncoming(ctx context.Context, trainerProfileID int64, offset, limit int) ([]models.TrainerRequest, int, error)
	ListByRequester(ctx context.Context, requesterID int64, offset, limit int) ([]models.TrainerRequest, int, error)
	UpdateStatusIfPending(ctx context.Context, requestID int64, status string) (*models.TrainerRequest, error)
}

var _ requestStore = (*repository.RequestRepository)(nil)

type RequestService struct {
	db             *pgxpool.Pool
	requestRepo    requestStore
	membershipRepo membershipReader
	trainerRepo    trainerProfileReader
	serviceRepo    serviceReader
	notifications  *NotificationService
	publisher      events.Publisher
}

func NewRequestService(
	db *pgxpool.Pool,
	requestRepo requestStore,
	membershipRepo membershipReader,
	trainerRepo trainerProfileReader,
	serviceRepo serviceReader,
	notifications *NotificationService,
	publisher events.Publisher,
) *RequestService {
	return &RequestService{
		db:             db,
		requestRepo:    requestRepo,
		membershipRepo: membershipRepo,
		trainerRepo:    trainerRepo,
		serviceRepo:    serviceRepo,
		notifications:  notifications,
		publisher:      publisher,
	}
}

type CreateRequestInput struct {
	MembershipID    int64
	ServiceID       int64
	RequestType     string
	TargetTrainerID *int64
	ClubID          *int64
	PreferredSlots  []models.PreferredSlot
	Message         *string
}

func (s *RequestService) Create(
	ctx context.Context,
	requesterID int64,
	input CreateRequestInput,
) (*models.TrainerRequest, error) {
	if input.MembershipID <= 0 || input.ServiceID <= 0 {
		return nil, ErrInvalidInput
	}
	requestType := strings.TrimSpace(input.RequestType)
	if requestType != models.RequestTypeOpen && requestType != models.RequestTypeSpecific {
		return nil, ErrInvalidInput
	}
	for _, slot := range input.PreferredSlots {
		if _, ok := weekdays[strings.ToLower(strings.TrimSpace(slot.Day))]; !ok {
			return nil, ErrInvalidInput
		}
		if _, _, err := parseSlotBounds(slot.Start, slot.End); err != nil {
			return nil, err
		}
	}

	membership, err := s.membershipRepo.GetByID(ctx, input.MembershipID)
	if err != nil {
		return nil, err
	}
	if membership.UserID != requesterID {
		return nil, ErrForbidden
	}
	if !membership.IsActiveAt(time.Now().UTC()) {
		return nil, ErrMembershipInactive
	}

	if _, err := s.serviceRepo.GetByID(ctx, input.ServiceID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidInput
		}
		return nil, err
	}

	switch requestType {
	case models.RequestTypeSpecific:
		if input.TargetTrainerID == nil || *input.TargetTrainerID <= 0 {
			return nil, ErrInvalidInput
		}
		trainer, err := s.trainerRepo.GetByID(ctx, *input.TargetTrainerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrTrainerNotFound
			}
			return nil, err
		}
		if trainer.UserID == requesterID {
			return nil, ErrInvalidInput
		}
		if trainer.SportID != membership.SportID || trainer.TierID != membership.TierID {
			return nil, ErrTrainerMismatch
		}
	case models.RequestTypeOpen:
		if input.TargetTrainerID != nil {
			return nil, ErrInvalidInput
		}
	}

	return s.requestRepo.Create(ctx, repository.CreateRequestInput{
		ReferenceCode:   newReferenceCode(),
		RequesterID:     requesterID,
		MembershipID:    membership.ID,
		SportID:         membership.SportID,
		TierID:          membership.TierID,
		ServiceID:       input.ServiceID,
		RequestType:     requestType,
		TargetTrainerID: input.TargetTrainerID,
		ClubID:          input.ClubID,
		PreferredSlots:  input.PreferredSlots,
		Message:         input.Message,
		ExpiresAt:       time.Now().UTC().Add(requestValidity),
	})
}

// ListIncoming returns the pending requests a trainer can act on: all open
// requests plus specific requests addressed to them. Sport and tier matching
// for open requests is enforced at accept time, not at listing time.
func (s *RequestService) ListIncoming(
	ctx context.Context,
	actorUserID int64,
	offset int,
	limit int,
) ([]models.TrainerRequest, int, error) {
	profile, err := s.trainerRepo.GetByUserID(ctx, actorUserID)
	if err != nil {
		return nil, 0, err
	}
	offset, limit = clampPage(offset, limit)
	return s.requestRepo.ListIncoming(ctx, profile.ID, offset, limit)
}

func (s *RequestService) ListMine(
	ctx context.Context,
	requesterID int64,
	offset int,
	limit int,
) ([]models.TrainerRequest, int, error) {
	offset, limit = clampPage(offset, limit)
	return s.requestRepo.ListByRequester(ctx, requesterID, offset, limit)
}

func (s *RequestService) Get(
	ctx context.Context,
	actorUserID int64,
	role string,
	requestID int64,
) (*models.TrainerRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !s.canViewRequest(ctx, actorUserID, role, request) {
		return nil, ErrForbidden
	}
	return request, nil
}

func (s *RequestService) canViewRequest(
	ctx context.Context,
	actorUserID int64,
	role string,
	request *models.TrainerRequest,
) bool {
	if role == "admin" || request.RequesterID == actorUserID {
		return true
	}
	if role != "trainer" {
		return false
	}
	if request.RequestType == models.RequestTypeOpen {
		return true
	}
	profile, err := s.trainerRepo.GetByUserID(ctx, actorUserID)
	if err != nil {
		return false
	}
	if request.TargetTrainerID != nil && *request.TargetTrainerID == profile.ID {
		return true
	}
	return request.AcceptedBy != nil && *request.AcceptedBy == profile.ID
}

// Accept claims a pending request for the calling trainer. The whole decision
// runs in one transaction: the request row is locked, status and eligibility
// are re-checked under the lock, and the transition is a conditional update
// guarded on the pending status. Concurrent acceptors serialize on the row
// lock and every loser gets ErrRequestUnavailable.
func (s *RequestService) Accept(
	ctx context.Context,
	actorUserID int64,
	requestID int64,
) (*models.TrainerRequest, error) {
	profile, err := s.trainerRepo.GetByUserID(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrForbidden
		}
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txRequestRepo := repository.NewRequestRepository(tx)
	txNotificationRepo := repository.NewNotificationRepository(tx)

	request, err := txRequestRepo.GetByIDForUpdate(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != models.RequestStatusPending {
		return nil, ErrRequestUnavailable
	}
	if time.Now().UTC().After(request.ExpiresAt) {
		return nil, ErrRequestUnavailable
	}
	if err := checkAcceptEligibility(profile, request); err != nil {
		return nil, err
	}

	accepted, err := txRequestRepo.AcceptPending(ctx, requestID, profile.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestUnavailable
		}
		return nil, err
	}

	notification := &models.Notification{
		UserID: accepted.RequesterID,
		Kind:   events.KindRequestAccepted,
		Title:  "Trainer request accepted",
		Body:   fmt.Sprintf("A trainer accepted your request %s.", accepted.ReferenceCode),
	}
	if err := txNotificationRepo.Create(ctx, notification); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.notifications.Push(notification)
	s.publish(ctx, accepted.ReferenceCode, events.KindRequestAccepted, map[string]any{
		"request_id":             accepted.ID,
		"reference_code":         accepted.ReferenceCode,
		"accepted_by_trainer_id": profile.ID,
	})

	return accepted, nil
}

// checkAcceptEligibility is evaluated while the request row is locked. A
// specific request belongs to its target trainer only; an open request goes
// to any trainer serving the snapshotted sport and tier.
func checkAcceptEligibility(profile *models.TrainerProfile, request *models.TrainerRequest) error {
	switch request.RequestType {
	case models.RequestTypeSpecific:
		if request.TargetTrainerID == nil || *request.TargetTrainerID != profile.ID {
			return ErrForbidden
		}
	case models.RequestTypeOpen:
		if profile.SportID != request.SportID || profile.TierID != request.TierID {
			return ErrTrainerMismatch
		}
	default:
		return ErrInvalidInput
	}
	return nil
}

// Decline rejects a pending request the trainer would be eligible to accept:
// the target of a specific request, or a sport/tier-matching trainer for an
// open one. The same eligibility rule as Accept, with the same CAS guard.
func (s *RequestService) Decline(
	ctx context.Context,
	actorUserID int64,
	requestID int64,
) (*models.TrainerRequest, error) {
	profile, err := s.trainerRepo.GetByUserID(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrForbidden
		}
		return nil, err
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := checkAcceptEligibility(profile, request); err != nil {
		return nil, err
	}

	declined, err := s.requestRepo.UpdateStatusIfPending(ctx, requestID, models.RequestStatusDeclined)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestUnavailable
		}
		return nil, err
	}

	notification := &models.Notification{
		UserID: declined.RequesterID,
		Kind:   events.KindRequestDeclined,
		Title:  "Trainer request declined",
		Body:   fmt.Sprintf("Your request %s was declined.", declined.ReferenceCode),
	}
	if err := s.notifications.Dispatch(ctx, notification); err != nil {
		logDispatchFailure(events.KindRequestDeclined, err)
	}
	s.publish(ctx, declined.ReferenceCode, events.KindRequestDeclined, map[string]any{
		"request_id":     declined.ID,
		"reference_code": declined.ReferenceCode,
	})

	return declined, nil
}

// Cancel withdraws a pending request. Only the requester can cancel, and only
// while the request is still pending; an accepted request stays accepted.
func (s *RequestService) Cancel(
	ctx context.Context,
	actorUserID int64,
	requestID int64,
) (*models.TrainerRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.RequesterID != actorUserID {
		return nil, ErrForbidden
	}

	cancelled, err := s.requestRepo.UpdateStatusIfPending(ctx, requestID, models.RequestStatusCancelled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestUnavailable
		}
		return nil, err
	}
	return cancelled, nil
}

func (s *RequestService) publish(ctx context.Context, key, kind string, payload map[string]any) {
	if s.publisher == nil {
		return
	}
	event := events.Event{Kind: kind, Payload: payload}
	if err := s.publisher.Publish(ctx, key, event); err != nil {
		logDispatchFailure(kind, err)
	}
}

func newReferenceCode() string {
	return "TR-" + strings.ToUpper(uuid.NewString()[:8])
}

func clampPage(offset, limit int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
