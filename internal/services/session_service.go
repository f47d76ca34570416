package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/events"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/repository"
)

const maxSessionMinutes = 8 * 60

type SessionService struct {
	db             *pgxpool.Pool
	sessionRepo    *repository.SessionRepository
	paymentRepo    *repository.PaymentRepository
	trainerRepo    *repository.TrainerProfileRepository
	membershipRepo membershipReader
	notifications  *NotificationService
	publisher      events.Publisher
}

func NewSessionService(
	db *pgxpool.Pool,
	sessionRepo *repository.SessionRepository,
	paymentRepo *repository.PaymentRepository,
	trainerRepo *repository.TrainerProfileRepository,
	membershipRepo membershipReader,
	notifications *NotificationService,
	publisher events.Publisher,
) *SessionService {
	return &SessionService{
		db:             db,
		sessionRepo:    sessionRepo,
		paymentRepo:    paymentRepo,
		trainerRepo:    trainerRepo,
		membershipRepo: membershipRepo,
		notifications:  notifications,
		publisher:      publisher,
	}
}

type BookSessionInput struct {
	TrainerProfileID int64
	MembershipID     int64
	TraineeID        *int64
	ScheduledAt      time.Time
	DurationMinutes  int
	Location         *string
	Notes            *string
}

// resolveBookingTrainee decides who the session is for. Members book for
// themselves; trainers and admins book on a trainee's behalf and must name
// the trainee explicitly.
func resolveBookingTrainee(actorUserID int64, role string, traineeID *int64) (int64, error) {
	switch role {
	case "trainer", "admin":
		if traineeID == nil || *traineeID <= 0 {
			return 0, ErrInvalidInput
		}
		return *traineeID, nil
	default:
		if traineeID != nil && *traineeID != actorUserID {
			return 0, ErrForbidden
		}
		return actorUserID, nil
	}
}

// Book creates a scheduled session with the trainer, guarded against double
// booking. The conflict check and the insert run in one transaction holding
// an advisory lock keyed on the trainer profile, so two clients aiming at
// overlapping times serialize and the second one sees the conflict.
func (s *SessionService) Book(
	ctx context.Context,
	actorUserID int64,
	role string,
	input BookSessionInput,
) (*models.SessionDetail, error) {
	if input.TrainerProfileID <= 0 || input.MembershipID <= 0 {
		return nil, ErrInvalidInput
	}
	if input.DurationMinutes <= 0 || input.DurationMinutes > maxSessionMinutes {
		return nil, ErrInvalidInput
	}
	if input.ScheduledAt.Before(time.Now().Add(-1 * time.Minute)) {
		return nil, ErrInvalidInput
	}

	traineeID, err := resolveBookingTrainee(actorUserID, role, input.TraineeID)
	if err != nil {
		return nil, err
	}

	membership, err := s.membershipRepo.GetByID(ctx, input.MembershipID)
	if err != nil {
		return nil, err
	}
	if membership.UserID != traineeID {
		return nil, ErrForbidden
	}
	if !membership.IsActiveAt(input.ScheduledAt.UTC()) {
		return nil, ErrMembershipInactive
	}

	trainer, err := s.trainerRepo.GetByID(ctx, input.TrainerProfileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	if role == "trainer" && trainer.UserID != actorUserID {
		return nil, ErrForbidden
	}
	if trainer.UserID == traineeID {
		return nil, ErrInvalidInput
	}
	if !trainer.IsAvailable {
		return nil, ErrConflict
	}
	if trainer.SportID != membership.SportID || trainer.TierID != membership.TierID {
		return nil, ErrTrainerMismatch
	}

	fee := 0.0
	if trainer.HourlyRate != nil {
		fee = *trainer.HourlyRate * float64(input.DurationMinutes) / 60
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSessionRepo := repository.NewSessionRepository(tx)
	txPaymentRepo := repository.NewPaymentRepository(tx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", trainer.ID); err != nil {
		return nil, err
	}

	hasConflict, err := txSessionRepo.HasConflict(
		ctx,
		trainer.ID,
		input.ScheduledAt.UTC(),
		input.DurationMinutes,
	)
	if err != nil {
		return nil, err
	}
	if hasConflict {
		return nil, ErrConflict
	}

	session, err := txSessionRepo.Create(ctx, repository.CreateSessionInput{
		TrainerProfileID: trainer.ID,
		TraineeID:        traineeID,
		MembershipID:     membership.ID,
		ScheduledAt:      input.ScheduledAt.UTC(),
		DurationMinutes:  input.DurationMinutes,
		FeeAmount:        fee,
		Location:         input.Location,
		Notes:            input.Notes,
	})
	if err != nil {
		return nil, err
	}

	payment, err := txPaymentRepo.Create(ctx, repository.CreatePaymentInput{
		UserID:    traineeID,
		Kind:      models.PaymentKindSessionFee,
		SessionID: &session.ID,
		Amount:    fee,
		Status:    models.PaymentStatusPending,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	notification := &models.Notification{
		UserID: trainer.UserID,
		Kind:   events.KindSessionBooked,
		Title:  "New session booked",
		Body:   fmt.Sprintf("A session was booked for %s.", session.ScheduledAt.Format(time.RFC3339)),
	}
	if err := s.notifications.Dispatch(ctx, notification); err != nil {
		logDispatchFailure(events.KindSessionBooked, err)
	}
	s.publishEvent(ctx, session.ID, events.KindSessionBooked, map[string]any{
		"session_id":         session.ID,
		"trainer_profile_id": trainer.ID,
		"scheduled_at":       session.ScheduledAt,
	})

	return &models.SessionDetail{TrainerSession: *session, Payment: payment}, nil
}

// CheckAvailability answers whether the trainer is free for the half-open
// window [requestedTime, requestedTime+duration). Advisory only; booking
// re-checks under the lock.
func (s *SessionService) CheckAvailability(
	ctx context.Context,
	trainerProfileID int64,
	requestedTime time.Time,
	durationMinutes int,
) (bool, error) {
	if trainerProfileID <= 0 || durationMinutes <= 0 {
		return false, ErrInvalidInput
	}
	hasConflict, err := s.sessionRepo.HasConflict(ctx, trainerProfileID, requestedTime.UTC(), durationMinutes)
	if err != nil {
		return false, err
	}
	return !hasConflict, nil
}

type SessionListInput struct {
	Status    string
	Timeframe string
}

func (s *SessionService) List(
	ctx context.Context,
	actorUserID int64,
	role string,
	input SessionListInput,
) ([]models.SessionDetail, error) {
	filter := repository.SessionListFilter{
		Status:    input.Status,
		Timeframe: input.Timeframe,
	}
	switch role {
	case "trainer":
		profile, err := s.trainerRepo.GetByUserID(ctx, actorUserID)
		if err != nil {
			return nil, err
		}
		filter.TrainerProfileID = profile.ID
	case "admin":
	default:
		filter.TraineeID = actorUserID
	}

	sessions, err := s.sessionRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	sessionIDs := make([]int64, 0, len(sessions))
	for _, session := range sessions {
		sessionIDs = append(sessionIDs, session.ID)
	}
	paymentsBySession, err := s.paymentRepo.ListBySessionIDs(ctx, sessionIDs)
	if err != nil {
		return nil, err
	}

	details := make([]models.SessionDetail, 0, len(sessions))
	for _, session := range sessions {
		detail := models.SessionDetail{TrainerSession: session}
		if payment, ok := paymentsBySession[session.ID]; ok {
			paymentCopy := payment
			detail.Payment = &paymentCopy
		}
		details = append(details, detail)
	}
	return details, nil
}

func (s *SessionService) Get(
	ctx context.Context,
	actorUserID int64,
	role string,
	sessionID int64,
) (*models.SessionDetail, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeSessionAccess(ctx, actorUserID, role, session); err != nil {
		return nil, err
	}

	detail := &models.SessionDetail{TrainerSession: *session}
	payment, err := s.paymentRepo.GetBySessionID(ctx, sessionID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		detail.Payment = payment
	}
	return detail, nil
}

func (s *SessionService) authorizeSessionAccess(
	ctx context.Context,
	actorUserID int64,
	role string,
	session *models.TrainerSession,
) error {
	switch role {
	case "admin":
		return nil
	case "trainer":
		profile, err := s.trainerRepo.GetByUserID(ctx, actorUserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrForbidden
			}
			return err
		}
		if session.TrainerProfileID != profile.ID {
			return ErrForbidden
		}
		return nil
	default:
		if session.TraineeID != actorUserID {
			return ErrForbidden
		}
		return nil
	}
}

// UpdateStatus moves a scheduled session to completed or no_show. Cancellation
// goes through Cancel, which also records the reason.
func (s *SessionService) UpdateStatus(
	ctx context.Context,
	actorUserID int64,
	role string,
	sessionID int64,
	requestedStatus string,
) (*models.SessionDetail, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeSessionAccess(ctx, actorUserID, role, session); err != nil {
		return nil, err
	}

	nextStatus, err := normalizeSessionStatus(requestedStatus)
	if err != nil {
		return nil, err
	}
	if err := validateSessionTransition(role, session, nextStatus, time.Now().UTC()); err != nil {
		return nil, err
	}

	updated, err := s.sessionRepo.UpdateStatusIfCurrent(ctx, sessionID, session.Status, nextStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}
	return s.Get(ctx, actorUserID, role, updated.ID)
}

// Cancel moves a scheduled session to cancelled and appends the reason to the
// session notes. The status guard and the note append are one statement, so a
// repeated cancel neither flips state nor duplicates the reason.
func (s *SessionService) Cancel(
	ctx context.Context,
	actorUserID int64,
	role string,
	sessionID int64,
	reason string,
) (*models.SessionDetail, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeSessionAccess(ctx, actorUserID, role, session); err != nil {
		return nil, err
	}
	if session.Status != models.SessionStatusScheduled {
		return nil, ErrInvalidStateTransition
	}

	note := "Cancelled"
	if trimmed := strings.TrimSpace(reason); trimmed != "" {
		note = "Cancelled: " + trimmed
	}

	cancelled, err := s.sessionRepo.CancelIfCurrent(ctx, sessionID, models.SessionStatusScheduled, note)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}

	counterparty := cancelled.TraineeID
	if role != "trainer" {
		trainer, err := s.trainerRepo.GetByID(ctx, cancelled.TrainerProfileID)
		if err != nil {
			return nil, err
		}
		counterparty = trainer.UserID
	}
	notification := &models.Notification{
		UserID: counterparty,
		Kind:   events.KindSessionCancelled,
		Title:  "Session cancelled",
		Body:   fmt.Sprintf("The session on %s was cancelled.", cancelled.ScheduledAt.Format(time.RFC3339)),
	}
	if err := s.notifications.Dispatch(ctx, notification); err != nil {
		logDispatchFailure(events.KindSessionCancelled, err)
	}
	s.publishEvent(ctx, cancelled.ID, events.KindSessionCancelled, map[string]any{
		"session_id": cancelled.ID,
		"reason":     note,
	})

	return s.Get(ctx, actorUserID, role, cancelled.ID)
}

type UpdateSessionInput struct {
	ScheduledAt     *time.Time
	DurationMinutes *int
	FeeAmount       *float64
	Location        *string
	Notes           *string
	TrainerNotes    *string
}

// validateSessionUpdatePermissions gates the writable fields by role. The
// trainee owns the session notes; schedule, fee and location changes belong
// to the trainer or an admin.
func validateSessionUpdatePermissions(role string, input UpdateSessionInput) error {
	if role == "trainer" && input.Notes != nil {
		return ErrForbidden
	}
	if role != "trainer" && role != "admin" {
		if input.TrainerNotes != nil || input.ScheduledAt != nil ||
			input.DurationMinutes != nil || input.FeeAmount != nil || input.Location != nil {
			return ErrForbidden
		}
	}
	return nil
}

// Update reschedules or annotates a session that is still scheduled. Trainee
// notes belong to the trainee, trainer notes to the trainer; moving the time
// re-runs the overlap check against the trainer's other sessions.
func (s *SessionService) Update(
	ctx context.Context,
	actorUserID int64,
	role string,
	sessionID int64,
	input UpdateSessionInput,
) (*models.SessionDetail, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeSessionAccess(ctx, actorUserID, role, session); err != nil {
		return nil, err
	}
	if session.Status != models.SessionStatusScheduled {
		return nil, ErrInvalidStateTransition
	}

	if err := validateSessionUpdatePermissions(role, input); err != nil {
		return nil, err
	}

	scheduledAt := session.ScheduledAt
	if input.ScheduledAt != nil {
		scheduledAt = input.ScheduledAt.UTC()
		if scheduledAt.Before(time.Now().Add(-1 * time.Minute)) {
			return nil, ErrInvalidInput
		}
	}
	duration := session.DurationMinutes
	if input.DurationMinutes != nil {
		duration = *input.DurationMinutes
		if duration <= 0 || duration > maxSessionMinutes {
			return nil, ErrInvalidInput
		}
	}
	if input.FeeAmount != nil && *input.FeeAmount < 0 {
		return nil, ErrInvalidInput
	}

	timeChanged := !scheduledAt.Equal(session.ScheduledAt) || duration != session.DurationMinutes

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSessionRepo := repository.NewSessionRepository(tx)

	if timeChanged {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", session.TrainerProfileID); err != nil {
			return nil, err
		}
		hasConflict, err := txSessionRepo.HasConflictExcludingSession(
			ctx,
			session.TrainerProfileID,
			scheduledAt,
			duration,
			session.ID,
		)
		if err != nil {
			return nil, err
		}
		if hasConflict {
			return nil, ErrConflict
		}
	}

	updated, err := txSessionRepo.Reschedule(ctx, sessionID, repository.RescheduleSessionInput{
		ScheduledAt:     input.ScheduledAt,
		DurationMinutes: input.DurationMinutes,
		FeeAmount:       input.FeeAmount,
		Location:        input.Location,
		Notes:           input.Notes,
		TrainerNotes:    input.TrainerNotes,
	})
	if err != nil {
		return nil, err
	}

	if input.FeeAmount != nil {
		txPaymentRepo := repository.NewPaymentRepository(tx)
		if _, err := txPaymentRepo.SetAmountIfPending(ctx, sessionID, *input.FeeAmount); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return s.Get(ctx, actorUserID, role, updated.ID)
}

// Rate records the trainee's rating on a completed session and refreshes the
// trainer's aggregate rating.
func (s *SessionService) Rate(
	ctx context.Context,
	actorUserID int64,
	sessionID int64,
	rating int,
	feedback *string,
) (*models.SessionDetail, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidInput
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.TraineeID != actorUserID {
		return nil, ErrForbidden
	}
	if session.Status != models.SessionStatusCompleted {
		return nil, ErrInvalidStateTransition
	}

	if _, err := s.sessionRepo.SetRating(ctx, sessionID, rating, feedback); err != nil {
		return nil, err
	}
	if err := s.trainerRepo.RefreshRating(ctx, session.TrainerProfileID); err != nil {
		return nil, err
	}
	return s.Get(ctx, actorUserID, "member", sessionID)
}

// Pay settles the session fee. Idempotent: paying an already-paid session
// returns the current state instead of failing.
func (s *SessionService) Pay(
	ctx context.Context,
	actorUserID int64,
	role string,
	sessionID int64,
) (*models.SessionDetail, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSessionRepo := repository.NewSessionRepository(tx)
	txPaymentRepo := repository.NewPaymentRepository(tx)

	session, err := txSessionRepo.GetByIDForUpdate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.TraineeID != actorUserID {
		return nil, ErrForbidden
	}

	payment, err := txPaymentRepo.GetBySessionIDForUpdate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if payment.Status == models.PaymentStatusPaid {
		return s.Get(ctx, actorUserID, role, sessionID)
	}
	if session.Status != models.SessionStatusScheduled {
		return nil, ErrInvalidStateTransition
	}

	if _, err := txPaymentRepo.UpdateStatusIfCurrent(ctx, payment.ID, models.PaymentStatusPending, models.PaymentStatusPaid); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}
	if _, err := txSessionRepo.SetPaymentStatusIfCurrent(ctx, sessionID, "unpaid", "paid"); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return s.Get(ctx, actorUserID, role, sessionID)
}

func (s *SessionService) publishEvent(ctx context.Context, sessionID int64, kind string, payload map[string]any) {
	if s.publisher == nil {
		return
	}
	key := fmt.Sprintf("session-%d", sessionID)
	if err := s.publisher.Publish(ctx, key, events.Event{Kind: kind, Payload: payload}); err != nil {
		logDispatchFailure(kind, err)
	}
}

// normalizeSessionStatus accepts the statuses the status endpoint may set.
// Cancellation is not one of them: Cancel records the reason alongside the
// transition, so routing "cancelled" through here would skip the note.
func normalizeSessionStatus(status string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "complete", "completed":
		return models.SessionStatusCompleted, nil
	case "no_show", "no-show", "noshow":
		return models.SessionStatusNoShow, nil
	default:
		return "", ErrInvalidStatus
	}
}

// validateSessionTransition enforces the session state machine. The only live
// state is scheduled; completed, cancelled and no_show are terminal.
func validateSessionTransition(
	role string,
	session *models.TrainerSession,
	nextStatus string,
	now time.Time,
) error {
	if session.Status != models.SessionStatusScheduled {
		return ErrInvalidStateTransition
	}

	switch nextStatus {
	case models.SessionStatusCompleted:
		if role != "trainer" && role != "admin" {
			return ErrForbidden
		}
		if session.EndsAt().After(now) {
			return ErrInvalidStateTransition
		}
	case models.SessionStatusNoShow:
		if role != "trainer" && role != "admin" {
			return ErrForbidden
		}
		if session.ScheduledAt.After(now) {
			return ErrInvalidStateTransition
		}
	default:
		return ErrInvalidStatus
	}
	return nil
}
