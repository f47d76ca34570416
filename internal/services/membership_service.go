package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/repository"
)

type MembershipService struct {
	db             *pgxpool.Pool
	membershipRepo *repository.MembershipRepository
	sportRepo      *repository.SportRepository
	clubRepo       *repository.ClubRepository
}

func NewMembershipService(
	db *pgxpool.Pool,
	membershipRepo *repository.MembershipRepository,
	sportRepo *repository.SportRepository,
	clubRepo *repository.ClubRepository,
) *MembershipService {
	return &MembershipService{
		db:             db,
		membershipRepo: membershipRepo,
		sportRepo:      sportRepo,
		clubRepo:       clubRepo,
	}
}

type PurchaseMembershipInput struct {
	SportID int64
	TierID  int64
	ClubID  *int64
}

type MembershipDetail struct {
	models.Membership
	Payment *models.Payment `json:"payment,omitempty"`
}

// Purchase creates a membership and its payment record in one transaction.
// The validity window starts now and runs for the tier's duration.
func (s *MembershipService) Purchase(
	ctx context.Context,
	userID int64,
	input PurchaseMembershipInput,
) (*MembershipDetail, error) {
	if input.SportID <= 0 || input.TierID <= 0 {
		return nil, ErrInvalidInput
	}

	tier, err := s.sportRepo.GetTierByID(ctx, input.TierID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidInput
		}
		return nil, err
	}
	if tier.SportID != input.SportID {
		return nil, ErrInvalidInput
	}

	if input.ClubID != nil {
		if _, err := s.clubRepo.GetByID(ctx, *input.ClubID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrInvalidInput
			}
			return nil, err
		}
	}

	now := time.Now().UTC()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txMembershipRepo := repository.NewMembershipRepository(tx)
	txPaymentRepo := repository.NewPaymentRepository(tx)

	membership, err := txMembershipRepo.Create(ctx, repository.CreateMembershipInput{
		UserID:    userID,
		SportID:   input.SportID,
		TierID:    input.TierID,
		ClubID:    input.ClubID,
		StartsAt:  now,
		ExpiresAt: now.AddDate(0, 0, tier.DurationDays),
	})
	if err != nil {
		return nil, err
	}

	payment, err := txPaymentRepo.Create(ctx, repository.CreatePaymentInput{
		UserID:       userID,
		Kind:         models.PaymentKindMembership,
		MembershipID: &membership.ID,
		Amount:       tier.Price,
		Status:       models.PaymentStatusPaid,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &MembershipDetail{Membership: *membership, Payment: payment}, nil
}

func (s *MembershipService) ListMine(ctx context.Context, userID int64) ([]models.Membership, error) {
	return s.membershipRepo.ListByUser(ctx, userID)
}

func (s *MembershipService) Get(
	ctx context.Context,
	actorUserID int64,
	role string,
	membershipID int64,
) (*models.Membership, error) {
	membership, err := s.membershipRepo.GetByID(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if role != "admin" && membership.UserID != actorUserID {
		return nil, ErrForbidden
	}
	return membership, nil
}

// Cancel deactivates an active membership. Guarded on the current status, so
// repeating the call reports the state transition failure instead of
// re-cancelling.
func (s *MembershipService) Cancel(
	ctx context.Context,
	actorUserID int64,
	role string,
	membershipID int64,
) (*models.Membership, error) {
	membership, err := s.membershipRepo.GetByID(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if role != "admin" && membership.UserID != actorUserID {
		return nil, ErrForbidden
	}

	cancelled, err := s.membershipRepo.UpdateStatusIfCurrent(ctx, membershipID, "active", "cancelled")
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}
	return cancelled, nil
}
