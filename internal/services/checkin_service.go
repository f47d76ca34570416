package services

import (
	"context"
	"time"

	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/repository"
)

type CheckInService struct {
	checkInRepo    *repository.CheckInRepository
	membershipRepo membershipReader
	clubRepo       *repository.ClubRepository
}

func NewCheckInService(
	checkInRepo *repository.CheckInRepository,
	membershipRepo membershipReader,
	clubRepo *repository.ClubRepository,
) *CheckInService {
	return &CheckInService{
		checkInRepo:    checkInRepo,
		membershipRepo: membershipRepo,
		clubRepo:       clubRepo,
	}
}

// CheckIn records a club visit backed by an active membership. Memberships
// bound to a club only admit that club; club-free memberships admit any club.
func (s *CheckInService) CheckIn(
	ctx context.Context,
	userID int64,
	clubID int64,
	membershipID int64,
) (*models.CheckIn, error) {
	if clubID <= 0 || membershipID <= 0 {
		return nil, ErrInvalidInput
	}

	membership, err := s.membershipRepo.GetByID(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if membership.UserID != userID {
		return nil, ErrForbidden
	}
	if !membership.IsActiveAt(time.Now().UTC()) {
		return nil, ErrMembershipInactive
	}
	if membership.ClubID != nil && *membership.ClubID != clubID {
		return nil, ErrForbidden
	}

	if _, err := s.clubRepo.GetByID(ctx, clubID); err != nil {
		return nil, err
	}

	return s.checkInRepo.Create(ctx, userID, clubID, membershipID)
}

func (s *CheckInService) History(
	ctx context.Context,
	userID int64,
	offset int,
	limit int,
) ([]models.CheckIn, int, error) {
	offset, limit = clampPage(offset, limit)
	return s.checkInRepo.ListByUser(ctx, userID, offset, limit)
}
