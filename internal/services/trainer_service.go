package services

import (
	"context"
	"errors"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/repository"
)

type TrainerProfileService struct {
	trainerRepo *repository.TrainerProfileRepository
	sportRepo   *repository.SportRepository
}

func NewTrainerProfileService(
	trainerRepo *repository.TrainerProfileRepository,
	sportRepo *repository.SportRepository,
) *TrainerProfileService {
	return &TrainerProfileService{
		trainerRepo: trainerRepo,
		sportRepo:   sportRepo,
	}
}

type TrainerProfileInput struct {
	SportID     *int64
	TierID      *int64
	Bio         *string
	HourlyRate  *float64
	IsAvailable *bool
}

func (s *TrainerProfileService) Create(
	ctx context.Context,
	actorUserID int64,
	input TrainerProfileInput,
) (*models.TrainerProfile, error) {
	if input.SportID == nil || input.TierID == nil {
		return nil, ErrInvalidInput
	}
	if input.HourlyRate != nil && *input.HourlyRate < 0 {
		return nil, ErrInvalidInput
	}
	if err := s.checkSportTier(ctx, *input.SportID, *input.TierID); err != nil {
		return nil, err
	}

	return s.trainerRepo.Create(ctx, repository.CreateTrainerProfileInput{
		UserID:     actorUserID,
		SportID:    *input.SportID,
		TierID:     *input.TierID,
		Bio:        input.Bio,
		HourlyRate: input.HourlyRate,
	})
}

func (s *TrainerProfileService) Get(ctx context.Context, profileID int64) (*models.TrainerProfile, error) {
	return s.trainerRepo.GetByID(ctx, profileID)
}

func (s *TrainerProfileService) GetOwn(ctx context.Context, actorUserID int64) (*models.TrainerProfile, error) {
	return s.trainerRepo.GetByUserID(ctx, actorUserID)
}

func (s *TrainerProfileService) Update(
	ctx context.Context,
	actorUserID int64,
	input TrainerProfileInput,
) (*models.TrainerProfile, error) {
	if input.HourlyRate != nil && *input.HourlyRate < 0 {
		return nil, ErrInvalidInput
	}
	if input.SportID != nil || input.TierID != nil {
		current, err := s.trainerRepo.GetByUserID(ctx, actorUserID)
		if err != nil {
			return nil, err
		}
		sportID := current.SportID
		if input.SportID != nil {
			sportID = *input.SportID
		}
		tierID := current.TierID
		if input.TierID != nil {
			tierID = *input.TierID
		}
		if err := s.checkSportTier(ctx, sportID, tierID); err != nil {
			return nil, err
		}
	}

	return s.trainerRepo.UpdatePartial(ctx, actorUserID, repository.UpdateTrainerProfileInput{
		SportID:     input.SportID,
		TierID:      input.TierID,
		Bio:         input.Bio,
		HourlyRate:  input.HourlyRate,
		IsAvailable: input.IsAvailable,
	})
}

func (s *TrainerProfileService) SetVerified(ctx context.Context, profileID int64, verified bool) (*models.TrainerProfile, error) {
	return s.trainerRepo.SetVerified(ctx, profileID, verified)
}

func (s *TrainerProfileService) List(
	ctx context.Context,
	filter repository.TrainerListFilter,
) ([]models.TrainerProfile, int, error) {
	filter.Offset, filter.Limit = clampPage(filter.Offset, filter.Limit)
	return s.trainerRepo.List(ctx, filter)
}

// Recommend ranks the trainers serving a membership's sport and tier. Scoring
// favors verified profiles, open availability, strong ratings and rates
// within the caller's budget.
func (s *TrainerProfileService) Recommend(
	ctx context.Context,
	membership *models.Membership,
	maxHourlyRate *float64,
	limit int,
) ([]models.TrainerWithScore, error) {
	trainers, _, err := s.trainerRepo.List(ctx, repository.TrainerListFilter{
		SportID: membership.SportID,
		TierID:  membership.TierID,
		Offset:  0,
		Limit:   200,
	})
	if err != nil {
		return nil, err
	}

	scored := make([]models.TrainerWithScore, 0, len(trainers))
	for _, trainer := range trainers {
		if trainer.UserID == membership.UserID {
			continue
		}
		scored = append(scored, models.TrainerWithScore{
			TrainerProfile: trainer,
			MatchScore:     scoreTrainer(&trainer, maxHourlyRate),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].MatchScore == scored[j].MatchScore {
			return floatValue(scored[i].Rating) > floatValue(scored[j].Rating)
		}
		return scored[i].MatchScore > scored[j].MatchScore
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func scoreTrainer(trainer *models.TrainerProfile, maxHourlyRate *float64) int {
	score := 0
	if trainer.IsVerified {
		score += 30
	}
	if trainer.IsAvailable {
		score += 25
	}
	if floatValue(trainer.Rating) >= 4.0 {
		score += 20
	} else if floatValue(trainer.Rating) >= 3.0 {
		score += 10
	}
	if budget := floatValue(maxHourlyRate); budget > 0 && floatValue(trainer.HourlyRate) <= budget {
		score += 15
	}
	if trainer.Bio != nil && *trainer.Bio != "" {
		score += 5
	}
	return score
}

func floatValue(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}

func (s *TrainerProfileService) checkSportTier(ctx context.Context, sportID, tierID int64) error {
	tier, err := s.sportRepo.GetTierByID(ctx, tierID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInvalidInput
		}
		return err
	}
	if tier.SportID != sportID {
		return ErrInvalidInput
	}
	return nil
}
