package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/cache"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/repository"
)

const (
	cacheKeyClubs  = "catalog:clubs"
	cacheKeySports = "catalog:sports"
)

// CatalogService serves the club and sport catalog. Listings are cached in
// Redis when a cache is wired; writes invalidate the affected keys. The cache
// is optional and all cache failures degrade to database reads.
type CatalogService struct {
	clubRepo    *repository.ClubRepository
	sportRepo   *repository.SportRepository
	serviceRepo *repository.ServiceRepository
	cache       *cache.Cache
}

func NewCatalogService(
	clubRepo *repository.ClubRepository,
	sportRepo *repository.SportRepository,
	serviceRepo *repository.ServiceRepository,
	cache *cache.Cache,
) *CatalogService {
	return &CatalogService{
		clubRepo:    clubRepo,
		sportRepo:   sportRepo,
		serviceRepo: serviceRepo,
		cache:       cache,
	}
}

func (s *CatalogService) CreateClub(ctx context.Context, input repository.CreateClubInput) (*models.Club, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.City) == "" {
		return nil, ErrInvalidInput
	}
	club, err := s.clubRepo.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, cacheKeyClubs)
	return club, nil
}

func (s *CatalogService) GetClub(ctx context.Context, clubID int64) (*models.Club, error) {
	return s.clubRepo.GetByID(ctx, clubID)
}

func (s *CatalogService) UpdateClub(ctx context.Context, clubID int64, input repository.UpdateClubInput) (*models.Club, error) {
	club, err := s.clubRepo.UpdatePartial(ctx, clubID, input)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, cacheKeyClubs)
	return club, nil
}

func (s *CatalogService) ListClubs(ctx context.Context) ([]models.Club, error) {
	var clubs []models.Club
	if s.cacheGet(ctx, cacheKeyClubs, &clubs) {
		return clubs, nil
	}

	clubs, err := s.clubRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, cacheKeyClubs, clubs)
	return clubs, nil
}

func (s *CatalogService) CreateSport(ctx context.Context, name string) (*models.Sport, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidInput
	}
	sport, err := s.sportRepo.CreateSport(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, cacheKeySports)
	return sport, nil
}

// ListSports returns every sport with its tiers.
func (s *CatalogService) ListSports(ctx context.Context) ([]models.SportWithTiers, error) {
	var catalog []models.SportWithTiers
	if s.cacheGet(ctx, cacheKeySports, &catalog) {
		return catalog, nil
	}

	sports, err := s.sportRepo.ListSports(ctx)
	if err != nil {
		return nil, err
	}

	catalog = make([]models.SportWithTiers, 0, len(sports))
	for _, sport := range sports {
		tiers, err := s.sportRepo.ListTiersBySport(ctx, sport.ID)
		if err != nil {
			return nil, err
		}
		catalog = append(catalog, models.SportWithTiers{Sport: sport, Tiers: tiers})
	}

	s.cacheSet(ctx, cacheKeySports, catalog)
	return catalog, nil
}

func (s *CatalogService) CreateTier(ctx context.Context, input repository.CreateTierInput) (*models.SportTier, error) {
	if input.SportID <= 0 || strings.TrimSpace(input.Name) == "" || input.Price < 0 || input.DurationDays <= 0 {
		return nil, ErrInvalidInput
	}
	if _, err := s.sportRepo.GetSportByID(ctx, input.SportID); err != nil {
		return nil, err
	}
	tier, err := s.sportRepo.CreateTier(ctx, input)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, cacheKeySports)
	return tier, nil
}

func (s *CatalogService) ListServices(ctx context.Context) ([]models.TrainerService, error) {
	return s.serviceRepo.List(ctx)
}

func (s *CatalogService) CreateService(ctx context.Context, name string, description *string) (*models.TrainerService, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidInput
	}
	return s.serviceRepo.Create(ctx, strings.TrimSpace(name), description)
}

func (s *CatalogService) cacheGet(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.GetJSON(ctx, key, dest)
	if err != nil {
		log.Printf("catalog cache: get %s: %v", key, err)
		return false
	}
	return hit
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, value); err != nil {
		log.Printf("catalog cache: set %s: %v", key, err)
	}
}

func (s *CatalogService) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Printf("catalog cache: invalidate %s: %v", fmt.Sprint(keys), err)
	}
}
