package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
	"github.com/cleanworks/invoicing-system/internal/core/ports"
)

// CatalogService serves the rate catalog.
type CatalogService struct {
	repo   ports.PlaceRepository
	logger zerolog.Logger
}

func NewCatalogService(repo ports.PlaceRepository, logger zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger}
}

// ListPlaces loads the catalog. Store failures surface as ErrFetch.
func (s *CatalogService) ListPlaces(ctx context.Context) (domain.Catalog, error) {
	places, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load places")
		return nil, fmt.Errorf("%w: list places: %w", domain.ErrFetch, err)
	}
	return domain.Catalog(places), nil
}

func (s *CatalogService) CreatePlace(ctx context.Context, actor *domain.User, in ports.CreatePlaceInput) (*domain.Place, error) {
	if !domain.HasRole(actor, domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	rate, err := decimal.NewFromString(strings.TrimSpace(in.Rate))
	if err != nil || !rate.IsPositive() {
		return nil, domain.NewValidationError("rate", "must be a positive number")
	}

	place := &domain.Place{Name: name, Rate: rate, Address: strings.TrimSpace(in.Address)}
	if err := s.repo.Create(ctx, place); err != nil {
		return nil, fmt.Errorf("%w: create place: %w", domain.ErrPersistence, err)
	}
	s.logger.Info().Str("place_id", place.ID).Str("name", place.Name).Msg("place created")
	return place, nil
}
