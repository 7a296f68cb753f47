package ports

import (
	"context"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
)

// PlaceRepository is the rate catalog store.
type PlaceRepository interface {
	List(ctx context.Context) ([]domain.Place, error)
	Create(ctx context.Context, place *domain.Place) error
}

// CatalogService exposes the rate catalog to the transport layer.
type CatalogService interface {
	ListPlaces(ctx context.Context) (domain.Catalog, error)
	CreatePlace(ctx context.Context, actor *domain.User, input CreatePlaceInput) (*domain.Place, error)
}

// CreatePlaceInput carries a new catalog entry; Rate is raw decimal text.
type CreatePlaceInput struct {
	Name    string
	Rate    string
	Address string
}
