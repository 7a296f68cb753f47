package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
)

type PlaceRepository struct {
	db *sqlx.DB
}

func NewPlaceRepository(db *sqlx.DB) *PlaceRepository {
	return &PlaceRepository{db: db}
}

// List returns the catalog ordered by name.
func (r *PlaceRepository) List(ctx context.Context) ([]domain.Place, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	places := []domain.Place{}
	err := r.db.SelectContext(ctx, &places, `SELECT id, name, rate, address FROM places ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	return places, nil
}

// Create inserts a place and fills in its generated ID.
func (r *PlaceRepository) Create(ctx context.Context, p *domain.Place) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.db.QueryRowxContext(ctx,
		`INSERT INTO places (name, rate, address) VALUES ($1, $2, $3) RETURNING id`,
		p.Name, p.Rate, p.Address,
	).Scan(&p.ID)
}
