package domain

import "github.com/shopspring/decimal"

// Place is a catalog-registered billing location with a default hourly rate.
type Place struct {
	ID      string          `json:"id" db:"id"`
	Name    string          `json:"name" db:"name"`
	Rate    decimal.Decimal `json:"rate" db:"rate"`
	Address string          `json:"address,omitempty" db:"address"`
}

// Catalog is a read-only view over the places loaded for one request.
type Catalog []Place

// Find returns the place with the given id.
func (c Catalog) Find(id string) (Place, bool) {
	for _, p := range c {
		if p.ID == id {
			return p, true
		}
	}
	return Place{}, false
}

// First returns the default selection for a fixed-place candidate.
func (c Catalog) First() (Place, bool) {
	if len(c) == 0 {
		return Place{}, false
	}
	return c[0], true
}
