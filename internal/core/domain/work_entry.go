package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryKind discriminates catalog-backed entries from ad hoc ones.
type EntryKind string

const (
	KindFixed  EntryKind = "fixed_hourly"
	KindCasual EntryKind = "casual"
)

func (k EntryKind) Valid() bool {
	return k == KindFixed || k == KindCasual
}

// WorkEntry is one billable line of an invoice draft. Amount is fixed at
// creation and never recomputed.
type WorkEntry struct {
	ID              string          `json:"id"`
	Kind            EntryKind       `json:"rate_type"`
	PlaceID         string          `json:"place_id,omitempty"`
	CasualPlaceName string          `json:"casual_place_name,omitempty"`
	Hours           decimal.Decimal `json:"hours_worked"`
	Rate            decimal.Decimal `json:"hourly_rate"`
	Amount          decimal.Decimal `json:"amount"`
}

// PlaceName resolves the printable location for an entry. It never fails.
func (e WorkEntry) PlaceName(places Catalog) string {
	if e.CasualPlaceName != "" {
		return e.CasualPlaceName
	}
	if p, ok := places.Find(e.PlaceID); ok && p.Name != "" {
		return p.Name
	}
	return "Unknown Place"
}

// EntryCandidate is the entry being filled in before it is added. Hours and
// Rate stay as raw text until AddEntry parses them.
type EntryCandidate struct {
	Kind            EntryKind `json:"kind"`
	PlaceID         string    `json:"place_id,omitempty"`
	CasualPlaceName string    `json:"casual_place_name,omitempty"`
	Hours           string    `json:"hours"`
	Rate            string    `json:"rate"`
}

// SwitchKind moves the candidate to another kind, clearing whatever was
// partially entered. Switching to fixed preselects the first catalog place.
func (c EntryCandidate) SwitchKind(kind EntryKind, places Catalog) EntryCandidate {
	next := EntryCandidate{Kind: kind}
	if kind == KindFixed {
		if p, ok := places.First(); ok {
			next.PlaceID = p.ID
			next.Rate = p.Rate.String()
		}
	}
	return next
}

// SelectPlace points a fixed candidate at another place and copies its rate.
// Hours are cleared along with the rate.
func (c EntryCandidate) SelectPlace(placeID string, places Catalog) EntryCandidate {
	next := EntryCandidate{Kind: KindFixed, PlaceID: placeID}
	if p, ok := places.Find(placeID); ok {
		next.Rate = p.Rate.String()
	}
	return next
}

// NewWorkEntry validates a candidate against the catalog and builds the entry.
// A fixed candidate without a rate takes the catalog rate.
func NewWorkEntry(c EntryCandidate, places Catalog) (WorkEntry, error) {
	hours, err := positiveDecimal(c.Hours)
	if err != nil {
		return WorkEntry{}, NewValidationError("hours", "please enter a valid number of hours worked")
	}

	entry := WorkEntry{ID: uuid.NewString(), Kind: c.Kind, Hours: hours}

	switch c.Kind {
	case KindCasual:
		name := strings.TrimSpace(c.CasualPlaceName)
		if name == "" {
			return WorkEntry{}, NewValidationError("casual_place_name", "please fill in the casual place name")
		}
		entry.CasualPlaceName = name
	case KindFixed:
		if c.PlaceID == "" {
			return WorkEntry{}, NewValidationError("place_id", "please select a place for the entry")
		}
		p, ok := places.Find(c.PlaceID)
		if !ok {
			return WorkEntry{}, NewValidationError("place_id", "selected place for entry not found")
		}
		entry.PlaceID = p.ID
		if strings.TrimSpace(c.Rate) == "" {
			c.Rate = p.Rate.String()
		}
	default:
		return WorkEntry{}, NewValidationError("kind", "must be one of: fixed_hourly casual")
	}

	rate, err := positiveDecimal(c.Rate)
	if err != nil {
		return WorkEntry{}, NewValidationError("rate", "please enter a valid hourly rate")
	}
	entry.Rate = rate
	entry.Amount = hours.Mul(rate)
	return entry, nil
}

func positiveDecimal(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrValidation
	}
	return d, nil
}
