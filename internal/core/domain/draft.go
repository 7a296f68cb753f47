package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPeriodDays is the length of the trailing window a fresh draft covers.
const DefaultPeriodDays = 14

// Period is the inclusive billing window of an invoice, in civil dates.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DefaultPeriod returns the trailing window ending on now's date.
func DefaultPeriod(now time.Time) Period {
	end := civilDate(now)
	return Period{Start: end.AddDate(0, 0, -DefaultPeriodDays), End: end}
}

// ParsePeriod reads both bounds as YYYY-MM-DD.
func ParsePeriod(start, end string) (Period, error) {
	s, err := time.Parse(time.DateOnly, strings.TrimSpace(start))
	if err != nil {
		return Period{}, NewValidationError("period_start", "must be a date in YYYY-MM-DD format")
	}
	e, err := time.Parse(time.DateOnly, strings.TrimSpace(end))
	if err != nil {
		return Period{}, NewValidationError("period_end", "must be a date in YYYY-MM-DD format")
	}
	return Period{Start: s, End: e}, nil
}

// Validate accepts a single-day period and rejects reversed bounds.
func (p Period) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return NewValidationError("period", "please select both invoice start and end dates")
	}
	if p.Start.After(p.End) {
		return NewValidationError("period", "invoice start date cannot be after the end date")
	}
	return nil
}

func (p Period) StartISO() string { return p.Start.Format(time.DateOnly) }
func (p Period) EndISO() string   { return p.End.Format(time.DateOnly) }

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Draft accumulates work entries for one invoice in insertion order.
type Draft struct {
	Period  Period      `json:"period"`
	Entries []WorkEntry `json:"entries"`
}

func NewDraft(period Period) Draft {
	return Draft{Period: period, Entries: []WorkEntry{}}
}

// AddEntry validates the candidate and appends the resulting entry.
func (d *Draft) AddEntry(c EntryCandidate, places Catalog) (WorkEntry, error) {
	entry, err := NewWorkEntry(c, places)
	if err != nil {
		return WorkEntry{}, err
	}
	d.Entries = append(d.Entries, entry)
	return entry, nil
}

// RemoveEntry drops the entry with the given id. Unknown ids are ignored; the
// result reports whether anything was removed.
func (d *Draft) RemoveEntry(id string) bool {
	for i, e := range d.Entries {
		if e.ID == id {
			d.Entries = append(d.Entries[:i], d.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// Total sums entry amounts. It is recomputed on every call.
func (d Draft) Total() decimal.Decimal {
	return SumAmounts(d.Entries)
}

func (d Draft) Empty() bool { return len(d.Entries) == 0 }

// SumAmounts adds up the stored amounts without rounding.
func SumAmounts(entries []WorkEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}
