package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
)

const invoiceColumns = `id, invoice_number, user_id, invoice_date_start, invoice_date_end, amount, status, created_at`

type invoiceRow struct {
	ID        string          `db:"id"`
	Number    int64           `db:"invoice_number"`
	UserID    string          `db:"user_id"`
	Start     time.Time       `db:"invoice_date_start"`
	End       time.Time       `db:"invoice_date_end"`
	Amount    decimal.Decimal `db:"amount"`
	Status    string          `db:"status"`
	CreatedAt time.Time       `db:"created_at"`
}

func (r invoiceRow) toDomain() *domain.Invoice {
	return &domain.Invoice{
		ID:        r.ID,
		Number:    r.Number,
		UserID:    r.UserID,
		Period:    domain.Period{Start: dateOnly(r.Start), End: dateOnly(r.End)},
		Total:     r.Amount,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
}

type entryRow struct {
	ID              string          `db:"id"`
	InvoiceID       string          `db:"invoice_id"`
	Position        int             `db:"position"`
	PlaceID         sql.NullString  `db:"place_id"`
	CasualPlaceName sql.NullString  `db:"casual_place_name"`
	RateType        string          `db:"rate_type"`
	Hours           decimal.Decimal `db:"hours_worked"`
	Rate            decimal.Decimal `db:"hourly_rate"`
	Amount          decimal.Decimal `db:"amount"`
}

func newEntryRow(invoiceID string, position int, e domain.WorkEntry) entryRow {
	return entryRow{
		ID:              e.ID,
		InvoiceID:       invoiceID,
		Position:        position,
		PlaceID:         sql.NullString{String: e.PlaceID, Valid: e.PlaceID != ""},
		CasualPlaceName: sql.NullString{String: e.CasualPlaceName, Valid: e.CasualPlaceName != ""},
		RateType:        string(e.Kind),
		Hours:           e.Hours,
		Rate:            e.Rate,
		Amount:          e.Amount,
	}
}

func (r entryRow) toDomain() domain.WorkEntry {
	return domain.WorkEntry{
		ID:              r.ID,
		Kind:            domain.EntryKind(r.RateType),
		PlaceID:         r.PlaceID.String,
		CasualPlaceName: r.CasualPlaceName.String,
		Hours:           r.Hours,
		Rate:            r.Rate,
		Amount:          r.Amount,
	}
}

type InvoiceRepository struct {
	db *sqlx.DB
}

func NewInvoiceRepository(db *sqlx.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// CreateHeader inserts the invoice header. The database assigns the id, the
// sequential invoice number and the creation time.
func (r *InvoiceRepository) CreateHeader(ctx context.Context, inv *domain.Invoice) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	status := inv.Status
	if status == "" {
		status = domain.InvoiceStatusPending
	}

	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO invoices (user_id, invoice_date_start, invoice_date_end, amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, invoice_number, created_at`,
		inv.UserID, inv.Period.StartISO(), inv.Period.EndISO(), inv.Total, status,
	).Scan(&inv.ID, &inv.Number, &inv.CreatedAt)
	if err != nil {
		return err
	}
	inv.Status = status
	return nil
}

// InsertEntries writes all entries in a single statement, keeping their order.
func (r *InvoiceRepository) InsertEntries(ctx context.Context, invoiceID string, entries []domain.WorkEntry) error {
	if len(entries) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows := make([]entryRow, len(entries))
	for i, e := range entries {
		rows[i] = newEntryRow(invoiceID, i, e)
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO invoice_entries
			(id, invoice_id, position, place_id, casual_place_name, rate_type, hours_worked, hourly_rate, amount)
		VALUES
			(:id, :invoice_id, :position, :place_id, :casual_place_name, :rate_type, :hours_worked, :hourly_rate, :amount)`,
		rows,
	)
	return err
}

// FindByNumber loads the invoice and its entries. A non-empty userID restricts
// the lookup to that owner.
func (r *InvoiceRepository) FindByNumber(ctx context.Context, number int64, userID string) (*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_number = $1`
	args := []any{number}
	if userID != "" {
		query += ` AND user_id = $2`
		args = append(args, userID)
	}

	var row invoiceRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}

	var entries []entryRow
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, invoice_id, position, place_id, casual_place_name, rate_type, hours_worked, hourly_rate, amount
		FROM invoice_entries
		WHERE invoice_id = $1
		ORDER BY position`, row.ID)
	if err != nil {
		return nil, err
	}

	inv := row.toDomain()
	inv.Entries = make([]domain.WorkEntry, len(entries))
	for i, e := range entries {
		inv.Entries[i] = e.toDomain()
	}
	return inv, nil
}

// List returns invoice headers, newest first. An empty userID lists all.
func (r *InvoiceRepository) List(ctx context.Context, userID string) ([]*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	var args []any
	if userID != "" {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY invoice_number DESC`

	var rows []invoiceRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	out := make([]*domain.Invoice, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
