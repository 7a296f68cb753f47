package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
	"github.com/cleanworks/invoicing-system/internal/core/ports"
)

// InvoiceWriter persists a draft as an invoice header plus its entries.
// The two writes are independent: if the entries fail after the header was
// stored, the consumed invoice number is reported through
// *domain.PartialPersistenceError and nothing is rolled back.
type InvoiceWriter struct {
	repo   ports.InvoiceRepository
	logger zerolog.Logger
}

func NewInvoiceWriter(repo ports.InvoiceRepository, logger zerolog.Logger) *InvoiceWriter {
	return &InvoiceWriter{repo: repo, logger: logger}
}

// GenerateInvoice expects a non-empty draft with a valid period; callers check.
func (w *InvoiceWriter) GenerateInvoice(ctx context.Context, draft domain.Draft, userID string) (*domain.Invoice, error) {
	inv := &domain.Invoice{
		UserID: userID,
		Period: draft.Period,
		Total:  draft.Total(),
		Status: domain.InvoiceStatusPending,
	}

	if err := w.repo.CreateHeader(ctx, inv); err != nil {
		w.logger.Error().Err(err).Str("user_id", userID).Msg("failed to save main invoice")
		return nil, fmt.Errorf("%w: create invoice: %w", domain.ErrPersistence, err)
	}

	if err := w.repo.InsertEntries(ctx, inv.ID, draft.Entries); err != nil {
		w.logger.Error().Err(err).
			Int64("invoice_number", inv.Number).
			Str("invoice_id", inv.ID).
			Msg("invoice header saved but entries failed")
		return nil, &domain.PartialPersistenceError{InvoiceNumber: inv.Number, Err: err}
	}

	inv.Entries = draft.Entries
	w.logger.Info().
		Int64("invoice_number", inv.Number).
		Str("user_id", userID).
		Str("amount", inv.Total.StringFixed(2)).
		Int("entries", len(draft.Entries)).
		Msg("invoice saved")
	return inv, nil
}
