package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
)

func sampleDraft(t *testing.T) domain.Draft {
	t.Helper()
	period, err := domain.ParsePeriod("2024-01-01", "2024-01-14")
	if err != nil {
		t.Fatalf("ParsePeriod: %v", err)
	}
	d := domain.NewDraft(period)
	if _, err := d.AddEntry(domain.EntryCandidate{Kind: domain.KindCasual, CasualPlaceName: "Depot", Hours: "1.5", Rate: "20"}, nil); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	return d
}

func TestInvoiceWriter_GenerateInvoice(t *testing.T) {
	repo := newStubInvoiceRepo(1)
	w := NewInvoiceWriter(repo, nopLogger())

	inv, err := w.GenerateInvoice(context.Background(), sampleDraft(t), "u1")
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}
	if inv.Number != 1 || inv.UserID != "u1" || inv.Status != domain.InvoiceStatusPending {
		t.Fatalf("unexpected invoice %+v", inv)
	}
	if !inv.Total.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected total 30, got %s", inv.Total)
	}
	if len(repo.entries[inv.ID]) != 1 {
		t.Fatalf("expected entries to be stored under %s", inv.ID)
	}
}

func TestInvoiceWriter_HeaderFailure(t *testing.T) {
	repo := newStubInvoiceRepo(1)
	repo.headerErr = errStore
	w := NewInvoiceWriter(repo, nopLogger())

	_, err := w.GenerateInvoice(context.Background(), sampleDraft(t), "u1")
	if !errors.Is(err, domain.ErrPersistence) || !errors.Is(err, errStore) {
		t.Fatalf("expected wrapped persistence error, got %v", err)
	}
	if errors.Is(err, domain.ErrPartialPersistence) {
		t.Fatalf("header failure is not a partial write")
	}
}

func TestInvoiceWriter_EntriesFailureKeepsNumber(t *testing.T) {
	repo := newStubInvoiceRepo(42)
	repo.entriesErr = errStore
	w := NewInvoiceWriter(repo, nopLogger())

	_, err := w.GenerateInvoice(context.Background(), sampleDraft(t), "u1")
	var partial *domain.PartialPersistenceError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialPersistenceError, got %v", err)
	}
	if partial.InvoiceNumber != 42 {
		t.Fatalf("expected number 42, got %d", partial.InvoiceNumber)
	}
	if !errors.Is(err, domain.ErrPartialPersistence) || !errors.Is(err, errStore) {
		t.Fatalf("expected both sentinel and cause, got %v", err)
	}
	if len(repo.headers) != 1 {
		t.Fatalf("header must stay persisted")
	}
}
