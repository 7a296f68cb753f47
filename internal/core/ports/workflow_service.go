package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
)

// SessionView is the read model of a user's workflow session.
type SessionView struct {
	State         domain.WorkflowState
	Period        domain.Period
	Entries       []domain.WorkEntry
	Total         decimal.Decimal
	InvoiceNumber *int64
}

// GenerateResult is returned by a successful generate.
type GenerateResult struct {
	InvoiceNumber int64
	Total         decimal.Decimal
	Session       SessionView
}

// WorkflowService drives the invoice workflow for one authenticated user.
type WorkflowService interface {
	Session(ctx context.Context, userID string) (*SessionView, error)
	PrepareCandidate(ctx context.Context, current domain.EntryCandidate, kind domain.EntryKind, placeID string) (domain.EntryCandidate, error)
	SetPeriod(ctx context.Context, userID, start, end string) (*SessionView, error)
	AddEntry(ctx context.Context, userID string, candidate domain.EntryCandidate) (*domain.WorkEntry, *SessionView, error)
	RemoveEntry(ctx context.Context, userID, entryID string) (*SessionView, error)
	Discard(ctx context.Context, userID string) (*SessionView, error)
	Generate(ctx context.Context, userID string) (*GenerateResult, error)
	DownloadDocument(ctx context.Context, userID string) (*domain.Document, error)
}
