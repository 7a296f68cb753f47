package ports

import (
	"context"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
)

// InvoiceRepository defines persistence operations for invoices. Header and
// entries are written by separate calls; there is no surrounding transaction.
type InvoiceRepository interface {
	// CreateHeader inserts the header and fills in the store-assigned ID,
	// Number and CreatedAt.
	CreateHeader(ctx context.Context, inv *domain.Invoice) error
	// InsertEntries writes all entries of an invoice in one batch.
	InsertEntries(ctx context.Context, invoiceID string, entries []domain.WorkEntry) error
	// FindByNumber returns the invoice with its entries. When userID is
	// non-empty the lookup is restricted to that owner.
	FindByNumber(ctx context.Context, number int64, userID string) (*domain.Invoice, error)
	// List returns headers only, newest first. Empty userID lists everyone's.
	List(ctx context.Context, userID string) ([]*domain.Invoice, error)
}

// InvoicePersister is the write path used by the workflow.
type InvoicePersister interface {
	GenerateInvoice(ctx context.Context, draft domain.Draft, userID string) (*domain.Invoice, error)
}

// InvoiceService serves persisted invoices.
type InvoiceService interface {
	List(ctx context.Context, actor *domain.User) ([]*domain.Invoice, error)
	Get(ctx context.Context, actor *domain.User, number int64) (*domain.Invoice, error)
	Document(ctx context.Context, actor *domain.User, number int64) (*domain.Document, error)
}
