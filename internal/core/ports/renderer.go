package ports

import "github.com/cleanworks/invoicing-system/internal/core/domain"

// RenderInput is everything the document renderer needs. InvoiceNumber is
// nil before a number has been assigned.
type RenderInput struct {
	InvoiceNumber *int64
	Period        domain.Period
	Entries       []domain.WorkEntry
	Places        domain.Catalog
	Issuer        *domain.Issuer
}

// DocumentRenderer turns an invoice into printable bytes.
type DocumentRenderer interface {
	Render(in RenderInput) ([]byte, error)
	ContentType() string
}
