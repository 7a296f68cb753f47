package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const InvoiceStatusPending = "pending"

// Invoice is a persisted invoice header with its line items.
type Invoice struct {
	ID        string          `json:"id"`
	Number    int64           `json:"invoice_number"`
	UserID    string          `json:"user_id"`
	Period    Period          `json:"period"`
	Total     decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	Entries   []WorkEntry     `json:"entries,omitempty"`
}

// FormatInvoiceNumber renders the human-facing number, zero padded to 4 digits.
func FormatInvoiceNumber(n int64) string {
	return fmt.Sprintf("%04d", n)
}

// DocumentFileName is the deterministic download name for an invoice PDF.
func DocumentFileName(number int64, p Period) string {
	return fmt.Sprintf("invoice_%s_%s_to_%s.pdf", FormatInvoiceNumber(number), p.StartISO(), p.EndISO())
}

// Document is a rendered invoice ready to be served.
type Document struct {
	FileName    string
	ContentType string
	Content     []byte
}

// Issuer is the identity printed in the "From" block.
type Issuer struct {
	Profile
	Email string
}
