package domain

import "time"

const (
	AuditInvoiceGenerated = "invoice_generated"
	AuditInvoicePartial   = "invoice_partial"
	AuditDocumentIssued   = "document_issued"
	AuditDraftDiscarded   = "draft_discarded"
	AuditRoleChanged      = "role_changed"
)

// AuditEvent is an append-only record of something a user did.
type AuditEvent struct {
	UserID        string
	Action        string
	InvoiceNumber int64 // zero when not related to an invoice
	Detail        string
	OccurredAt    time.Time
}
