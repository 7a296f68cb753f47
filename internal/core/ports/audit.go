package ports

import (
	"context"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
)

// AuditRepository stores audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// AuditRecorder accepts events for asynchronous recording.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}
