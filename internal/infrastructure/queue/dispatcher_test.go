package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
)

type recordingRepo struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	err    error
}

func (r *recordingRepo) Insert(_ context.Context, e *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	return r.err
}

func (r *recordingRepo) snapshot() []domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuditEvent(nil), r.events...)
}

func TestAuditDispatcher_PreservesPerUserOrder(t *testing.T) {
	repo := &recordingRepo{}
	d := NewAuditDispatcher(3, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	for i := int64(1); i <= 50; i++ {
		d.Record(domain.AuditEvent{UserID: "u1", Action: domain.AuditInvoiceGenerated, InvoiceNumber: i})
		d.Record(domain.AuditEvent{UserID: "u2", Action: domain.AuditDocumentIssued, InvoiceNumber: i})
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(repo.snapshot()) < 100 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	d.Wait()

	events := repo.snapshot()
	if len(events) != 100 {
		t.Fatalf("expected 100 events, got %d", len(events))
	}
	last := map[string]int64{}
	for _, e := range events {
		if e.InvoiceNumber <= last[e.UserID] {
			t.Fatalf("events for %s out of order: %d after %d", e.UserID, e.InvoiceNumber, last[e.UserID])
		}
		last[e.UserID] = e.InvoiceNumber
	}
}

func TestAuditDispatcher_FlushesOnShutdown(t *testing.T) {
	repo := &recordingRepo{}
	d := NewAuditDispatcher(1, repo, zerolog.Nop())

	d.Record(domain.AuditEvent{UserID: "u1", Action: domain.AuditRoleChanged})
	d.Record(domain.AuditEvent{UserID: "u1", Action: domain.AuditRoleChanged})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	if got := len(repo.snapshot()); got != 2 {
		t.Fatalf("expected buffered events to be flushed, got %d", got)
	}
}

func TestAuditDispatcher_WriteErrorDoesNotStopWorker(t *testing.T) {
	repo := &recordingRepo{err: errors.New("mongo down")}
	d := NewAuditDispatcher(1, repo, zerolog.Nop())

	d.Record(domain.AuditEvent{UserID: "u1"})
	d.Record(domain.AuditEvent{UserID: "u1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	if got := len(repo.snapshot()); got != 2 {
		t.Fatalf("expected both writes to be attempted, got %d", got)
	}
}

func TestAuditDispatcher_DropsWhenFull(t *testing.T) {
	repo := &recordingRepo{}
	d := NewAuditDispatcher(1, repo, zerolog.Nop())

	for i := 0; i < channelBuffer+10; i++ {
		d.Record(domain.AuditEvent{UserID: "u1"})
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected queue to cap at %d, got %d", channelBuffer, got)
	}
}
