package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
	"github.com/cleanworks/invoicing-system/internal/core/ports"
)

// WorkflowDeps groups the collaborators of WorkflowService.
type WorkflowDeps struct {
	Sessions ports.SessionStore
	Lock     ports.SessionLock
	Catalog  ports.CatalogService
	Invoices ports.InvoicePersister
	Users    ports.UserRepository
	Renderer ports.DocumentRenderer
	Audit    ports.AuditRecorder
}

// WorkflowService owns each user's draft from the first entry to the
// downloaded document. Sessions live in the SessionStore. Every change to a
// session happens under the SessionLock; the generating state is the lock
// being held for a generate.
type WorkflowService struct {
	deps   WorkflowDeps
	logger zerolog.Logger
	now    func() time.Time
}

func NewWorkflowService(deps WorkflowDeps, logger zerolog.Logger) *WorkflowService {
	return &WorkflowService{deps: deps, logger: logger, now: time.Now}
}

func (w *WorkflowService) Session(ctx context.Context, userID string) (*ports.SessionView, error) {
	sess, err := w.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	holder, err := w.deps.Lock.Holder(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check session lock: %w", err)
	}
	return sessionView(sess, holder == ports.LockGenerate), nil
}

// PrepareCandidate applies the kind and place selection rules to the entry
// being filled in. Added entries are not involved.
func (w *WorkflowService) PrepareCandidate(ctx context.Context, current domain.EntryCandidate, kind domain.EntryKind, placeID string) (domain.EntryCandidate, error) {
	if kind != "" && !kind.Valid() {
		return current, domain.NewValidationError("kind", "must be one of: fixed_hourly casual")
	}

	places, err := w.deps.Catalog.ListPlaces(ctx)
	if err != nil {
		return current, err
	}

	next := current
	if kind != "" && kind != current.Kind {
		next = current.SwitchKind(kind, places)
	}
	if placeID != "" && next.Kind == domain.KindFixed && placeID != next.PlaceID {
		next = next.SelectPlace(placeID, places)
	}
	return next, nil
}

func (w *WorkflowService) SetPeriod(ctx context.Context, userID, start, end string) (*ports.SessionView, error) {
	period, err := domain.ParsePeriod(start, end)
	if err != nil {
		return nil, err
	}

	release, err := w.hold(ctx, userID, ports.LockEdit)
	if err != nil {
		return nil, err
	}
	defer release()

	sess, err := w.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	sess.Draft.Period = period
	sess.UpdatedAt = w.now().UTC()

	if err := w.save(ctx, sess); err != nil {
		return nil, err
	}
	return sessionView(sess, false), nil
}

func (w *WorkflowService) AddEntry(ctx context.Context, userID string, candidate domain.EntryCandidate) (*domain.WorkEntry, *ports.SessionView, error) {
	if userID == "" {
		return nil, nil, domain.ErrUnauthenticated
	}

	var places domain.Catalog
	if candidate.Kind == domain.KindFixed {
		var err error
		if places, err = w.deps.Catalog.ListPlaces(ctx); err != nil {
			return nil, nil, err
		}
	}

	release, err := w.hold(ctx, userID, ports.LockEdit)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	sess, err := w.load(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	entry, err := sess.Draft.AddEntry(candidate, places)
	if err != nil {
		return nil, nil, err
	}
	sess.Edited(w.now())

	if err := w.save(ctx, sess); err != nil {
		return nil, nil, err
	}

	w.logger.Debug().Str("user_id", userID).Str("entry_id", entry.ID).Str("kind", string(entry.Kind)).Msg("entry added")
	return &entry, sessionView(sess, false), nil
}

// RemoveEntry drops an entry from the draft. Unknown ids are not an error.
func (w *WorkflowService) RemoveEntry(ctx context.Context, userID, entryID string) (*ports.SessionView, error) {
	release, err := w.hold(ctx, userID, ports.LockEdit)
	if err != nil {
		return nil, err
	}
	defer release()

	sess, err := w.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	removed := sess.Draft.RemoveEntry(entryID)
	sess.Edited(w.now())

	if err := w.save(ctx, sess); err != nil {
		return nil, err
	}

	w.logger.Debug().Str("user_id", userID).Str("entry_id", entryID).Bool("removed", removed).Msg("entry removed")
	return sessionView(sess, false), nil
}

// Discard throws the session away, including a held invoice number, and
// returns the fresh draft that replaces it. Persisted invoices are untouched.
func (w *WorkflowService) Discard(ctx context.Context, userID string) (*ports.SessionView, error) {
	release, err := w.hold(ctx, userID, ports.LockEdit)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := w.deps.Sessions.Delete(ctx, userID); err != nil {
		return nil, fmt.Errorf("delete session: %w", err)
	}

	w.logger.Info().Str("user_id", userID).Msg("draft discarded")
	w.record(userID, domain.AuditDraftDiscarded, 0, "")
	return sessionView(domain.NewSession(userID, w.now()), false), nil
}

// Generate persists the draft and assigns the invoice number. The session is
// read only after the lock is taken, so a call that waited behind another
// generate sees the reset draft. Validation happens before anything is
// written; a second call while one is running is rejected with
// ErrAlreadyInProgress.
func (w *WorkflowService) Generate(ctx context.Context, userID string) (*ports.GenerateResult, error) {
	release, err := w.hold(ctx, userID, ports.LockGenerate)
	if err != nil {
		return nil, err
	}
	defer release()

	sess, err := w.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := sess.Draft.Period.Validate(); err != nil {
		return nil, err
	}
	if sess.Draft.Empty() {
		return nil, domain.NewValidationError("entries", "please add at least one work entry before generating the invoice")
	}

	// Once started, a generate runs to completion even if the caller goes away.
	runCtx := context.WithoutCancel(ctx)

	if err := sess.Transition(domain.StateGenerating); err != nil {
		return nil, fmt.Errorf("generate from %s: %w", sess.State, err)
	}

	inv, err := w.deps.Invoices.GenerateInvoice(runCtx, sess.Draft, userID)
	if err != nil {
		var partial *domain.PartialPersistenceError
		if errors.As(err, &partial) {
			w.record(userID, domain.AuditInvoicePartial, partial.InvoiceNumber, err.Error())
		}
		return nil, err
	}

	sess.Issue(inv.Number, w.now())
	if err := w.save(runCtx, sess); err != nil {
		return nil, fmt.Errorf("invoice %s saved: %w", domain.FormatInvoiceNumber(inv.Number), err)
	}

	w.logger.Info().Str("user_id", userID).Int64("invoice_number", inv.Number).Msg("invoice generated")
	w.record(userID, domain.AuditInvoiceGenerated, inv.Number, inv.Total.StringFixed(2))

	return &ports.GenerateResult{
		InvoiceNumber: inv.Number,
		Total:         inv.Total,
		Session:       *sessionView(sess, false),
	}, nil
}

// DownloadDocument renders the most recently generated invoice.
func (w *WorkflowService) DownloadDocument(ctx context.Context, userID string) (*domain.Document, error) {
	sess, err := w.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sess.State != domain.StateGenerated || sess.Issued == nil {
		return nil, domain.ErrNotGenerated
	}

	places, err := w.deps.Catalog.ListPlaces(ctx)
	if err != nil {
		return nil, err
	}

	issued := sess.Issued
	number := issued.Number
	content, err := w.deps.Renderer.Render(ports.RenderInput{
		InvoiceNumber: &number,
		Period:        issued.Period,
		Entries:       issued.Entries,
		Places:        places,
		Issuer:        issuerFor(ctx, w.deps.Users, userID, w.logger),
	})
	if err != nil {
		return nil, fmt.Errorf("render invoice %d: %w", number, err)
	}

	w.record(userID, domain.AuditDocumentIssued, number, "")
	return &domain.Document{
		FileName:    domain.DocumentFileName(number, issued.Period),
		ContentType: w.deps.Renderer.ContentType(),
		Content:     content,
	}, nil
}

func (w *WorkflowService) load(ctx context.Context, userID string) (*domain.Session, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	sess, err := w.deps.Sessions.Load(ctx, userID)
	if errors.Is(err, ports.ErrSessionNotFound) {
		return domain.NewSession(userID, w.now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// hold takes the session lock and returns the func that gives it back.
// A generate in flight yields ErrAlreadyInProgress, any other holder
// ErrSessionBusy.
func (w *WorkflowService) hold(ctx context.Context, userID string, purpose ports.LockPurpose) (func(), error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}

	token, ok, err := w.deps.Lock.Acquire(ctx, userID, purpose)
	if err != nil {
		return nil, fmt.Errorf("acquire session lock: %w", err)
	}
	if !ok {
		holder, err := w.deps.Lock.Holder(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("check session lock: %w", err)
		}
		if holder == ports.LockGenerate {
			return nil, domain.ErrAlreadyInProgress
		}
		return nil, domain.ErrSessionBusy
	}

	releaseCtx := context.WithoutCancel(ctx)
	return func() {
		if err := w.deps.Lock.Release(releaseCtx, userID, token); err != nil {
			w.logger.Warn().Err(err).Str("user_id", userID).Str("purpose", string(purpose)).Msg("failed to release session lock")
		}
	}, nil
}

func (w *WorkflowService) save(ctx context.Context, sess *domain.Session) error {
	if err := w.deps.Sessions.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (w *WorkflowService) record(userID, action string, number int64, detail string) {
	w.deps.Audit.Record(domain.AuditEvent{
		UserID:        userID,
		Action:        action,
		InvoiceNumber: number,
		Detail:        detail,
		OccurredAt:    w.now().UTC(),
	})
}

func sessionView(sess *domain.Session, generating bool) *ports.SessionView {
	v := &ports.SessionView{
		State:   sess.State,
		Period:  sess.Draft.Period,
		Entries: sess.Draft.Entries,
		Total:   sess.Draft.Total(),
	}
	if generating {
		v.State = domain.StateGenerating
	}
	if sess.Issued != nil {
		n := sess.Issued.Number
		v.InvoiceNumber = &n
	}
	return v
}

// issuerFor loads the "From" identity. A missing profile renders placeholders.
func issuerFor(ctx context.Context, users ports.UserRepository, userID string, logger zerolog.Logger) *domain.Issuer {
	u, err := users.FindByID(ctx, userID)
	if err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("issuer profile unavailable, rendering placeholders")
		return nil
	}
	return &domain.Issuer{Profile: u.Profile, Email: u.Email}
}
