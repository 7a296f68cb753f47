package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
	"github.com/cleanworks/invoicing-system/internal/core/ports"
)

// --- Users ---

type stubUserRepo struct {
	users    map[string]*domain.User
	countErr error
	nextID   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = "user-" + strconv.Itoa(r.nextID)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	return int64(len(r.users)), nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id, role string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, p domain.Profile) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Profile = p
	return nil
}

// --- Places ---

type stubPlaceRepo struct {
	places  []domain.Place
	listErr error
	calls   int
}

func (r *stubPlaceRepo) List(_ context.Context) ([]domain.Place, error) {
	r.calls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]domain.Place(nil), r.places...), nil
}

func (r *stubPlaceRepo) Create(_ context.Context, p *domain.Place) error {
	p.ID = "p" + strconv.Itoa(len(r.places)+1)
	r.places = append(r.places, *p)
	return nil
}

func officeCatalog() *stubPlaceRepo {
	return &stubPlaceRepo{places: []domain.Place{
		{ID: "p1", Name: "Office A", Rate: decimal.NewFromInt(25)},
	}}
}

// --- Invoices ---

type stubInvoiceRepo struct {
	nextNumber int64
	headers    []*domain.Invoice
	entries    map[string][]domain.WorkEntry
	headerErr  error
	entriesErr error
	headerHook func()
}

func newStubInvoiceRepo(firstNumber int64) *stubInvoiceRepo {
	return &stubInvoiceRepo{nextNumber: firstNumber, entries: make(map[string][]domain.WorkEntry)}
}

func (r *stubInvoiceRepo) CreateHeader(_ context.Context, inv *domain.Invoice) error {
	if r.headerHook != nil {
		r.headerHook()
	}
	if r.headerErr != nil {
		return r.headerErr
	}
	inv.Number = r.nextNumber
	inv.ID = "inv-" + strconv.FormatInt(r.nextNumber, 10)
	inv.CreatedAt = time.Now().UTC()
	r.nextNumber++
	copy := *inv
	r.headers = append(r.headers, &copy)
	return nil
}

func (r *stubInvoiceRepo) InsertEntries(_ context.Context, invoiceID string, entries []domain.WorkEntry) error {
	if r.entriesErr != nil {
		return r.entriesErr
	}
	r.entries[invoiceID] = append([]domain.WorkEntry(nil), entries...)
	return nil
}

func (r *stubInvoiceRepo) FindByNumber(_ context.Context, number int64, userID string) (*domain.Invoice, error) {
	for _, h := range r.headers {
		if h.Number == number && (userID == "" || h.UserID == userID) {
			copy := *h
			copy.Entries = r.entries[h.ID]
			return &copy, nil
		}
	}
	return nil, domain.ErrInvoiceNotFound
}

func (r *stubInvoiceRepo) List(_ context.Context, userID string) ([]*domain.Invoice, error) {
	var out []*domain.Invoice
	for i := len(r.headers) - 1; i >= 0; i-- {
		if userID == "" || r.headers[i].UserID == userID {
			copy := *r.headers[i]
			out = append(out, &copy)
		}
	}
	return out, nil
}

// --- Sessions and lock ---

type memSessionStore struct {
	sessions map[string]domain.Session
	saveErr  error
	saves    int
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]domain.Session)}
}

func (m *memSessionStore) Load(_ context.Context, userID string) (*domain.Session, error) {
	s, ok := m.sessions[userID]
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	s.Draft.Entries = append([]domain.WorkEntry(nil), s.Draft.Entries...)
	return &s, nil
}

func (m *memSessionStore) Save(_ context.Context, s *domain.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	copy := *s
	copy.Draft.Entries = append([]domain.WorkEntry(nil), s.Draft.Entries...)
	m.sessions[s.UserID] = copy
	return nil
}

func (m *memSessionStore) Delete(_ context.Context, userID string) error {
	delete(m.sessions, userID)
	return nil
}

type memLock struct {
	mu     sync.Mutex
	tokens map[string]string
	seq    int
}

func newMemLock() *memLock {
	return &memLock{tokens: make(map[string]string)}
}

func (l *memLock) Acquire(_ context.Context, userID string, purpose ports.LockPurpose) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.tokens[userID]; ok {
		return "", false, nil
	}
	l.seq++
	token := string(purpose) + ":" + strconv.Itoa(l.seq)
	l.tokens[userID] = token
	return token, true, nil
}

func (l *memLock) Release(_ context.Context, userID, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.tokens[userID] != token {
		return ports.ErrLockLost
	}
	delete(l.tokens, userID)
	return nil
}

func (l *memLock) Holder(_ context.Context, userID string) (ports.LockPurpose, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	token, ok := l.tokens[userID]
	if !ok {
		return "", nil
	}
	purpose, _, _ := strings.Cut(token, ":")
	return ports.LockPurpose(purpose), nil
}

// gatedLock parks the first Acquire until the gate opens, so a test can
// line another call up behind it.
type gatedLock struct {
	*memLock
	once    sync.Once
	entered chan struct{}
	gate    chan struct{}
}

func newGatedLock(inner *memLock) *gatedLock {
	return &gatedLock{memLock: inner, entered: make(chan struct{}), gate: make(chan struct{})}
}

func (g *gatedLock) Acquire(ctx context.Context, userID string, purpose ports.LockPurpose) (string, bool, error) {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.gate
	}
	return g.memLock.Acquire(ctx, userID, purpose)
}

// --- Renderer and audit ---

type stubRenderer struct {
	inputs []ports.RenderInput
	err    error
}

func (r *stubRenderer) Render(in ports.RenderInput) ([]byte, error) {
	r.inputs = append(r.inputs, in)
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-stub"), nil
}

func (r *stubRenderer) ContentType() string { return "application/pdf" }

type stubAudit struct {
	events []domain.AuditEvent
}

func (a *stubAudit) Record(e domain.AuditEvent) { a.events = append(a.events, e) }

var errStore = errors.New("store unavailable")

func nopLogger() zerolog.Logger { return zerolog.Nop() }
