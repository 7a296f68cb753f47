package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cleanworks/invoicing-system/internal/api/middleware"
	"github.com/cleanworks/invoicing-system/internal/core/domain"
	"github.com/cleanworks/invoicing-system/internal/core/ports"
)

func newTestContext(method, path, body string, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(middleware.ContextKeyUser, user)
	}
	return c, rec
}

func httpStatus(err error) int {
	he, ok := err.(*echo.HTTPError)
	if !ok {
		return 0
	}
	return he.Code
}

var (
	normalUser = &domain.User{ID: "u1", Email: "w@example.com", Role: domain.RoleNormal}
	adminUser  = &domain.User{ID: "a1", Email: "admin@example.com", Role: domain.RoleAdmin}
)

// --- stubs ---

type stubAuthService struct {
	signUpFn         func(ctx context.Context, email, password string, profile domain.Profile) (*domain.User, error)
	loginFn          func(ctx context.Context, email, password string) (string, *domain.User, error)
	changePasswordFn func(ctx context.Context, userID, password, confirmation string) error
}

func (s *stubAuthService) SignUp(ctx context.Context, email, password string, profile domain.Profile) (*domain.User, error) {
	return s.signUpFn(ctx, email, password, profile)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID, password, confirmation string) error {
	return s.changePasswordFn(ctx, userID, password, confirmation)
}

type stubWorkflow struct {
	sessionFn   func(ctx context.Context, userID string) (*ports.SessionView, error)
	prepareFn   func(ctx context.Context, current domain.EntryCandidate, kind domain.EntryKind, placeID string) (domain.EntryCandidate, error)
	setPeriodFn func(ctx context.Context, userID, start, end string) (*ports.SessionView, error)
	addEntryFn  func(ctx context.Context, userID string, c domain.EntryCandidate) (*domain.WorkEntry, *ports.SessionView, error)
	removeFn    func(ctx context.Context, userID, entryID string) (*ports.SessionView, error)
	discardFn   func(ctx context.Context, userID string) (*ports.SessionView, error)
	generateFn  func(ctx context.Context, userID string) (*ports.GenerateResult, error)
	downloadFn  func(ctx context.Context, userID string) (*domain.Document, error)
}

func (s *stubWorkflow) Session(ctx context.Context, userID string) (*ports.SessionView, error) {
	return s.sessionFn(ctx, userID)
}

func (s *stubWorkflow) PrepareCandidate(ctx context.Context, current domain.EntryCandidate, kind domain.EntryKind, placeID string) (domain.EntryCandidate, error) {
	return s.prepareFn(ctx, current, kind, placeID)
}

func (s *stubWorkflow) SetPeriod(ctx context.Context, userID, start, end string) (*ports.SessionView, error) {
	return s.setPeriodFn(ctx, userID, start, end)
}

func (s *stubWorkflow) AddEntry(ctx context.Context, userID string, c domain.EntryCandidate) (*domain.WorkEntry, *ports.SessionView, error) {
	return s.addEntryFn(ctx, userID, c)
}

func (s *stubWorkflow) RemoveEntry(ctx context.Context, userID, entryID string) (*ports.SessionView, error) {
	return s.removeFn(ctx, userID, entryID)
}

func (s *stubWorkflow) Discard(ctx context.Context, userID string) (*ports.SessionView, error) {
	return s.discardFn(ctx, userID)
}

func (s *stubWorkflow) Generate(ctx context.Context, userID string) (*ports.GenerateResult, error) {
	return s.generateFn(ctx, userID)
}

func (s *stubWorkflow) DownloadDocument(ctx context.Context, userID string) (*domain.Document, error) {
	return s.downloadFn(ctx, userID)
}

type stubInvoiceService struct {
	listFn     func(ctx context.Context, actor *domain.User) ([]*domain.Invoice, error)
	getFn      func(ctx context.Context, actor *domain.User, number int64) (*domain.Invoice, error)
	documentFn func(ctx context.Context, actor *domain.User, number int64) (*domain.Document, error)
}

func (s *stubInvoiceService) List(ctx context.Context, actor *domain.User) ([]*domain.Invoice, error) {
	return s.listFn(ctx, actor)
}

func (s *stubInvoiceService) Get(ctx context.Context, actor *domain.User, number int64) (*domain.Invoice, error) {
	return s.getFn(ctx, actor, number)
}

func (s *stubInvoiceService) Document(ctx context.Context, actor *domain.User, number int64) (*domain.Document, error) {
	return s.documentFn(ctx, actor, number)
}

type stubCatalog struct {
	listFn   func(ctx context.Context) (domain.Catalog, error)
	createFn func(ctx context.Context, actor *domain.User, in ports.CreatePlaceInput) (*domain.Place, error)
}

func (s *stubCatalog) ListPlaces(ctx context.Context) (domain.Catalog, error) {
	return s.listFn(ctx)
}

func (s *stubCatalog) CreatePlace(ctx context.Context, actor *domain.User, in ports.CreatePlaceInput) (*domain.Place, error) {
	return s.createFn(ctx, actor, in)
}

type stubUserService struct {
	profileFn    func(ctx context.Context, userID string) (*domain.User, error)
	updateFn     func(ctx context.Context, userID string, p domain.Profile) (*domain.User, error)
	listFn       func(ctx context.Context, actor *domain.User) ([]*domain.User, error)
	changeRoleFn func(ctx context.Context, actor *domain.User, userID, role string) error
}

func (s *stubUserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.profileFn(ctx, userID)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, userID string, p domain.Profile) (*domain.User, error) {
	return s.updateFn(ctx, userID, p)
}

func (s *stubUserService) ListUsers(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	return s.listFn(ctx, actor)
}

func (s *stubUserService) ChangeRole(ctx context.Context, actor *domain.User, userID, role string) error {
	return s.changeRoleFn(ctx, actor, userID, role)
}
