package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
	"github.com/cleanworks/invoicing-system/internal/core/ports"
)

// InvoiceService serves the invoice history. Normal users only ever see their
// own invoices; admins see everyone's.
type InvoiceService struct {
	repo     ports.InvoiceRepository
	catalog  ports.CatalogService
	users    ports.UserRepository
	renderer ports.DocumentRenderer
	logger   zerolog.Logger
}

func NewInvoiceService(
	repo ports.InvoiceRepository,
	catalog ports.CatalogService,
	users ports.UserRepository,
	renderer ports.DocumentRenderer,
	logger zerolog.Logger,
) *InvoiceService {
	return &InvoiceService{repo: repo, catalog: catalog, users: users, renderer: renderer, logger: logger}
}

func (s *InvoiceService) List(ctx context.Context, actor *domain.User) ([]*domain.Invoice, error) {
	owner, err := ownerFilter(actor)
	if err != nil {
		return nil, err
	}
	invoices, err := s.repo.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("%w: list invoices: %w", domain.ErrFetch, err)
	}
	return invoices, nil
}

func (s *InvoiceService) Get(ctx context.Context, actor *domain.User, number int64) (*domain.Invoice, error) {
	owner, err := ownerFilter(actor)
	if err != nil {
		return nil, err
	}
	inv, err := s.repo.FindByNumber(ctx, number, owner)
	if err != nil {
		if errors.Is(err, domain.ErrInvoiceNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: get invoice: %w", domain.ErrFetch, err)
	}
	return inv, nil
}

// Document re-renders a persisted invoice using its owner's current profile.
func (s *InvoiceService) Document(ctx context.Context, actor *domain.User, number int64) (*domain.Document, error) {
	inv, err := s.Get(ctx, actor, number)
	if err != nil {
		return nil, err
	}
	places, err := s.catalog.ListPlaces(ctx)
	if err != nil {
		return nil, err
	}

	content, err := s.renderer.Render(ports.RenderInput{
		InvoiceNumber: &inv.Number,
		Period:        inv.Period,
		Entries:       inv.Entries,
		Places:        places,
		Issuer:        issuerFor(ctx, s.users, inv.UserID, s.logger),
	})
	if err != nil {
		return nil, fmt.Errorf("render invoice %d: %w", inv.Number, err)
	}

	return &domain.Document{
		FileName:    domain.DocumentFileName(inv.Number, inv.Period),
		ContentType: s.renderer.ContentType(),
		Content:     content,
	}, nil
}

func ownerFilter(actor *domain.User) (string, error) {
	if actor == nil || actor.ID == "" {
		return "", domain.ErrUnauthenticated
	}
	if domain.HasRole(actor, domain.RoleAdmin) {
		return "", nil
	}
	return actor.ID, nil
}
