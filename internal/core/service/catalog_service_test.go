package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
	"github.com/cleanworks/invoicing-system/internal/core/ports"
)

func TestCatalogService_ListPlaces(t *testing.T) {
	svc := NewCatalogService(officeCatalog(), nopLogger())

	places, err := svc.ListPlaces(context.Background())
	if err != nil {
		t.Fatalf("ListPlaces: %v", err)
	}
	if len(places) != 1 || places[0].Name != "Office A" {
		t.Fatalf("unexpected places %+v", places)
	}
}

func TestCatalogService_ListPlaces_FetchError(t *testing.T) {
	svc := NewCatalogService(&stubPlaceRepo{listErr: errStore}, nopLogger())

	_, err := svc.ListPlaces(context.Background())
	if !errors.Is(err, domain.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
	if !errors.Is(err, errStore) {
		t.Fatalf("expected cause to be kept, got %v", err)
	}
}

func TestCatalogService_CreatePlace(t *testing.T) {
	repo := &stubPlaceRepo{}
	svc := NewCatalogService(repo, nopLogger())
	admin := &domain.User{ID: "a1", Role: domain.RoleAdmin}

	place, err := svc.CreatePlace(context.Background(), admin, ports.CreatePlaceInput{Name: " Office B ", Rate: "27.5"})
	if err != nil {
		t.Fatalf("CreatePlace: %v", err)
	}
	if place.ID == "" || place.Name != "Office B" || place.Rate.StringFixed(2) != "27.50" {
		t.Fatalf("unexpected place %+v", place)
	}

	if _, err := svc.CreatePlace(context.Background(), admin, ports.CreatePlaceInput{Name: "X", Rate: "-1"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	normal := &domain.User{ID: "n1", Role: domain.RoleNormal}
	if _, err := svc.CreatePlace(context.Background(), normal, ports.CreatePlaceInput{Name: "X", Rate: "1"}); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
