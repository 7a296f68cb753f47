package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
	"github.com/cleanworks/invoicing-system/internal/core/ports"
)

func TestPlaceHandler_List(t *testing.T) {
	stub := &stubCatalog{
		listFn: func(context.Context) (domain.Catalog, error) {
			return domain.Catalog{
				{ID: "p1", Name: "Office A", Rate: decimal.NewFromInt(25)},
				{ID: "p2", Name: "Warehouse", Rate: decimal.RequireFromString("31.5"), Address: "1 Dock Rd"},
			}, nil
		},
	}
	c, rec := newTestContext(http.MethodGet, "/v1/places", "", normalUser)

	if err := NewPlaceHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp []placeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[0].Rate != "25.00" || resp[1].Rate != "31.50" || resp[1].Address != "1 Dock Rd" {
		t.Fatalf("unexpected places %+v", resp)
	}
}

func TestPlaceHandler_List_FetchError(t *testing.T) {
	stub := &stubCatalog{
		listFn: func(context.Context) (domain.Catalog, error) {
			return nil, fmt.Errorf("%w: connection refused", domain.ErrFetch)
		},
	}
	c, _ := newTestContext(http.MethodGet, "/v1/places", "", normalUser)

	if err := NewPlaceHandler(stub).List(c); !errors.Is(err, domain.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}

func TestPlaceHandler_Create(t *testing.T) {
	stub := &stubCatalog{
		createFn: func(ctx context.Context, actor *domain.User, in ports.CreatePlaceInput) (*domain.Place, error) {
			if in.Rate != "27.5" || in.Name != "Clinic" {
				t.Fatalf("unexpected input %+v", in)
			}
			return &domain.Place{ID: "p9", Name: in.Name, Rate: decimal.RequireFromString(in.Rate)}, nil
		},
	}
	h := NewPlaceHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/v1/admin/places", `{"name":"Clinic","rate":27.5}`, adminUser)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	c, _ = newTestContext(http.MethodPost, "/v1/admin/places", `{"rate":27.5}`, adminUser)
	if httpStatus(h.Create(c)) != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 without a name")
	}
}

func TestPlaceHandler_Create_RejectsNonNumericRate(t *testing.T) {
	stub := &stubCatalog{
		createFn: func(context.Context, *domain.User, ports.CreatePlaceInput) (*domain.Place, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	c, _ := newTestContext(http.MethodPost, "/v1/admin/places", `{"name":"Clinic","rate":"twenty"}`, adminUser)

	err := NewPlaceHandler(stub).Create(c)
	if httpStatus(err) != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
	if he := err.(*echo.HTTPError); he.Message != "rate must be a number" {
		t.Fatalf("unexpected message %v", he.Message)
	}
}
