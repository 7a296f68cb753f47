package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
)

func sampleInvoice(number int64, owner string) *domain.Invoice {
	return &domain.Invoice{
		ID:        "inv-1",
		Number:    number,
		UserID:    owner,
		Period:    samplePeriod(),
		Total:     decimal.RequireFromString("160"),
		Status:    domain.InvoiceStatusPending,
		CreatedAt: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestInvoiceHandler_List(t *testing.T) {
	stub := &stubInvoiceService{
		listFn: func(ctx context.Context, actor *domain.User) ([]*domain.Invoice, error) {
			if actor.ID != "u1" {
				t.Fatalf("expected caller to be passed through, got %s", actor.ID)
			}
			return []*domain.Invoice{sampleInvoice(8, "u1"), sampleInvoice(7, "u1")}, nil
		},
	}
	c, rec := newTestContext(http.MethodGet, "/v1/invoices", "", normalUser)

	if err := NewInvoiceHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp []invoiceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[0].InvoiceNumber != 8 || resp[0].InvoiceLabel != "0008" {
		t.Fatalf("unexpected list %+v", resp)
	}
	if resp[0].Links.Document != "/v1/invoices/8/document" {
		t.Fatalf("unexpected links %+v", resp[0].Links)
	}
	if resp[0].Total != "160.00" || resp[0].StartDate != "2024-01-01" {
		t.Fatalf("unexpected header %+v", resp[0])
	}
}

func TestInvoiceHandler_Get(t *testing.T) {
	stub := &stubInvoiceService{
		getFn: func(ctx context.Context, actor *domain.User, number int64) (*domain.Invoice, error) {
			if number != 7 {
				return nil, domain.ErrInvoiceNotFound
			}
			inv := sampleInvoice(7, actor.ID)
			inv.Entries = []domain.WorkEntry{{
				ID:      "e1",
				Kind:    domain.KindFixed,
				PlaceID: "p1",
				Hours:   decimal.NewFromInt(4),
				Rate:    decimal.NewFromInt(25),
				Amount:  decimal.NewFromInt(100),
			}}
			return inv, nil
		},
	}
	h := NewInvoiceHandler(stub)

	c, rec := newTestContext(http.MethodGet, "/v1/invoices/7", "", normalUser)
	c.SetParamNames("number")
	c.SetParamValues("7")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp invoiceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Entries) != 1 || resp.Entries[0].Amount != "100.00" {
		t.Fatalf("unexpected entries %+v", resp.Entries)
	}

	c, _ = newTestContext(http.MethodGet, "/v1/invoices/9", "", normalUser)
	c.SetParamNames("number")
	c.SetParamValues("9")
	if err := h.Get(c); !errors.Is(err, domain.ErrInvoiceNotFound) {
		t.Fatalf("expected ErrInvoiceNotFound, got %v", err)
	}
}

func TestInvoiceHandler_BadNumber(t *testing.T) {
	h := NewInvoiceHandler(&stubInvoiceService{})
	for _, raw := range []string{"abc", "0", "-3"} {
		c, _ := newTestContext(http.MethodGet, "/v1/invoices/"+raw, "", normalUser)
		c.SetParamNames("number")
		c.SetParamValues(raw)
		if httpStatus(h.Get(c)) != http.StatusBadRequest {
			t.Errorf("expected 400 for %q", raw)
		}
	}
}

func TestInvoiceHandler_Document(t *testing.T) {
	stub := &stubInvoiceService{
		documentFn: func(ctx context.Context, actor *domain.User, number int64) (*domain.Document, error) {
			return &domain.Document{
				FileName:    domain.DocumentFileName(number, samplePeriod()),
				ContentType: "application/pdf",
				Content:     []byte("%PDF-"),
			}, nil
		},
	}
	c, rec := newTestContext(http.MethodGet, "/v1/invoices/12/document", "", adminUser)
	c.SetParamNames("number")
	c.SetParamValues("12")

	if err := NewInvoiceHandler(stub).Document(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	want := `attachment; filename="invoice_0012_2024-01-01_to_2024-01-14.pdf"`
	if got := rec.Header().Get("Content-Disposition"); got != want {
		t.Fatalf("unexpected disposition %s", got)
	}
}
