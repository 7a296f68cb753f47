package handler

import (
	"strconv"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
	"github.com/cleanworks/invoicing-system/internal/core/ports"
)

// --- Request → domain ---

func toProfile(p profileRequest) domain.Profile {
	return domain.Profile{
		FullName:      p.FullName,
		Address:       p.Address,
		ContactNumber: p.ContactNumber,
		ABN:           p.ABN,
		BSB:           p.BSB,
		AccountNumber: p.AccountNumber,
	}
}

func toCandidate(b candidateBody) domain.EntryCandidate {
	return domain.EntryCandidate{
		Kind:            domain.EntryKind(b.Kind),
		PlaceID:         b.PlaceID,
		CasualPlaceName: b.CasualPlaceName,
		Hours:           string(b.Hours),
		Rate:            string(b.Rate),
	}
}

func addEntryCandidate(req addEntryRequest) domain.EntryCandidate {
	return toCandidate(candidateBody{
		Kind:            req.Kind,
		PlaceID:         req.PlaceID,
		CasualPlaceName: req.CasualPlaceName,
		Hours:           req.Hours,
		Rate:            req.Rate,
	})
}

// --- Domain → response ---

func toUserResponse(u *domain.User) *userResponse {
	return &userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		Profile:   profileResponse(u.Profile),
		CreatedAt: u.CreatedAt,
	}
}

func toPlaceResponse(p domain.Place) placeResponse {
	return placeResponse{ID: p.ID, Name: p.Name, Rate: p.Rate.StringFixed(2), Address: p.Address}
}

func toEntryResponse(e domain.WorkEntry) entryResponse {
	return entryResponse{
		ID:              e.ID,
		Kind:            string(e.Kind),
		PlaceID:         e.PlaceID,
		CasualPlaceName: e.CasualPlaceName,
		Hours:           e.Hours.String(),
		Rate:            e.Rate.StringFixed(2),
		Amount:          e.Amount.StringFixed(2),
	}
}

func toEntryResponses(entries []domain.WorkEntry) []entryResponse {
	out := make([]entryResponse, len(entries))
	for i, e := range entries {
		out[i] = toEntryResponse(e)
	}
	return out
}

func toCandidateResponse(c domain.EntryCandidate) candidateResponse {
	return candidateResponse{
		Kind:            string(c.Kind),
		PlaceID:         c.PlaceID,
		CasualPlaceName: c.CasualPlaceName,
		Hours:           c.Hours,
		Rate:            c.Rate,
	}
}

func toSessionResponse(v *ports.SessionView) sessionResponse {
	resp := sessionResponse{
		State:         string(v.State),
		StartDate:     v.Period.StartISO(),
		EndDate:       v.Period.EndISO(),
		Entries:       toEntryResponses(v.Entries),
		Total:         v.Total.StringFixed(2),
		InvoiceNumber: v.InvoiceNumber,
	}
	if v.InvoiceNumber != nil {
		resp.InvoiceLabel = domain.FormatInvoiceNumber(*v.InvoiceNumber)
	}
	return resp
}

func toInvoiceResponse(inv *domain.Invoice) invoiceResponse {
	self := "/v1/invoices/" + strconv.FormatInt(inv.Number, 10)
	resp := invoiceResponse{
		InvoiceNumber: inv.Number,
		InvoiceLabel:  domain.FormatInvoiceNumber(inv.Number),
		UserID:        inv.UserID,
		StartDate:     inv.Period.StartISO(),
		EndDate:       inv.Period.EndISO(),
		Total:         inv.Total.StringFixed(2),
		Status:        inv.Status,
		CreatedAt:     inv.CreatedAt,
		Links:         invoiceLinks{Self: self, Document: self + "/document"},
	}
	if len(inv.Entries) > 0 {
		resp.Entries = toEntryResponses(inv.Entries)
	}
	return resp
}
