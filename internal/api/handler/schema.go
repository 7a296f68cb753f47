package handler

import (
	"bytes"
	"encoding/json"
	"time"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error         string `json:"error"`
	Field         string `json:"field,omitempty"`
	InvoiceNumber *int64 `json:"invoice_number,omitempty"`
}

// rawNumber accepts a JSON number or string and keeps its text, so the domain
// can parse it exactly.
type rawNumber string

func (n *rawNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = rawNumber(s)
		return nil
	}
	*n = rawNumber(b)
	return nil
}

// --- Auth ---

type profileRequest struct {
	FullName      string `json:"full_name"      validate:"max=200"`
	Address       string `json:"address"        validate:"max=500"`
	ContactNumber string `json:"contact_number" validate:"max=50"`
	ABN           string `json:"abn"            validate:"max=50"`
	BSB           string `json:"bsb"            validate:"max=20"`
	AccountNumber string `json:"account_number" validate:"max=50"`
}

type signupRequest struct {
	Email    string         `json:"email"    validate:"required,email"`
	Password string         `json:"password" validate:"required"`
	Profile  profileRequest `json:"profile"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	Password        string `json:"password"         validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin normal"`
}

// --- Catalog ---

type createPlaceRequest struct {
	Name    string    `json:"name"    validate:"required"`
	Rate    rawNumber `json:"rate"    validate:"required,decimal"`
	Address string    `json:"address"`
}

// --- Draft ---

type periodRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date"   validate:"required"`
}

type candidateBody struct {
	Kind            string    `json:"kind"`
	PlaceID         string    `json:"place_id"`
	CasualPlaceName string    `json:"casual_place_name"`
	Hours           rawNumber `json:"hours"`
	Rate            rawNumber `json:"rate"`
}

// candidateRequest carries the entry being edited plus the selection change.
type candidateRequest struct {
	Current candidateBody `json:"current"`
	Kind    string        `json:"kind"     validate:"omitempty,oneof=fixed_hourly casual"`
	PlaceID string        `json:"place_id"`
}

type addEntryRequest struct {
	Kind            string    `json:"kind"              validate:"required,oneof=fixed_hourly casual"`
	PlaceID         string    `json:"place_id"`
	CasualPlaceName string    `json:"casual_place_name"`
	Hours           rawNumber `json:"hours"`
	Rate            rawNumber `json:"rate"`
}

// --- Responses ---

type authResponse struct {
	Token string        `json:"token,omitempty"`
	User  *userResponse `json:"user,omitempty"`
}

type userResponse struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Role      string          `json:"role"`
	Profile   profileResponse `json:"profile"`
	CreatedAt time.Time       `json:"created_at"`
}

type profileResponse struct {
	FullName      string `json:"full_name"`
	Address       string `json:"address"`
	ContactNumber string `json:"contact_number"`
	ABN           string `json:"abn"`
	BSB           string `json:"bsb"`
	AccountNumber string `json:"account_number"`
}

type placeResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Rate    string `json:"rate"`
	Address string `json:"address,omitempty"`
}

type entryResponse struct {
	ID              string `json:"id"`
	Kind            string `json:"kind"`
	PlaceID         string `json:"place_id,omitempty"`
	CasualPlaceName string `json:"casual_place_name,omitempty"`
	Hours           string `json:"hours"`
	Rate            string `json:"rate"`
	Amount          string `json:"amount"`
}

type candidateResponse struct {
	Kind            string `json:"kind"`
	PlaceID         string `json:"place_id,omitempty"`
	CasualPlaceName string `json:"casual_place_name,omitempty"`
	Hours           string `json:"hours"`
	Rate            string `json:"rate"`
}

type sessionResponse struct {
	State         string          `json:"state"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	Entries       []entryResponse `json:"entries"`
	Total         string          `json:"total"`
	InvoiceNumber *int64          `json:"invoice_number,omitempty"`
	InvoiceLabel  string          `json:"invoice_label,omitempty"`
}

type addEntryResponse struct {
	Entry   entryResponse   `json:"entry"`
	Session sessionResponse `json:"session"`
}

type generateResponse struct {
	InvoiceNumber int64           `json:"invoice_number"`
	InvoiceLabel  string          `json:"invoice_label"`
	Total         string          `json:"total"`
	Session       sessionResponse `json:"session"`
}

type invoiceLinks struct {
	Self     string `json:"self"`
	Document string `json:"document"`
}

type invoiceResponse struct {
	InvoiceNumber int64           `json:"invoice_number"`
	InvoiceLabel  string          `json:"invoice_label"`
	UserID        string          `json:"user_id"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	Total         string          `json:"total"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	Entries       []entryResponse `json:"entries,omitempty"`
	Links         invoiceLinks    `json:"_links"`
}
