package domain

import "time"

const (
	RoleAdmin  = "admin"
	RoleNormal = "normal"
)

// Profile holds the issuer identity printed in the invoice "From" block.
type Profile struct {
	FullName      string `json:"full_name"`
	Address       string `json:"address"`
	ContactNumber string `json:"contact_number"`
	ABN           string `json:"abn"`
	BSB           string `json:"bsb"`
	AccountNumber string `json:"account_number"`
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidRole reports whether role is one the system knows about.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleNormal
}

// HasRole is the single authorization check used by middleware and services.
func HasRole(u *User, role string) bool {
	if u == nil || u.ID == "" {
		return false
	}
	return u.Role == role
}
