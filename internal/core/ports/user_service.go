package ports

import (
	"context"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
)

// UserService covers the profile and the admin user directory.
type UserService interface {
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, profile domain.Profile) (*domain.User, error)
	ListUsers(ctx context.Context, actor *domain.User) ([]*domain.User, error)
	ChangeRole(ctx context.Context, actor *domain.User, userID, role string) error
}
