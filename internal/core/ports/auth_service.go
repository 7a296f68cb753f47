package ports

import (
	"context"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
)

type AuthService interface {
	SignUp(ctx context.Context, email, password string, profile domain.Profile) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	ChangePassword(ctx context.Context, userID, password, confirmation string) error
}
