package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
	"github.com/cleanworks/invoicing-system/internal/core/ports"
)

// UserService manages profiles and the admin user directory.
type UserService struct {
	repo   ports.UserRepository
	audit  ports.AuditRecorder
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, audit ports.AuditRecorder, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, audit: audit, logger: logger}
}

func (s *UserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.FindByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, profile domain.Profile) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if err := s.repo.UpdateProfile(ctx, userID, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.repo.FindByID(ctx, userID)
}

// ListUsers returns every user. Admins only.
func (s *UserService) ListUsers(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	if !domain.HasRole(actor, domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ChangeRole sets another user's role. Admins cannot change their own role.
func (s *UserService) ChangeRole(ctx context.Context, actor *domain.User, userID, role string) error {
	if !domain.HasRole(actor, domain.RoleAdmin) {
		return domain.ErrForbidden
	}
	if userID == "" || !domain.ValidRole(role) {
		return domain.NewValidationError("role", `userId and newRole are required and newRole must be "admin" or "normal"`)
	}
	if userID == actor.ID {
		return domain.NewValidationError("user_id", "cannot change your own role")
	}

	if err := s.repo.UpdateRole(ctx, userID, role); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("role", role).Msg("failed to update role")
		return fmt.Errorf("change role: %w", err)
	}

	s.logger.Info().Str("actor", actor.ID).Str("user_id", userID).Str("role", role).Msg("role changed")
	s.audit.Record(domain.AuditEvent{
		UserID:     actor.ID,
		Action:     domain.AuditRoleChanged,
		Detail:     userID + " -> " + role,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}
