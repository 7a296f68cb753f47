package ports

import (
	"context"
	"errors"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
)

var (
	// ErrSessionNotFound is returned by SessionStore.Load for users without a session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrLockLost is returned by SessionLock.Release when the hold expired
	// before the caller released it.
	ErrLockLost = errors.New("session lock no longer held")
)

// SessionStore persists one workflow session per user.
type SessionStore interface {
	Load(ctx context.Context, userID string) (*domain.Session, error)
	Save(ctx context.Context, s *domain.Session) error
	Delete(ctx context.Context, userID string) error
}

// LockPurpose tells readers why a session lock is held.
type LockPurpose string

const (
	LockGenerate LockPurpose = "generate"
	LockEdit     LockPurpose = "edit"
)

// SessionLock serialises every change to one user's session. Each hold is
// identified by the token returned from Acquire; only that token releases it.
type SessionLock interface {
	// Acquire reports ok=false when the lock is already held.
	Acquire(ctx context.Context, userID string, purpose LockPurpose) (token string, ok bool, err error)
	Release(ctx context.Context, userID, token string) error
	// Holder returns the purpose of the current hold, or "" when free.
	Holder(ctx context.Context, userID string) (LockPurpose, error)
}
