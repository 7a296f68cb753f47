package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/cleanworks/invoicing-system/internal/core/ports"
)

const (
	lockKeyPrefix  = "invoice:lock:"
	DefaultLockTTL = 30 * time.Second
)

// releaseScript deletes the lock only while it still carries the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SessionLock holds a user's session while a generate or an edit runs.
// Key format: invoice:lock:<user_id>, value <purpose>:<uuid>.
// The TTL frees the lock if the process dies while holding it.
type SessionLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionLock(client *redis.Client, ttl time.Duration) *SessionLock {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &SessionLock{client: client, ttl: ttl}
}

// Acquire reports false if the session is already held.
func (l *SessionLock) Acquire(ctx context.Context, userID string, purpose ports.LockPurpose) (string, bool, error) {
	token := string(purpose) + ":" + uuid.NewString()
	ok, err := l.client.SetNX(ctx, lockKeyPrefix+userID, token, l.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("lock acquire: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release frees the lock if token still owns it. A hold that already
// expired, or was taken over by another caller, yields ports.ErrLockLost.
func (l *SessionLock) Release(ctx context.Context, userID, token string) error {
	n, err := releaseScript.Run(ctx, l.client, []string{lockKeyPrefix + userID}, token).Int()
	if err != nil {
		return fmt.Errorf("lock release: %w", err)
	}
	if n == 0 {
		return ports.ErrLockLost
	}
	return nil
}

func (l *SessionLock) Holder(ctx context.Context, userID string) (ports.LockPurpose, error) {
	val, err := l.client.Get(ctx, lockKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lock check: %w", err)
	}
	purpose, _, _ := strings.Cut(val, ":")
	return ports.LockPurpose(purpose), nil
}
