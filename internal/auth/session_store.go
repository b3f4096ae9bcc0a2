package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
	sessionTokenSize = 32

	// SessionTTL is how long a session lives in the store and in the cookie.
	SessionTTL = 7 * 24 * time.Hour
)

// SessionStoreInterface defines the session storage operations.
type SessionStoreInterface interface {
	Set(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	// Get returns found=false when the token is unknown or expired.
	Get(ctx context.Context, token string) (userID uuid.UUID, found bool, err error)
	Delete(ctx context.Context, token string) error
}

// SessionStore keeps token -> user id mappings in Redis. Unlike cache.Client
// it propagates Redis errors so an outage surfaces as an internal error
// rather than as a logged-out user.
type SessionStore struct {
	rdb redis.Cmdable
}

// Ensure SessionStore implements SessionStoreInterface
var _ SessionStoreInterface = (*SessionStore)(nil)

// NewSessionStore creates a new session store.
func NewSessionStore(rdb redis.Cmdable) *SessionStore {
	return &SessionStore{rdb: rdb}
}

// Set stores token -> userID with the given TTL.
func (s *SessionStore) Set(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, sessionKeyPrefix+token, userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Get looks the token up.
func (s *SessionStore) Get(ctx context.Context, token string) (uuid.UUID, bool, error) {
	val, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("load session: %w", err)
	}
	userID, err := uuid.Parse(val)
	if err != nil {
		// unreadable entries are treated as absent
		return uuid.Nil, false, nil
	}
	return userID, true, nil
}

// Delete removes the token. Deleting an unknown token is not an error.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// NewSessionToken returns a hex encoded, cryptographically random token.
func NewSessionToken() (string, error) {
	b := make([]byte, sessionTokenSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
