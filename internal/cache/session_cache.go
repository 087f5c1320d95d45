package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// SessionCache tracks issued login sessions. A token is only honoured while
// its session key exists.
type SessionCache struct {
	kv KeyValue
}

// NewSessionCache creates a new SessionCache.
func NewSessionCache(kv KeyValue) *SessionCache {
	return &SessionCache{kv: kv}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// Save records a session for customerID that expires after ttl.
func (c *SessionCache) Save(ctx context.Context, sessionID, customerID string, ttl time.Duration) error {
	if err := c.kv.Set(ctx, sessionKey(sessionID), customerID, ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Owner returns the customer the session belongs to, or ErrMiss.
func (c *SessionCache) Owner(ctx context.Context, sessionID string) (string, error) {
	v, err := c.kv.Get(ctx, sessionKey(sessionID))
	if err != nil {
		if errors.Is(err, ErrMiss) {
			return "", ErrMiss
		}
		return "", fmt.Errorf("failed to read session: %w", err)
	}
	return v, nil
}

// Revoke deletes the session.
func (c *SessionCache) Revoke(ctx context.Context, sessionID string) error {
	return c.kv.Delete(ctx, sessionKey(sessionID))
}
