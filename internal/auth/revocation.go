package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revocationKeyPrefix = "session:revoked:"

// SessionRevoker tracks signed-out session IDs in Redis until their
// tokens would have expired anyway.
type SessionRevoker struct {
	client *redis.Client
}

// NewSessionRevoker constructs the revoker.
func NewSessionRevoker(client *redis.Client) *SessionRevoker {
	return &SessionRevoker{client: client}
}

// Revoke denylists a session ID until the given expiry.
func (r *SessionRevoker) Revoke(ctx context.Context, sessionID string, expiresAt time.Time) error {
	if r == nil || r.client == nil {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revocationKeyPrefix+sessionID, "1", ttl).Err()
}

// IsRevoked reports whether a session ID has been signed out.
func (r *SessionRevoker) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	if r == nil || r.client == nil {
		return false, nil
	}
	count, err := r.client.Exists(ctx, revocationKeyPrefix+sessionID).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
