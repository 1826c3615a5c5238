package token

import (
	"context"
	"fmt"
	"time"
)

// KeyValueStore is the subset of the Redis wrapper the blacklist needs.
type KeyValueStore interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Blacklist records revoked token ids until the token would have expired anyway.
type Blacklist struct {
	store KeyValueStore
	now   func() time.Time
}

func NewBlacklist(store KeyValueStore) *Blacklist {
	return &Blacklist{store: store, now: time.Now}
}

func blacklistKey(jti string) string {
	return fmt.Sprintf("blacklist:%s", jti)
}

func (b *Blacklist) Revoke(ctx context.Context, claims *Claims) error {
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if remaining := claims.ExpiresAt.Time.Sub(b.now()); remaining > 0 {
			ttl = remaining
		}
	}
	return b.store.Set(ctx, blacklistKey(claims.ID), true, ttl)
}

func (b *Blacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return b.store.Exists(ctx, blacklistKey(jti))
}
