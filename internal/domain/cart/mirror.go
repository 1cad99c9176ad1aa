// internal/domain/cart/mirror.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// MirrorStore keeps the last-known cart per session
type MirrorStore interface {
	Load(ctx context.Context, sessionID string) (Cart, error)
	Store(ctx context.Context, sessionID string, c Cart) error
	Clear(ctx context.Context, sessionID string) error
}

// RedisMirror stores the cart mirror in Redis next to the session
type RedisMirror struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// NewRedisMirror creates a Redis-backed cart mirror
func NewRedisMirror(redisClient *redis.Client, ttl time.Duration) *RedisMirror {
	return &RedisMirror{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

// Load returns the mirrored cart, or an empty cart when nothing is stored
func (m *RedisMirror) Load(ctx context.Context, sessionID string) (Cart, error) {
	data, err := m.redisClient.Get(ctx, mirrorKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Cart{Lines: []CartLine{}}, nil
	}
	if err != nil {
		return Cart{}, fmt.Errorf("redis get cart mirror failed: %w", err)
	}

	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return Cart{}, fmt.Errorf("unmarshal cart mirror failed: %w", err)
	}
	if c.Lines == nil {
		c.Lines = []CartLine{}
	}
	return c, nil
}

// Store overwrites the mirror
func (m *RedisMirror) Store(ctx context.Context, sessionID string, c Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal cart mirror failed: %w", err)
	}
	if err := m.redisClient.Set(ctx, mirrorKey(sessionID), data, m.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart mirror failed: %w", err)
	}
	return nil
}

// Clear removes the mirror
func (m *RedisMirror) Clear(ctx context.Context, sessionID string) error {
	if err := m.redisClient.Del(ctx, mirrorKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete cart mirror failed: %w", err)
	}
	return nil
}

func mirrorKey(sessionID string) string {
	return fmt.Sprintf("storefront:cart:%s", sessionID)
}
