// internal/domain/session/store.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/music-storefront/internal/config"
)

// ErrNotFound is returned when no live session exists for an id
var ErrNotFound = errors.New("session not found")

// Store keeps sessions in Redis with a sliding expiry
type Store struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// NewStore creates a new session store
func NewStore(redisClient *redis.Client, cfg *config.Config) *Store {
	return &Store{
		redisClient: redisClient,
		ttl:         cfg.Session.TTL,
	}
}

// TTL returns how long an idle session survives
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Get loads the session with the given id
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	data, err := s.redisClient.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session failed: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return &sess, nil
}

// GetOrCreate returns the session for id, creating a fresh one (with a new id)
// when id is empty, unknown or expired. created reports which happened.
func (s *Store) GetOrCreate(ctx context.Context, id string) (sess *Session, created bool, err error) {
	sess, err = s.Get(ctx, id)
	if err == nil {
		return sess, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	now := time.Now().UTC()
	sess = &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Save(ctx, sess); err != nil {
		return nil, false, err
	}
	return sess, true, nil
}

// Save writes the session and restarts its expiry
func (s *Store) Save(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	if err := s.redisClient.Set(ctx, sessionKey(sess.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session failed: %w", err)
	}
	return nil
}

// Touch extends the expiry without rewriting the payload
func (s *Store) Touch(ctx context.Context, id string) error {
	if err := s.redisClient.Expire(ctx, sessionKey(id), s.ttl).Err(); err != nil {
		return fmt.Errorf("redis expire session failed: %w", err)
	}
	return nil
}

// Delete ends the session
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.redisClient.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete session failed: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("storefront:session:%s", id)
}
