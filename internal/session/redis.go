// Package session is the Redis-backed wizard session store: the draft
// state that browser navigation used to carry lives here between stage
// calls.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"uic-travel-backend/internal/wizard"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// DefaultTTL bounds how long an abandoned wizard session survives.
const DefaultTTL = 2 * time.Hour

// RedisStore implements wizard.Store on Redis.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore creates a session store against REDIS_ADDR.
// redis/go-redis/v9: NewClient opens a connection pool; sessions are
// plain JSON values with a TTL.
func NewRedisStore() *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: getenv("REDIS_ADDR", "redis:6379"),
	})
	return &RedisStore{rdb: rdb, ttl: DefaultTTL}
}

func key(id string) string {
	return fmt.Sprintf("wizard:session:%s", id)
}

// Put stores the session JSON under its ID, refreshing the TTL.
func (s *RedisStore) Put(ctx context.Context, sess *wizard.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	// redis/go-redis/v9: Set writes the value with expiry in one call.
	return s.rdb.Set(ctx, key(sess.ID), data, s.ttl).Err()
}

// Get loads a session by ID. redis.Nil maps to the wizard's
// session-not-found sentinel.
func (s *RedisStore) Get(ctx context.Context, id string) (*wizard.Session, error) {
	val, err := s.rdb.Get(ctx, key(id)).Result()
	if err == redis.Nil {
		return nil, wizard.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var sess wizard.Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", id, err)
	}
	return &sess, nil
}

// Delete drops a session.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, key(id)).Err()
}
