package session

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// compile-time check that *RedisStore implements Store
var _ Store = (*RedisStore)(nil)

// RedisStore keeps sessions in Redis under "session:<id>" keys.
//
// Expiry is delegated to Redis entirely: SET with a TTL means Redis deletes
// the key itself when the session expires, so there is no sweeper and no
// expiry bookkeeping on our side. This is the right store when the server
// runs as multiple replicas behind a load balancer — all replicas see the
// same registry.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore wraps an already-connected Redis client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// NewRedisClient creates and pings a Redis client with optional password auth.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("session: pinging redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func (s *RedisStore) Create(ctx context.Context, userID string) (string, error) {
	sid := newID()
	if err := s.rdb.Set(ctx, "session:"+sid, userID, TTL).Err(); err != nil {
		return "", fmt.Errorf("session: storing session in redis: %w", err)
	}
	return sid, nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (string, error) {
	val, err := s.rdb.Get(ctx, "session:"+sessionID).Result()
	if err == redis.Nil {
		// Missing or already expired — Redis has removed the key.
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session: reading session from redis: %w", err)
	}
	return val, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, "session:"+sessionID).Err(); err != nil {
		return fmt.Errorf("session: deleting session from redis: %w", err)
	}
	return nil
}
