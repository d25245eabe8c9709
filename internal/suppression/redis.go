package suppression

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisStore keeps one visitor's flags in Redis, namespaced by visitor id.
// The context is bound per request; Get treats Redis errors as absent.
type RedisStore struct {
	ctx     context.Context
	client  redis.Cmdable
	visitor string
}

func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func NewRedisStore(ctx context.Context, client redis.Cmdable, visitorID string) *RedisStore {
	return &RedisStore{ctx: ctx, client: client, visitor: visitorID}
}

// RedisKey is the Redis key holding name for a visitor.
func RedisKey(visitorID, name string) string {
	return "smartbanner:" + visitorID + ":" + name
}

func (s *RedisStore) Get(name string) (string, bool) {
	v, err := s.client.Get(s.ctx, RedisKey(s.visitor, name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", name).Msg("suppression lookup failed")
		return "", false
	}
	return v, true
}

func (s *RedisStore) Set(name, value string, ttl time.Duration) error {
	if err := s.client.Set(s.ctx, RedisKey(s.visitor, name), value, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	return nil
}
