package presence

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const keyPrefix = "online:"

type redisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore creates a Store backed by shared redis counters. The
// counters carry a renewable TTL so presence self-heals without requiring
// a clean disconnect.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisStore{
		rdb: rdb,
		ttl: ttl,
	}
}

func (s *redisStore) Connected(ctx context.Context, email string) (int64, error) {
	key := keyPrefix + email

	count, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, errors.Wrap(err, "failed to increment session counter")
	}

	if err := s.rdb.Expire(ctx, key, s.ttl).Err(); err != nil {
		return count, errors.Wrap(err, "failed to set session counter expiry")
	}

	log.Infof("presence: user '%s' connected, active sessions: %d", email, count)
	return count, nil
}

func (s *redisStore) Disconnected(ctx context.Context, email string) (int64, error) {
	key := keyPrefix + email

	count, err := s.rdb.Decr(ctx, key).Result()
	if err != nil {
		return 0, errors.Wrap(err, "failed to decrement session counter")
	}

	if count <= 0 {
		if err := s.rdb.Del(ctx, key).Err(); err != nil {
			return 0, errors.Wrap(err, "failed to delete session counter")
		}
		log.Infof("presence: user '%s' disconnected, no active sessions", email)
		return 0, nil
	}

	// Renew the TTL while sessions remain.
	if err := s.rdb.Expire(ctx, key, s.ttl).Err(); err != nil {
		return count, errors.Wrap(err, "failed to renew session counter expiry")
	}

	log.Infof("presence: user '%s' disconnected, remaining sessions: %d", email, count)
	return count, nil
}

func (s *redisStore) IsOnline(ctx context.Context, email string) (bool, error) {
	value, err := s.rdb.Get(ctx, keyPrefix+email).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to read session counter")
	}

	return value != "" && value != "0", nil
}
