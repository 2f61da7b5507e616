package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jobscout/jobscout/backend/go-services/internal/cv"
)

// RedisStore keeps snapshots as JSON under "<prefix><key>". A zero TTL
// keeps them until cleared; otherwise every save refreshes the expiry.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store. Prefix defaults to "cv:".
func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "cv:"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) key(owner string) string {
	return r.prefix + owner
}

func (r *RedisStore) Load(ctx context.Context, key string) (*cv.Document, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	b, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	d, err := cv.Parse(b)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *RedisStore) Save(ctx context.Context, key string, doc cv.Document) error {
	if key == "" {
		return ErrEmptyKey
	}
	b, err := doc.Serialize()
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(key), b, r.ttl).Err()
}

func (r *RedisStore) Clear(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return r.client.Del(ctx, r.key(key)).Err()
}
