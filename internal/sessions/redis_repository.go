package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces refresh sessions in a shared Redis.
const DefaultRedisPrefix = "session:"

// ErrEmptyRefresh is returned when a session without a refresh token is
// stored.
var ErrEmptyRefresh = errors.New("sessions: empty refresh token")

// RedisRepository keeps each refresh session as JSON under prefix+token and
// lets Redis expire it with the session. Reads also check ExpiresAt so a
// key that outlives its session is never honoured.
type RedisRepository struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedisRepository(client redis.UniversalClient, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisRepository{client: client, prefix: prefix, now: func() time.Time { return time.Now().UTC() }}
}

func (r *RedisRepository) key(refresh string) string {
	return r.prefix + refresh
}

// Create stamps CreatedAt when unset. A session already past its expiry is
// stored for one second, Redis refuses shorter TTLs.
func (r *RedisRepository) Create(ctx context.Context, s *Session) error {
	if s.RefreshToken == "" {
		return ErrEmptyRefresh
	}
	now := r.now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	ttl := s.ExpiresAt.Sub(now)
	if ttl < time.Second {
		ttl = time.Second
	}
	return r.client.Set(ctx, r.key(s.RefreshToken), b, ttl).Err()
}

// GetByRefresh returns nil, nil for unknown and expired tokens; expired
// ones are deleted on the way out.
func (r *RedisRepository) GetByRefresh(ctx context.Context, refresh string) (*Session, error) {
	b, err := r.client.Get(ctx, r.key(refresh)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.Expired(r.now()) {
		if err := r.client.Del(ctx, r.key(refresh)).Err(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return &s, nil
}

func (r *RedisRepository) DeleteByRefresh(ctx context.Context, refresh string) error {
	return r.client.Del(ctx, r.key(refresh)).Err()
}
