package sessions

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blacklist remembers revoked access tokens until they would have expired
// anyway. A nil *Blacklist, or one without a client, revokes nothing.
type Blacklist struct {
	client redis.UniversalClient
	prefix string
}

func NewBlacklist(client redis.UniversalClient) *Blacklist {
	return &Blacklist{client: client, prefix: "blacklist:access:"}
}

// Revoke stores token for ttl. Non-positive TTLs are ignored.
func (b *Blacklist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if b == nil || b.client == nil || ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, b.prefix+token, "1", ttl).Err()
}

// IsRevoked reports whether token was revoked.
func (b *Blacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	if b == nil || b.client == nil {
		return false, nil
	}
	n, err := b.client.Exists(ctx, b.prefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
