package jobsearch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jobscout/jobscout/backend/go-services/pkg/metrics"
)

// CachedSearcher answers repeated searches from Redis. Cache errors are
// logged and fall through to the upstream.
type CachedSearcher struct {
	next   Searcher
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewCachedSearcher(next Searcher, client redis.UniversalClient, prefix string, ttl time.Duration) *CachedSearcher {
	if prefix == "" {
		prefix = "jobsearch:"
	}
	return &CachedSearcher{next: next, client: client, prefix: prefix, ttl: ttl}
}

func (c *CachedSearcher) Search(ctx context.Context, q Query) (*Results, error) {
	key := c.prefix + q.CacheKey()
	if b, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var res Results
		if json.Unmarshal(b, &res) == nil {
			metrics.SearchRequests.WithLabelValues("cache", "ok").Inc()
			return &res, nil
		}
	} else if err != redis.Nil {
		log.Warnf("cache get %s: %v", key, err)
	}

	res, err := c.next.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(res); err == nil {
		if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
			log.Warnf("cache set %s: %v", key, err)
		}
	}
	return res, nil
}

// Notifications are never cached; the bell polls for fresh counts.
func (c *CachedSearcher) Notifications(ctx context.Context) (*Notifications, error) {
	return c.next.Notifications(ctx)
}
