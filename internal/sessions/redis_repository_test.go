package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T, prefix string) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRepository(client, prefix), m
}

func TestRedisRepository_DefaultPrefixAndTTL(t *testing.T) {
	repo, m := newRedisRepo(t, "")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	s := &Session{RefreshToken: "r1", Sub: "user-1", ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, repo.Create(context.Background(), s))

	assert.True(t, m.Exists("session:r1"))
	assert.Equal(t, time.Hour, m.TTL("session:r1"))
	// CreatedAt is stamped from the repository clock
	assert.Equal(t, now, s.CreatedAt)

	got, err := repo.GetByRefresh(context.Background(), "r1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "user-1", got.Sub)
	assert.True(t, got.CreatedAt.Equal(now))
}

func TestRedisRepository_KeepsCallerCreatedAt(t *testing.T) {
	repo, _ := newRedisRepo(t, "test:session:")
	created := time.Now().UTC().Add(-time.Minute).Truncate(time.Second)
	s := &Session{RefreshToken: "r1", Sub: "user-1", CreatedAt: created, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Create(context.Background(), s))
	assert.Equal(t, created, s.CreatedAt)
}

func TestRedisRepository_RejectsEmptyToken(t *testing.T) {
	repo, _ := newRedisRepo(t, "")
	err := repo.Create(context.Background(), &Session{Sub: "user-1", ExpiresAt: time.Now().Add(time.Hour)})
	require.ErrorIs(t, err, ErrEmptyRefresh)
}

func TestRedisRepository_Delete(t *testing.T) {
	repo, m := newRedisRepo(t, "test:session:")
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &Session{RefreshToken: "r1", Sub: "user-1", ExpiresAt: time.Now().Add(time.Hour)}))

	require.NoError(t, repo.DeleteByRefresh(ctx, "r1"))
	assert.False(t, m.Exists("test:session:r1"))
	got, err := repo.GetByRefresh(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisRepository_RedisTTLExpiry(t *testing.T) {
	repo, m := newRedisRepo(t, "")
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &Session{RefreshToken: "r2", Sub: "user-2", ExpiresAt: time.Now().Add(2 * time.Second)}))

	m.FastForward(3 * time.Second)
	got, err := repo.GetByRefresh(ctx, "r2")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisRepository_ExpiredSessionIsDeletedOnRead(t *testing.T) {
	repo, m := newRedisRepo(t, "")
	ctx := context.Background()
	now := time.Now().UTC()
	repo.now = func() time.Time { return now }
	require.NoError(t, repo.Create(ctx, &Session{RefreshToken: "r3", Sub: "user-3", ExpiresAt: now.Add(time.Hour)}))

	// the key is still live in Redis but the session clock has moved on
	repo.now = func() time.Time { return now.Add(2 * time.Hour) }
	got, err := repo.GetByRefresh(ctx, "r3")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, m.Exists("session:r3"))
}

func TestRedisRepository_AlreadyExpiredGetsMinimumTTL(t *testing.T) {
	repo, m := newRedisRepo(t, "")
	now := time.Now().UTC()
	repo.now = func() time.Time { return now }
	require.NoError(t, repo.Create(context.Background(), &Session{RefreshToken: "r4", ExpiresAt: now.Add(-time.Minute)}))
	assert.Equal(t, time.Second, m.TTL("session:r4"))

	got, err := repo.GetByRefresh(context.Background(), "r4")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSession_Expired(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &Session{ExpiresAt: at}
	assert.False(t, s.Expired(at))
	assert.True(t, s.Expired(at.Add(time.Nanosecond)))
}
