package store

import (
	"context"
	"strings"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/jobscout/jobscout/backend/go-services/internal/cv"
)

func sample() cv.Document {
	d := cv.New()
	d.PersonalInfo = cv.PersonalInfo{FullName: "Ann Lee", Email: "ann@x.com"}
	d.Skills = "Go"
	return *d
}

func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	got, err := s.Load(ctx, "owner-1")
	require.NoError(t, err)
	require.Nil(t, got)

	doc := sample()
	require.NoError(t, s.Save(ctx, "owner-1", doc))
	got, err = s.Load(ctx, "owner-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, doc, *got)

	// last write wins
	doc.Skills = "Go, Rust"
	require.NoError(t, s.Save(ctx, "owner-1", doc))
	got, err = s.Load(ctx, "owner-1")
	require.NoError(t, err)
	require.Equal(t, "Go, Rust", got.Skills)

	other, err := s.Load(ctx, "owner-2")
	require.NoError(t, err)
	require.Nil(t, other)

	require.NoError(t, s.Clear(ctx, "owner-1"))
	got, err = s.Load(ctx, "owner-1")
	require.NoError(t, err)
	require.Nil(t, got)

	_, err = s.Load(ctx, "")
	require.ErrorIs(t, err, ErrEmptyKey)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	doc := sample()
	require.NoError(t, s.Save(ctx, "k", doc))

	got, err := s.Load(ctx, "k")
	require.NoError(t, err)
	got.Experience[0].JobTitle = "mutated"

	again, err := s.Load(ctx, "k")
	require.NoError(t, err)
	require.Empty(t, again.Experience[0].JobTitle)
	require.Equal(t, 1, s.Len())
}

func TestRedisStore(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	exerciseStore(t, NewRedisStore(client, "test:cv:", 0))
}

func TestRedisStore_TTLAndPrefix(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	s := NewRedisStore(client, "", time.Minute)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "abc", sample()))
	require.True(t, m.Exists("cv:abc"))
	require.Equal(t, time.Minute, m.TTL("cv:abc"))

	m.FastForward(2 * time.Minute)
	got, err := s.Load(ctx, "abc")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRedisStore_CorruptSnapshot(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	s := NewRedisStore(client, "", 0)
	require.NoError(t, m.Set("cv:bad", "{not json"))

	_, err = s.Load(context.Background(), "bad")
	var pe *cv.ParseError
	require.ErrorAs(t, err, &pe)
}

func TestMongoRecord_NormalizesLikeSnapshots(t *testing.T) {
	rec := mongoRecord{Owner: "owner-1", Document: cv.Document{
		PersonalInfo: cv.PersonalInfo{FullName: "Ann Lee"},
		Summary:      strings.Repeat("é", 600),
	}}
	d, err := rec.document()
	require.NoError(t, err)
	require.Len(t, []rune(d.Summary), 500)
	require.Len(t, d.Experience, 1)
	require.NotEmpty(t, d.Experience[0].ID)
	require.Len(t, d.Education, 1)

	rec.Document.Education = []cv.EducationEntry{{ID: "d1"}, {ID: "d1"}}
	_, err = rec.document()
	var pe *cv.ParseError
	require.ErrorAs(t, err, &pe)
}
