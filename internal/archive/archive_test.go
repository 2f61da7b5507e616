package archive

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobscout/jobscout/backend/go-services/internal/storage"
)

func TestArchiver_StoreAndList(t *testing.T) {
	ctx := context.Background()
	objects := storage.NewMemoryStorage("http://objects.local")
	a := New(objects, NewMemoryRecords(), time.Hour)
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return clock }

	first, err := a.Store(ctx, "u1", "Ann_Lee_CV.pdf", 1, []byte("%PDF-one"))
	require.NoError(t, err)
	key, sum := ObjectKey("u1", []byte("%PDF-one"))
	assert.Equal(t, key, first.ObjectKey)
	assert.Equal(t, "cv/u1/"+sum+".pdf", key)
	assert.Equal(t, int64(8), first.Size)
	assert.Contains(t, first.URL, key)
	assert.Equal(t, "application/pdf", objects.ContentType(key))

	rc, err := objects.Get(ctx, key)
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "%PDF-one", string(body))

	clock = clock.Add(time.Minute)
	_, err = a.Store(ctx, "u1", "Ann_Lee_CV.pdf", 2, []byte("%PDF-two"))
	require.NoError(t, err)
	_, err = a.Store(ctx, "u2", "Bob_CV.pdf", 1, []byte("%PDF-bob"))
	require.NoError(t, err)

	list, err := a.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 2, list[0].Pages, "newest first")
	assert.Equal(t, 1, list[1].Pages)
}

func TestArchiver_SameBytesShareKey(t *testing.T) {
	ctx := context.Background()
	a := New(storage.NewMemoryStorage("http://o"), NewMemoryRecords(), 0)
	_, err := a.Store(ctx, "u1", "a.pdf", 1, []byte("%PDF"))
	require.NoError(t, err)
	_, err = a.Store(ctx, "u1", "a.pdf", 1, []byte("%PDF"))
	require.NoError(t, err)
	list, err := a.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestArchiver_Disabled(t *testing.T) {
	a := New(nil, NewMemoryRecords(), time.Hour)
	assert.False(t, a.Enabled())
	_, err := a.Store(context.Background(), "u1", "a.pdf", 1, []byte("x"))
	require.ErrorIs(t, err, ErrDisabled)
	_, err = a.List(context.Background(), "u1")
	require.ErrorIs(t, err, ErrDisabled)
}

func TestObjectKey_EscapesOwner(t *testing.T) {
	key, _ := ObjectKey("a/b c", []byte("x"))
	assert.Contains(t, key, "cv/a%2Fb%20c/")
}
