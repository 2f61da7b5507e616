// Package storage keeps rendered files in an object store.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned for a missing key.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is the subset of blob storage the archive needs.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}
