// Package archive keeps copies of rendered CVs in object storage so a
// user can fetch earlier versions through a presigned link.
package archive

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/jobscout/jobscout/backend/go-services/internal/cv"
	"github.com/jobscout/jobscout/backend/go-services/internal/storage"
	"github.com/jobscout/jobscout/backend/go-services/pkg/logger"
)

var log = logger.For("archive")

// ErrDisabled is returned when no object store is configured.
var ErrDisabled = errors.New("archive is not configured")

// Entry is a record together with a download link.
type Entry struct {
	Record
	URL string `json:"url"`
}

type Archiver struct {
	objects storage.ObjectStore
	records RecordStore
	linkTTL time.Duration
	now     func() time.Time
}

// New returns an Archiver. A nil object store yields a disabled archiver
// whose methods return ErrDisabled.
func New(objects storage.ObjectStore, records RecordStore, linkTTL time.Duration) *Archiver {
	if linkTTL <= 0 {
		linkTTL = 24 * time.Hour
	}
	return &Archiver{objects: objects, records: records, linkTTL: linkTTL, now: time.Now}
}

// Enabled reports whether an object store is wired.
func (a *Archiver) Enabled() bool {
	return a != nil && a.objects != nil
}

// ObjectKey is "cv/{owner}/{sha256}.pdf"; identical renders share a key.
func ObjectKey(owner string, pdf []byte) (key, sum string) {
	h := sha256.Sum256(pdf)
	sum = hex.EncodeToString(h[:])
	return fmt.Sprintf("cv/%s/%s.pdf", url.PathEscape(owner), sum), sum
}

// Store uploads pdf for owner and records it.
func (a *Archiver) Store(ctx context.Context, owner, filename string, pages int, pdf []byte) (*Entry, error) {
	if !a.Enabled() {
		return nil, ErrDisabled
	}
	key, sum := ObjectKey(owner, pdf)
	if err := a.objects.Put(ctx, key, bytes.NewReader(pdf), int64(len(pdf)), cv.PDFContentType); err != nil {
		return nil, &cv.TransportError{Op: "upload cv", Cause: err}
	}
	rec := &Record{
		ID:        uuid.NewString(),
		Owner:     owner,
		Filename:  filename,
		ObjectKey: key,
		SHA256:    sum,
		Size:      int64(len(pdf)),
		Pages:     pages,
		CreatedAt: a.now().UTC(),
	}
	if err := a.records.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("save archive record: %w", err)
	}
	link, err := a.objects.PresignedURL(ctx, key, a.linkTTL)
	if err != nil {
		return nil, &cv.TransportError{Op: "presign cv", Cause: err}
	}
	log.Infof("stored %s for %s (%d bytes)", key, owner, rec.Size)
	return &Entry{Record: *rec, URL: link}, nil
}

// List returns the owner's archived renders with fresh links, newest first.
func (a *Archiver) List(ctx context.Context, owner string) ([]Entry, error) {
	if !a.Enabled() {
		return nil, ErrDisabled
	}
	recs, err := a.records.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(recs))
	for _, r := range recs {
		link, err := a.objects.PresignedURL(ctx, r.ObjectKey, a.linkTTL)
		if err != nil {
			log.Warnf("presign %s: %v", r.ObjectKey, err)
			continue
		}
		out = append(out, Entry{Record: r, URL: link})
	}
	return out, nil
}
