// Package editor binds one owner's CV to a Store: the snapshot is read once
// when the session opens and written back after every successful change.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jobscout/jobscout/backend/go-services/internal/cv"
	"github.com/jobscout/jobscout/backend/go-services/internal/cv/store"
	"github.com/jobscout/jobscout/backend/go-services/pkg/logger"
)

var log = logger.For("editor")

// Level tells a success notice from a warning.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is the user-facing outcome of an editing action. A failed action
// leaves the document as it was.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

func success(msg string) Notice { return Notice{Level: LevelSuccess, Message: msg} }
func failure(msg string) Notice { return Notice{Level: LevelError, Message: msg} }

// Session is the editing state of one owner. Methods are safe for
// concurrent use; the document is only reachable through copies.
type Session struct {
	mu    sync.Mutex
	owner string
	store store.Store
	doc   cv.Document
}

// Open loads the owner's snapshot. When nothing is stored the defaults are
// saved first so entry ids stay stable across sessions.
func Open(ctx context.Context, st store.Store, owner string) (*Session, error) {
	doc, err := st.Load(ctx, owner)
	if err != nil {
		var pe *cv.ParseError
		if !errors.As(err, &pe) {
			return nil, err
		}
		log.Warnf("discarding unreadable snapshot for %s: %v", owner, err)
		doc = nil
	}
	if doc == nil {
		doc = cv.New()
		if err := st.Save(ctx, owner, *doc); err != nil {
			return nil, fmt.Errorf("save defaults: %w", err)
		}
	}
	return &Session{owner: owner, store: st, doc: doc.Clone()}, nil
}

// Owner returns the key the session persists under.
func (s *Session) Owner() string { return s.owner }

// Document returns a copy of the current document.
func (s *Session) Document() cv.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// mutate applies fn to a working copy and commits it only when fn and the
// save both succeed.
func (s *Session) mutate(ctx context.Context, fn func(d *cv.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.doc.Clone()
	if err := fn(&work); err != nil {
		return err
	}
	if err := s.store.Save(ctx, s.owner, work); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	s.doc = work
	return nil
}

// SetField updates one field; see cv.Document.SetField for the key format.
func (s *Session) SetField(ctx context.Context, section, key, value string) (Notice, error) {
	err := s.mutate(ctx, func(d *cv.Document) error { return d.SetField(section, key, value) })
	if err != nil {
		return failure("Could not update " + section), err
	}
	return success("Saved"), nil
}

func (s *Session) AddExperience(ctx context.Context) (cv.ExperienceEntry, Notice, error) {
	var added cv.ExperienceEntry
	err := s.mutate(ctx, func(d *cv.Document) error {
		added = d.AddExperience()
		return nil
	})
	if err != nil {
		return cv.ExperienceEntry{}, failure("Could not add experience entry"), err
	}
	return added, success("Added new experience entry"), nil
}

func (s *Session) AddEducation(ctx context.Context) (cv.EducationEntry, Notice, error) {
	var added cv.EducationEntry
	err := s.mutate(ctx, func(d *cv.Document) error {
		added = d.AddEducation()
		return nil
	})
	if err != nil {
		return cv.EducationEntry{}, failure("Could not add education entry"), err
	}
	return added, success("Added new education entry"), nil
}

func (s *Session) RemoveExperience(ctx context.Context, id string) (Notice, error) {
	err := s.mutate(ctx, func(d *cv.Document) error { return d.RemoveExperience(id) })
	switch {
	case errors.Is(err, cv.ErrLastEntry):
		return failure("At least one experience entry is required"), err
	case errors.Is(err, cv.ErrEntryNotFound):
		return failure("Experience entry not found"), err
	case err != nil:
		return failure("Could not remove experience entry"), err
	}
	return success("Experience entry removed"), nil
}

func (s *Session) RemoveEducation(ctx context.Context, id string) (Notice, error) {
	err := s.mutate(ctx, func(d *cv.Document) error { return d.RemoveEducation(id) })
	switch {
	case errors.Is(err, cv.ErrLastEntry):
		return failure("At least one education entry is required"), err
	case errors.Is(err, cv.ErrEntryNotFound):
		return failure("Education entry not found"), err
	case err != nil:
		return failure("Could not remove education entry"), err
	}
	return success("Education entry removed"), nil
}

// Reset restores the defaults and drops the stored snapshot.
func (s *Session) Reset(ctx context.Context) (Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Clear(ctx, s.owner); err != nil {
		return failure("Could not reset form"), fmt.Errorf("clear snapshot: %w", err)
	}
	s.doc.Reset()
	return success("Form reset successfully"), nil
}

// Export returns the pretty-printed snapshot and its download name.
func (s *Session) Export() ([]byte, string, Notice, error) {
	doc := s.Document()
	blob, err := doc.Serialize()
	if err != nil {
		return nil, "", failure("Could not export data"), err
	}
	return blob, cv.ExportFilename(doc.PersonalInfo.FullName), success("Data exported successfully"), nil
}

// Import replaces the document with a snapshot. A malformed blob changes
// nothing.
func (s *Session) Import(ctx context.Context, blob []byte) (Notice, error) {
	err := s.mutate(ctx, func(d *cv.Document) error { return d.Deserialize(blob) })
	if err != nil {
		return failure("Invalid data file"), err
	}
	return success("Data imported successfully"), nil
}
