package cv

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLastEntry is returned when a removal would leave a list empty.
	ErrLastEntry = errors.New("at least one entry is required")
	// ErrEntryNotFound is returned when no entry carries the requested id.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrUnknownField is returned by SetField for an unknown section or key.
	ErrUnknownField = errors.New("unknown field")
)

// ValidationError lists the required personal fields that are blank.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// ParseError reports a malformed snapshot.
type ParseError struct {
	Reason string
	Cause  error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid snapshot: %s: %v", e.Reason, e.Cause)
	}
	return "invalid snapshot: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Cause }

// RenderError wraps a failure inside the PDF engine.
type RenderError struct {
	Cause error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed: %v", e.Cause)
}

func (e *RenderError) Unwrap() error { return e.Cause }

// TransportError wraps a failure of an outside collaborator (mail, search).
type TransportError struct {
	Op    string
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// FieldError names the field a SetField call could not resolve.
type FieldError struct {
	Section string
	Key     string
	Err     error
}

func (e *FieldError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %v", e.Section, e.Err)
	}
	return fmt.Sprintf("%s.%s: %v", e.Section, e.Key, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
