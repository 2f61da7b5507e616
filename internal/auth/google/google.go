// Package google runs the Google authorization-code sign-in flow.
package google

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/jobscout/jobscout/backend/go-services/pkg/middleware"
)

var (
	ErrNotConfigured = errors.New("google auth not configured")
	ErrInvalidState  = errors.New("invalid or expired state")
	ErrNoIDToken     = errors.New("token response has no id_token")
)

// Config holds the OAuth client settings. A zero Endpoint means Google's.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	UIRedirect   string
	Endpoint     oauth2.Endpoint
}

// Flow issues authorization URLs and completes callbacks. ID tokens from
// the code exchange are checked with the given verifier.
type Flow struct {
	oauth      *oauth2.Config
	verifier   middleware.Verifier
	uiRedirect string
	stateTTL   time.Duration
	states     *stateStore
}

func NewFlow(cfg Config, verifier middleware.Verifier) *Flow {
	endpoint := cfg.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = googleoauth.Endpoint
	}
	return &Flow{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoint,
		},
		verifier:   verifier,
		uiRedirect: cfg.UIRedirect,
		stateTTL:   5 * time.Minute,
		states:     newStateStore(),
	}
}

// Configured reports whether the flow can run.
func (f *Flow) Configured() bool {
	return f.oauth.ClientID != "" && f.oauth.ClientSecret != "" && f.oauth.RedirectURL != "" && f.verifier != nil
}

// Start returns the consent URL carrying a fresh single-use state.
func (f *Flow) Start() (string, error) {
	if !f.Configured() {
		return "", ErrNotConfigured
	}
	state := uuid.NewString()
	f.states.put(state, time.Now().Add(f.stateTTL))
	return f.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// Complete consumes state, exchanges code and returns the verified ID
// token claims.
func (f *Flow) Complete(ctx context.Context, state, code string) (map[string]interface{}, error) {
	if !f.Configured() {
		return nil, ErrNotConfigured
	}
	if state == "" || code == "" || !f.states.consume(state) {
		return nil, ErrInvalidState
	}
	tok, err := f.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	raw, _ := tok.Extra("id_token").(string)
	if raw == "" {
		return nil, ErrNoIDToken
	}
	idToken, err := f.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("verify id_token: %w", err)
	}
	var claims map[string]interface{}
	if err := idToken.Claims(&claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// RedirectURL points the browser back at the UI with the access token in
// the "token" query parameter.
func (f *Flow) RedirectURL(token string) (string, error) {
	if f.uiRedirect == "" {
		return "", errors.New("redirect url required")
	}
	u, err := url.Parse(f.uiRedirect)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

type stateStore struct {
	mu    sync.Mutex
	items map[string]time.Time
}

func newStateStore() *stateStore {
	return &stateStore{items: make(map[string]time.Time)}
}

func (s *stateStore) put(state string, exp time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for k, e := range s.items {
		if now.After(e) {
			delete(s.items, k)
		}
	}
	s.items[state] = exp
}

func (s *stateStore) consume(state string) bool {
	s.mu.Lock()
	exp, ok := s.items[state]
	delete(s.items, state)
	s.mu.Unlock()
	return ok && !time.Now().After(exp)
}
