package oidc

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/jobscout/jobscout/backend/go-services/pkg/logger"
	"github.com/jobscout/jobscout/backend/go-services/pkg/middleware"
)

// GoogleIssuer is the issuer of Google ID tokens.
const GoogleIssuer = "https://accounts.google.com"

// ErrNoClientID is returned when Google sign-in is requested without a client id.
var ErrNoClientID = errors.New("oidc: google client id not configured")

// Verifier wraps the OIDC provider and token verifier
type Verifier struct {
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
}

// NewVerifier creates a new OIDC verifier for the given issuer and client ID
func NewVerifier(ctx context.Context, issuer, clientID string) (*Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}
	return &Verifier{provider: provider, verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

// Provider exposes the discovered endpoints, used to build the oauth2 config.
func (v *Verifier) Provider() *oidc.Provider { return v.provider }

// Verify verifies the provided raw ID token using the provided context and returns a middleware.Token
func (v *Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	idToken, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	return idToken, nil
}

// Google returns a verifier for Google ID tokens issued to clientID. When
// allowInsecure is set and discovery fails, or no client id is configured,
// it falls back to the payload-only InsecureVerifier.
func Google(ctx context.Context, clientID string, allowInsecure bool) (middleware.Verifier, error) {
	if clientID == "" {
		if allowInsecure {
			logger.Warnf("google client id missing; accepting unverified ID tokens")
			return NewInsecureVerifier(), nil
		}
		return nil, ErrNoClientID
	}
	v, err := NewVerifier(ctx, GoogleIssuer, clientID)
	if err != nil {
		if allowInsecure {
			logger.Warnf("google discovery failed (%v); accepting unverified ID tokens", err)
			return NewInsecureVerifier(), nil
		}
		return nil, err
	}
	return v, nil
}
