package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jobscout/jobscout/backend/go-services/internal/models"
	"github.com/jobscout/jobscout/backend/go-services/pkg/middleware"
)

// ErrEmptySecret is returned by NewManager when no signing secret is set.
var ErrEmptySecret = errors.New("tokens: empty signing secret")

var _ middleware.Verifier = (*Manager)(nil)

// Manager issues and verifies HS256 access tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL is the lifetime of issued tokens.
func (m *Manager) TTL() time.Duration { return m.ttl }

// GenerateAccessToken creates a signed JWT access token for the user
func (m *Manager) GenerateAccessToken(u *models.User) (string, error) {
	now := m.now()
	claims := jwt.MapClaims{
		"sub":   u.Sub,
		"name":  u.Name,
		"email": u.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(m.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// claimsToken exposes verified claims through the middleware Token interface.
type claimsToken struct {
	claims jwt.MapClaims
}

func (t *claimsToken) Claims(v interface{}) error {
	b, err := json.Marshal(t.claims)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// Verify checks signature, algorithm and expiry of raw.
func (m *Manager) Verify(_ context.Context, raw string) (middleware.Token, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired(), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("verify access token: %w", err)
	}
	return &claimsToken{claims: claims}, nil
}

// Remaining returns how long raw stays valid, or zero when it cannot be
// parsed or has expired. Signatures are not checked.
func (m *Manager) Remaining(raw string) time.Duration {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return 0
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}
	if d := exp.Sub(m.now()); d > 0 {
		return d
	}
	return 0
}
