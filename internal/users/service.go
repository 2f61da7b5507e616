package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/jobscout/jobscout/backend/go-services/internal/models"
)

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrFederatedOnly means the account was created through Google and
	// has no password.
	ErrFederatedOnly = errors.New("account uses Google sign-in")
)

// Hasher hashes and checks passwords; *config.PasswordConfig satisfies it.
type Hasher interface {
	HashPassword(pw string) (string, error)
	VerifyPassword(pw, storedHash string) bool
}

// Service encapsulates user-related business logic
type Service struct {
	repo   UserRepository
	hasher Hasher
}

func NewService(r UserRepository, h Hasher) *Service {
	return &Service{repo: r, hasher: h}
}

// Register creates a credentials account.
func (s *Service) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Sub:          uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Provider:     models.ProviderCredentials,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate checks an email/password pair.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if !u.HasPassword() {
		return nil, ErrFederatedOnly
	}
	if !s.hasher.VerifyPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// FindOrCreateFederated returns the account for a verified identity,
// creating it on first sign-in. An existing account with the same email
// is reused whatever its provider.
func (s *Service) FindOrCreateFederated(ctx context.Context, claims map[string]interface{}, provider string) (*models.User, error) {
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if sub == "" || email == "" {
		return nil, errors.New("identity token lacks sub or email")
	}
	if u, err := s.repo.GetByEmail(ctx, email); err != nil || u != nil {
		return u, err
	}
	u := &models.User{
		Sub:      provider + ":" + sub,
		Email:    email,
		Name:     name,
		Provider: provider,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			// lost a race with a concurrent first sign-in
			return s.repo.GetByEmail(ctx, email)
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) GetBySub(ctx context.Context, sub string) (*models.User, error) {
	return s.repo.GetBySub(ctx, sub)
}
