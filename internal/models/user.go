package models

import "time"

// Sign-in providers.
const (
	ProviderCredentials = "credentials"
	ProviderGoogle      = "google"
)

// User is an application account. Accounts created through Google carry
// no password hash.
type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Sub          string    `bson:"sub" json:"sub"`
	Email        string    `bson:"email" json:"email"`
	Name         string    `bson:"name" json:"name"`
	PasswordHash string    `bson:"passwordHash,omitempty" json:"-"`
	Provider     string    `bson:"provider" json:"provider"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasPassword reports whether the account can sign in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
