package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	t.Setenv("MONGODB_DATABASE", "jobscout_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("JWT_SECRET", "testsecret123456789012345678901234")
	t.Setenv("SMTP_HOST", "smtp.test")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("SMTP_USER", "cv@jobscout.test")
	t.Setenv("CV_STORE", "Redis")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "jobscout_test", cfg.MongoDB.Database)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.Equal(t, "CV Builder", cfg.SMTP.FromName)
	assert.Equal(t, "redis", cfg.CVStore.Backend)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.Scraper.URL)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 12, cfg.Password.BcryptCost)
}

func TestLoadConfig_Rejects(t *testing.T) {
	t.Setenv("CV_STORE", "mongo")
	t.Setenv("MONGODB_URI", "")
	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("CV_STORE", "disk")
	_, err = LoadConfig()
	require.Error(t, err)

	t.Setenv("CV_STORE", "memory")
	t.Setenv("BCRYPT_COST", "40")
	_, err = LoadConfig()
	require.Error(t, err)
}

func TestPasswordConfig(t *testing.T) {
	pc := &PasswordConfig{BcryptCost: 4, Pepper: "pep"}
	require.NoError(t, pc.normalize())

	hash, err := pc.HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, pc.VerifyPassword("s3cret", hash))
	assert.False(t, pc.VerifyPassword("wrong", hash))

	other := &PasswordConfig{BcryptCost: 4}
	assert.False(t, other.VerifyPassword("s3cret", hash), "pepper must be part of the hash")
}
