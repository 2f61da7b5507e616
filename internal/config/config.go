package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jobscout/jobscout/backend/go-services/pkg/logger"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Google    GoogleConfig
	JWT       JWTConfig
	Password  PasswordConfig
	SMTP      SMTPConfig
	MinIO     MinIOConfig
	Scraper   ScraperConfig
	RateLimit RateLimitConfig
	CVStore   CVStoreConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr is host:port, empty when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

// GoogleConfig drives both ID-token sign-in and the authorization-code flow.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	UIRedirect   string
	// AllowInsecureToken accepts unsigned ID tokens; integration tests only.
	AllowInsecureToken bool
}

type JWTConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	FromName string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	LinkTTL   time.Duration
}

type ScraperConfig struct {
	URL      string
	Timeout  time.Duration
	RPS      float64
	Burst    int
	CacheTTL time.Duration
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// CVStoreConfig picks where editing snapshots live: memory, redis or mongo.
type CVStoreConfig struct {
	Backend string
	TTL     time.Duration
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "5001")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 10)
	v.SetDefault("MONGODB_DATABASE", "jobscout")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("JWT_ACCESS_TOKEN_TTL", 15)
	v.SetDefault("JWT_REFRESH_TOKEN_TTL", 10080)
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_FROM_NAME", "CV Builder")
	v.SetDefault("MINIO_BUCKET", "jobscout")
	v.SetDefault("MINIO_LINK_TTL", 1440)
	v.SetDefault("SCRAPER_URL", "http://127.0.0.1:8000")
	v.SetDefault("SCRAPER_TIMEOUT", 60)
	v.SetDefault("SCRAPER_RPS", 2)
	v.SetDefault("SCRAPER_BURST", 4)
	v.SetDefault("SCRAPER_CACHE_TTL", 300)
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	v.SetDefault("CV_STORE", "memory")
	v.SetDefault("CV_STORE_TTL", 0)

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("SERVER_PORT"),
			Host:            v.GetString("SERVER_HOST"),
			Environment:     v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: time.Duration(v.GetInt("SERVER_SHUTDOWN_TIMEOUT")) * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Google: GoogleConfig{
			ClientID:           v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret:       os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:        v.GetString("GOOGLE_REDIRECT_URL"),
			UIRedirect:         v.GetString("GOOGLE_UI_REDIRECT"),
			AllowInsecureToken: strings.EqualFold(strings.TrimSpace(v.GetString("ALLOW_INSECURE_TOKEN")), "true"),
		},
		JWT: JWTConfig{
			Secret:          os.Getenv("JWT_SECRET"),
			AccessTokenTTL:  time.Duration(v.GetInt("JWT_ACCESS_TOKEN_TTL")) * time.Minute,
			RefreshTokenTTL: time.Duration(v.GetInt("JWT_REFRESH_TOKEN_TTL")) * time.Minute,
		},
		Password: PasswordConfig{
			BcryptCost: v.GetInt("BCRYPT_COST"),
			Pepper:     os.Getenv("PASSWORD_PEPPER"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			FromName: v.GetString("SMTP_FROM_NAME"),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			LinkTTL:   time.Duration(v.GetInt("MINIO_LINK_TTL")) * time.Minute,
		},
		Scraper: ScraperConfig{
			URL:      v.GetString("SCRAPER_URL"),
			Timeout:  time.Duration(v.GetInt("SCRAPER_TIMEOUT")) * time.Second,
			RPS:      v.GetFloat64("SCRAPER_RPS"),
			Burst:    v.GetInt("SCRAPER_BURST"),
			CacheTTL: time.Duration(v.GetInt("SCRAPER_CACHE_TTL")) * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		CVStore: CVStoreConfig{
			Backend: strings.ToLower(v.GetString("CV_STORE")),
			TTL:     time.Duration(v.GetInt("CV_STORE_TTL")) * time.Minute,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.JWT.Secret == "" {
		logger.Warn("JWT_SECRET is not set; set a secure value in production")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if err := c.Password.normalize(); err != nil {
		return err
	}
	switch c.CVStore.Backend {
	case "memory":
	case "redis":
		if c.Redis.Host == "" {
			return fmt.Errorf("CV_STORE=redis requires REDIS_HOST")
		}
	case "mongo":
		if c.MongoDB.URI == "" {
			return fmt.Errorf("CV_STORE=mongo requires MONGODB_URI")
		}
	default:
		return fmt.Errorf("unknown CV_STORE %q (memory, redis or mongo)", c.CVStore.Backend)
	}
	if c.JWT.Secret == "" && c.Server.Environment == "production" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	return nil
}
