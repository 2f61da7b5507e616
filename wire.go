package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jobscout/jobscout/backend/go-services/handlers"
	"github.com/jobscout/jobscout/backend/go-services/internal/archive"
	"github.com/jobscout/jobscout/backend/go-services/internal/auth/google"
	"github.com/jobscout/jobscout/backend/go-services/internal/config"
	"github.com/jobscout/jobscout/backend/go-services/internal/cv/delivery"
	"github.com/jobscout/jobscout/backend/go-services/internal/cv/store"
	"github.com/jobscout/jobscout/backend/go-services/internal/database"
	"github.com/jobscout/jobscout/backend/go-services/internal/jobsearch"
	"github.com/jobscout/jobscout/backend/go-services/internal/mailer"
	"github.com/jobscout/jobscout/backend/go-services/internal/oidc"
	"github.com/jobscout/jobscout/backend/go-services/internal/sessions"
	"github.com/jobscout/jobscout/backend/go-services/internal/storage"
	"github.com/jobscout/jobscout/backend/go-services/internal/tokens"
	"github.com/jobscout/jobscout/backend/go-services/internal/users"
	"github.com/jobscout/jobscout/backend/go-services/pkg/logger"
)

// dependencies are the long-lived collaborators shared by all routes.
type dependencies struct {
	cfg   *config.Config
	redis *redis.Client
	mongo *mongo.Client

	tokens    *tokens.Manager
	blacklist *sessions.Blacklist
	auth      *handlers.AuthHandler
	cvStore   store.Store
	delivery  *delivery.Service
	archive   *archive.Archiver
	searcher  jobsearch.Searcher
}

func wire(ctx context.Context, cfg *config.Config) (*dependencies, error) {
	d := &dependencies{cfg: cfg}

	if addr := cfg.Redis.Addr(); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warnf("redis %s unreachable: %v", addr, err)
			if cfg.CVStore.Backend == "redis" {
				return nil, fmt.Errorf("redis required by CV_STORE: %w", err)
			}
			_ = client.Close()
		} else {
			logger.Infof("connected to redis at %s", addr)
			d.redis = client
		}
	}

	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectMongoRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second)
		if err != nil {
			logger.Warnf("could not connect to MongoDB: %v", err)
			if cfg.CVStore.Backend == "mongo" {
				return nil, fmt.Errorf("mongo required by CV_STORE: %w", err)
			}
		} else {
			d.mongo = client
		}
	}

	secret := cfg.JWT.Secret
	if secret == "" {
		secret = randomSecret()
		logger.Warnf("JWT_SECRET not set; using an ephemeral secret, tokens will not survive restarts")
	}
	tm, err := tokens.NewManager(secret, cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	d.tokens = tm
	// a nil client leaves the blacklist inert
	d.blacklist = sessions.NewBlacklist(nil)
	if d.redis != nil {
		d.blacklist = sessions.NewBlacklist(d.redis)
	}

	if err := d.wireAuth(ctx); err != nil {
		return nil, err
	}
	if err := d.wireCV(ctx); err != nil {
		return nil, err
	}
	d.wireSearch()
	return d, nil
}

func (d *dependencies) db() *mongo.Database {
	return d.mongo.Database(d.cfg.MongoDB.Database)
}

func (d *dependencies) wireAuth(ctx context.Context) error {
	cfg := d.cfg
	var userRepo users.UserRepository
	if d.mongo != nil {
		repo, err := users.NewMongoUserRepository(ctx, d.db().Collection("users"))
		if err != nil {
			return fmt.Errorf("users repository: %w", err)
		}
		userRepo = repo
	} else if cfg.Server.Environment != "production" {
		logger.Warnf("no MongoDB: accounts are kept in memory")
		userRepo = users.NewMemoryUserRepository()
	} else {
		return nil
	}

	var sessionRepo sessions.Repository
	switch {
	case d.redis != nil:
		sessionRepo = sessions.NewRedisRepository(d.redis, sessions.DefaultRedisPrefix)
	case d.mongo != nil:
		repo, err := sessions.NewMongoRepository(ctx, d.db().Collection("sessions"))
		if err != nil {
			return fmt.Errorf("sessions repository: %w", err)
		}
		sessionRepo = repo
	default:
		sessionRepo = sessions.NewMemoryRepository()
	}

	authDeps := handlers.AuthDeps{
		Users:      users.NewService(userRepo, &cfg.Password),
		Sessions:   sessions.NewService(sessionRepo),
		Tokens:     d.tokens,
		Blacklist:  d.blacklist,
		RefreshTTL: cfg.JWT.RefreshTokenTTL,
	}
	if ver, err := oidc.Google(ctx, cfg.Google.ClientID, cfg.Google.AllowInsecureToken); err == nil {
		authDeps.GoogleIDTokens = ver
		authDeps.GoogleFlow = google.NewFlow(google.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
			UIRedirect:   cfg.Google.UIRedirect,
		}, ver)
	} else {
		logger.Warnf("google sign-in disabled: %v", err)
	}
	d.auth = handlers.NewAuthHandler(authDeps)
	return nil
}

func (d *dependencies) wireCV(ctx context.Context) error {
	cfg := d.cfg
	switch cfg.CVStore.Backend {
	case "redis":
		d.cvStore = store.NewRedisStore(d.redis, "cv:", cfg.CVStore.TTL)
	case "mongo":
		st, err := store.NewMongoStore(ctx, d.db().Collection("cv_documents"))
		if err != nil {
			return fmt.Errorf("cv store: %w", err)
		}
		d.cvStore = st
	default:
		d.cvStore = store.NewMemoryStore()
	}
	logger.Infof("cv snapshots stored in %s", cfg.CVStore.Backend)

	var m mailer.Mailer = mailer.NewSMTPMailer(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		FromName: cfg.SMTP.FromName,
	})
	if cfg.SMTP.Host == "" {
		logger.Warnf("SMTP_HOST not set; sending CVs by email will fail")
	}
	d.delivery = delivery.NewService(nil, m)

	mcfg := &storage.MinIOConfig{
		Endpoint:  cfg.MinIO.Endpoint,
		AccessKey: cfg.MinIO.AccessKey,
		SecretKey: cfg.MinIO.SecretKey,
		UseSSL:    cfg.MinIO.UseSSL,
		Bucket:    cfg.MinIO.Bucket,
	}
	if !mcfg.Enabled() {
		d.archive = archive.New(nil, nil, 0)
		return nil
	}
	objects, err := storage.NewMinIOStorage(ctx, mcfg)
	if err != nil {
		logger.Warnf("archive disabled: %v", err)
		d.archive = archive.New(nil, nil, 0)
		return nil
	}
	var records archive.RecordStore = archive.NewMemoryRecords()
	if d.mongo != nil {
		mr, err := archive.NewMongoRecords(ctx, d.db().Collection(archive.CollectionName))
		if err != nil {
			return fmt.Errorf("archive records: %w", err)
		}
		records = mr
	}
	d.archive = archive.New(objects, records, cfg.MinIO.LinkTTL)
	return nil
}

func (d *dependencies) wireSearch() {
	cfg := d.cfg.Scraper
	var s jobsearch.Searcher = jobsearch.NewClient(cfg.URL, cfg.Timeout, cfg.RPS, cfg.Burst)
	if d.redis != nil && cfg.CacheTTL > 0 {
		s = jobsearch.NewCachedSearcher(s, d.redis, "jobsearch:", cfg.CacheTTL)
	}
	d.searcher = s
}

// readiness reports per-dependency health. Only backends the CV store
// depends on make the service unready.
func (d *dependencies) readiness(ctx context.Context) (bool, map[string]bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	deps := map[string]bool{
		"auth":    d.auth != nil,
		"archive": d.archive.Enabled(),
	}
	ready := true
	if d.cfg.Redis.Addr() != "" {
		deps["redis"] = d.redis != nil && d.redis.Ping(ctx).Err() == nil
		if d.cfg.CVStore.Backend == "redis" && !deps["redis"] {
			ready = false
		}
	}
	if d.cfg.MongoDB.URI != "" {
		deps["mongo"] = d.mongo != nil && d.mongo.Ping(ctx, nil) == nil
		if d.cfg.CVStore.Backend == "mongo" && !deps["mongo"] {
			ready = false
		}
	}
	return ready, deps
}

func (d *dependencies) close() {
	if d.redis != nil {
		_ = d.redis.Close()
	}
	if d.mongo != nil {
		_ = d.mongo.Disconnect(context.Background())
	}
}

func randomSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
