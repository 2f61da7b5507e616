package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/jobscout/jobscout/backend/go-services/handlers"
	"github.com/jobscout/jobscout/backend/go-services/internal/config"
	"github.com/jobscout/jobscout/backend/go-services/pkg/logger"
	"github.com/jobscout/jobscout/backend/go-services/pkg/metrics"
	"github.com/jobscout/jobscout/backend/go-services/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if err := run(cfg); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := wire(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.close()

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := newRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("listening on %s (env=%s)", srv.Addr, cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Infof("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

func newRouter(cfg *config.Config, d *dependencies) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(handlers.CORS(), gin.Logger(), gin.Recovery())
	r.MaxMultipartMemory = 2 << 20

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		ready, deps := d.readiness(c.Request.Context())
		status, label := http.StatusOK, "ready"
		if !ready {
			status, label = http.StatusServiceUnavailable, "not_ready"
		}
		c.JSON(status, gin.H{"status": label, "deps": deps, "uptime": time.Since(startTime).String()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r)

	root := r.Group("/")
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && d.redis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			root.Use(middleware.RedisRateLimitMiddleware(d.redis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			root.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	if d.auth != nil {
		d.auth.Register(root)
		root.GET("/api/v1/me", middleware.AuthMiddleware(d.tokens, d.blacklist), d.auth.Me)
	} else {
		logger.Warnf("auth routes disabled: no user store")
	}

	// signed-in users edit under their subject, others under X-CV-Session
	api := root.Group("/", middleware.OptionalAuth(d.tokens, d.blacklist))
	handlers.NewCVHandler(d.cvStore, d.delivery, d.archive).Register(api)
	handlers.NewSearchHandler(d.searcher).Register(api)
	return r
}
