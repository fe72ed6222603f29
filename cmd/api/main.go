package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yashodhank/tincanz/cmd/api/router"
	"github.com/yashodhank/tincanz/internal/config"
	"github.com/yashodhank/tincanz/internal/infrastructure/auth"
	cacheadapter "github.com/yashodhank/tincanz/internal/infrastructure/cache/adapter"
	"github.com/yashodhank/tincanz/internal/infrastructure/database"
	"github.com/yashodhank/tincanz/internal/infrastructure/logging"
	"github.com/yashodhank/tincanz/internal/infrastructure/metrics"
	inboxadapter "github.com/yashodhank/tincanz/internal/pkg/inbox/persistence/repository/adapter"
	inboxhttp "github.com/yashodhank/tincanz/internal/pkg/inbox/presentation/http"
	useradapter "github.com/yashodhank/tincanz/internal/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", os.Getenv("APP_CONFIG"), "optional config file (yaml, json or toml)")
	flag.Parse()

	// Load .env file
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: .env file could not be loaded: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := inboxhttp.Deps{
		Tokens:  auth.NewTokens(cfg.JWT.Secret, cfg.JWT.TTL),
		Metrics: metrics.New(),
	}
	checks := map[string]router.HealthCheck{}

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		users := useradapter.NewMemoryUserRepository()
		deps.Users = users
		deps.Inbox = inboxadapter.NewMemoryInboxRepository(users)
		logger.Warn("using in-memory storage; data is lost on restart")
	default:
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		pool, err := database.Connect(connectCtx, cfg.Database.URL, database.WithMaxConns(cfg.Database.MaxConns))
		cancel()
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if cfg.Database.Migrate {
			if err := database.Migrate(ctx, pool); err != nil {
				logger.Fatal("failed to migrate database", zap.Error(err))
			}
		}
		deps.Users = useradapter.NewPgUserRepository(pool)
		deps.Inbox = inboxadapter.NewPgInboxRepository(pool)
		checks["postgres"] = pool.Ping
	}

	if cfg.Redis.URL != "" {
		cache, err := cacheadapter.NewRedisAdapter(ctx, cfg.Redis.URL, cfg.Redis.Prefix)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = cache.Close() }()
		deps.Cache = cache
		checks["redis"] = cache.Ping
	} else {
		logger.Info("redis.url not set; conversation counters are computed on every request")
	}

	if cfg.Bootstrap.AdminEmail != "" {
		if err := bootstrapAdmin(ctx, deps, cfg, logger); err != nil {
			logger.Fatal("failed to bootstrap admin", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router.New(deps, logger, checks),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTP.Addr), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
