package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/homeaway/backend/config"
	"github.com/pageza/homeaway/backend/internal/actions"
	"github.com/pageza/homeaway/backend/internal/api"
	"github.com/pageza/homeaway/backend/internal/database"
	"github.com/pageza/homeaway/backend/internal/identity"
	"github.com/pageza/homeaway/backend/internal/middleware"
	"github.com/pageza/homeaway/backend/internal/server"
	"github.com/pageza/homeaway/backend/internal/service"
	"github.com/pageza/homeaway/backend/internal/storage"
	"github.com/pageza/homeaway/backend/internal/tracing"
	"github.com/pageza/homeaway/backend/internal/viewcache"
)

// pageCacheTTL bounds how long a rendered page may be served without a stale signal
const pageCacheTTL = 5 * time.Minute

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.IsDevelopment() {
		opts.Level = slog.LevelDebug
	}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func main() {
	// .env is optional; real deployments use the environment or secrets
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, logger, cfg.OTLPEndpoint, "homeaway-api", string(cfg.Environment))
	if err != nil {
		return err
	}
	defer func() {
		tctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(tctx); err != nil {
			logger.Warn("failed to flush traces", slog.Any("error", err))
		}
	}()

	db, err := database.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn("failed to close database", slog.Any("error", err))
		}
	}()

	if err := database.RunMigrations(ctx, db, logger); err != nil {
		return err
	}

	// Redis backs identity metadata, the page cache and the rental limit.
	// Without it the process falls back to in-memory stores and no limit.
	var (
		meta        identity.MetadataStore = identity.NewMemoryMetadata()
		pages       viewcache.Store        = viewcache.NewMemoryStore()
		rentalLimit gin.HandlerFunc
		quota       api.RentalQuota
		rdb         *redis.Client
	)
	rdb, err = database.NewRedisClient(cfg, logger)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory stores", slog.Any("error", err))
	} else {
		defer rdb.Close()
		meta = identity.NewRedisMetadata(rdb)
		pages = viewcache.NewRedisStore(rdb)
		limiter := middleware.NewPropertyCreationRateLimiter(rdb, logger)
		rentalLimit = limiter.RateLimitMiddleware()
		quota = limiter
	}

	s3cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return err
	}
	uploader := storage.NewUploader(storage.NewS3Store(s3cfg), s3cfg.BucketName, logger)

	provider := identity.NewJWTProvider(cfg.JWTSecret, meta)
	profiles := service.NewProfileService(db)
	properties := service.NewPropertyService(db)
	favorites := service.NewFavoriteService(db)

	handler := api.NewHandler(api.Deps{
		Actions: actions.New(actions.Deps{
			Profiles:   profiles,
			Properties: properties,
			Favorites:  favorites,
			Identities: provider,
			Uploader:   uploader,
			Views:      pages,
			Logger:     logger,
		}),
		Profiles:   profiles,
		Properties: properties,
		Favorites:  favorites,
		Quota:      quota,
		Logger:     logger,
	})

	srv := server.New(server.Options{
		Config:     cfg,
		DB:         db,
		Identities: provider,
		Handler:    handler,
		Routes: api.RouteOptions{
			PageCache:   viewcache.Middleware(pages, pageCacheTTL, api.CacheVariant, logger),
			RentalLimit: rentalLimit,
		},
		Logger: logger,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
