package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/sellercenter-backend/api/routes"
	"github.com/angelmondragon/sellercenter-backend/internal/auth"
	"github.com/angelmondragon/sellercenter-backend/internal/categories"
	"github.com/angelmondragon/sellercenter-backend/internal/groups"
	"github.com/angelmondragon/sellercenter-backend/internal/media"
	products "github.com/angelmondragon/sellercenter-backend/internal/products"
	"github.com/angelmondragon/sellercenter-backend/internal/stats"
	"github.com/angelmondragon/sellercenter-backend/internal/users"
	"github.com/angelmondragon/sellercenter-backend/pkg/auth/session"
	"github.com/angelmondragon/sellercenter-backend/pkg/config"
	"github.com/angelmondragon/sellercenter-backend/pkg/db"
	"github.com/angelmondragon/sellercenter-backend/pkg/env"
	"github.com/angelmondragon/sellercenter-backend/pkg/logger"
	"github.com/angelmondragon/sellercenter-backend/pkg/metrics"
	"github.com/angelmondragon/sellercenter-backend/pkg/migrate"
	"github.com/angelmondragon/sellercenter-backend/pkg/redis"
	"github.com/angelmondragon/sellercenter-backend/pkg/security"
	"github.com/angelmondragon/sellercenter-backend/pkg/storage/local"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		File:        logFile(cfg.App),
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	hasher, err := security.NewHasher(cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create password hasher", err)
		os.Exit(1)
	}

	store, err := local.New(cfg.Storage.UploadDir, cfg.Storage.PublicBaseURL)
	if err != nil {
		logg.Error(context.Background(), "failed to prepare upload directory", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps, err := buildServices(cfg, logg, dbClient, sessionManager, hasher, store, registry)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}
	deps.DB = dbClient
	deps.Redis = redisClient
	deps.RateLimiter = redisClient
	deps.Sessions = sessionManager
	deps.Uploads = store
	deps.HTTPMetrics = metrics.NewHTTPMetrics(registry)
	deps.Gatherer = registry

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":        cfg.App.Env,
		"addr":       addr,
		"upload_dir": store.Root(),
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	sessionManager *session.Manager,
	hasher *security.Hasher,
	store *local.Store,
	registry prometheus.Registerer,
) (routes.Dependencies, error) {
	usersRepo := users.NewRepository(dbClient.DB())
	productsRepo := products.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		Hasher:         hasher,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}
	usersService, err := users.NewService(usersRepo, hasher, cfg.Quota, security.GenerateTempPassword)
	if err != nil {
		return routes.Dependencies{}, err
	}
	productService, err := products.NewService(productsRepo, dbClient)
	if err != nil {
		return routes.Dependencies{}, err
	}
	statsService, err := stats.NewService(productsRepo, usersRepo)
	if err != nil {
		return routes.Dependencies{}, err
	}
	categoryService, err := categories.NewService(categories.NewRepository(dbClient.DB()), logg)
	if err != nil {
		return routes.Dependencies{}, err
	}
	groupService, err := groups.NewService(groups.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		return routes.Dependencies{}, err
	}
	mediaService, err := media.NewService(media.ServiceParams{
		Repo:    media.NewRepository(dbClient.DB()),
		DB:      dbClient,
		Store:   store,
		Config:  cfg.Media,
		Metrics: metrics.NewMediaMetrics(registry),
		Logger:  logg,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	return routes.Dependencies{
		Config:     cfg,
		Logger:     logg,
		Auth:       authService,
		Users:      usersService,
		Products:   productService,
		Stats:      statsService,
		Categories: categoryService,
		Groups:     groupService,
		Media:      mediaService,
	}, nil
}

func logFile(app config.AppConfig) *logger.FileOptions {
	if app.LogFile == "" {
		return nil
	}
	return &logger.FileOptions{
		Path:       app.LogFile,
		MaxSizeMB:  app.LogFileMaxMB,
		MaxBackups: app.LogFileBackups,
		MaxAgeDays: app.LogFileMaxDays,
	}
}
