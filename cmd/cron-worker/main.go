package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/sellercenter-backend/internal/cron"
	"github.com/angelmondragon/sellercenter-backend/internal/media"
	"github.com/angelmondragon/sellercenter-backend/pkg/config"
	"github.com/angelmondragon/sellercenter-backend/pkg/db"
	"github.com/angelmondragon/sellercenter-backend/pkg/logger"
	"github.com/angelmondragon/sellercenter-backend/pkg/metrics"
	"github.com/angelmondragon/sellercenter-backend/pkg/migrate"
	"github.com/angelmondragon/sellercenter-backend/pkg/redis"
	"github.com/angelmondragon/sellercenter-backend/pkg/storage/local"
)

const lockName = "cron-worker"

func main() {
	jobName := flag.String("job", "", "run only the named job")
	once := flag.Bool("once", false, "run a single cycle and exit")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	store, err := local.New(cfg.Storage.UploadDir, cfg.Storage.PublicBaseURL)
	if err != nil {
		logg.Error(context.Background(), "failed to open upload directory", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, lockName, 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	orphanJob, err := cron.NewOrphanUploadCleanupJob(cron.OrphanUploadCleanupJobParams{
		Logger:    logg,
		Files:     store,
		Media:     media.NewRepository(dbClient.DB()),
		Metrics:   metricsCollector,
		Retention: cfg.Cron.OrphanRetention,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orphan upload job", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry(orphanJob)
	if *jobName != "" {
		registry, err = registry.Only(*jobName)
		if err != nil {
			logg.Error(context.Background(), "unknown job", err)
			os.Exit(2)
		}
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
		Schedule: cfg.Cron.Schedule,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"schedule": cfg.Cron.Schedule,
		"interval": cfg.Cron.Interval.String(),
		"once":     *once,
	})

	if *once {
		logg.Info(ctx, "running single cron cycle")
		if err := service.RunOnce(ctx); err != nil {
			logg.Error(ctx, "cron cycle failed", err)
			os.Exit(1)
		}
		return
	}

	logg.Info(ctx, "starting cron worker")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
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
