// Package main is the entry point for the media-fetch-bot API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"media-fetch-bot/internal/app/service"
	"media-fetch-bot/internal/config"
	"media-fetch-bot/internal/domain"
	"media-fetch-bot/internal/infra/postgres"
	"media-fetch-bot/internal/infra/postgres/migrations"
	"media-fetch-bot/internal/infra/provider/registry"
	rediscache "media-fetch-bot/internal/infra/redis"
	"media-fetch-bot/internal/infra/sysinfo"
	"media-fetch-bot/internal/job"
	"media-fetch-bot/internal/logger"
	"media-fetch-bot/internal/metrics"
	"media-fetch-bot/internal/transport/httpserver"
	"media-fetch-bot/internal/transport/httpserver/middleware"
	"media-fetch-bot/internal/validator"
	"media-fetch-bot/pkg/locker"
)

const shutdownTimeout = 30 * time.Second

// countingCache is a resolution cache that can report its size.
type countingCache interface {
	domain.ResolutionCache
	Count(ctx context.Context) (int64, error)
}

func main() {
	cfg, err := config.Load(os.Getenv("APP_CONFIG_FILE"))
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(cfg.Logger, cfg.Sentry)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting media-fetch-bot",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	db, err := postgres.NewConnection(cfg.Database, cfg.App.Debug, log.Logger)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = postgres.Close(db) }()

	if err := migrations.Run(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("database migrations completed")

	ctx := context.Background()
	redisClient, err := rediscache.NewClient(ctx, cfg.Redis, log.Logger)
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()

	usageRepo := postgres.NewUsageRepository(db)

	var cache countingCache
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		cache = rediscache.NewResolutionCache(redisClient, cfg.Cache.KeyPrefix, log.Logger)
	default:
		cache = postgres.NewCacheRepository(db)
	}

	m := metrics.New()
	table := registry.New(cfg.Provider, log.Logger)

	resolveSvc := service.NewResolveService(table, cfg.Resolve.Cooldown, m, log.Logger)
	mediaSvc := service.NewMediaService(resolveSvc, cache, usageRepo, cfg.Resolve.Caption, m, log.Logger)
	usageSvc := service.NewUsageService(usageRepo, log.Logger)

	pinger := postgres.NewPinger(db)
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:         cfg.App.Port,
			BodyLimit:    1024 * 1024, // 1MB
			Debug:        cfg.App.Debug,
			TemplatesDir: "./web/templates",
			StaticDir:    "./web/static",
			ReportWindow: cfg.Report.Window,
		},
		httpserver.Dependencies{
			Media:     mediaSvc,
			Usage:     usageSvc,
			Recent:    usageRepo,
			CacheSize: cache,
			Providers: table,
			System:    sysinfo.NewCollector(200 * time.Millisecond),
			Metrics:   m,
			Validator: validator.New(),
			Readiness: []middleware.ReadinessCheck{
				{Name: "postgres", Check: pinger.Ping},
				{Name: "redis", Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
			},
		},
		log.Logger,
	)

	var scheduler *job.ReportScheduler
	if cfg.Report.Enabled {
		scheduler = job.NewReportScheduler(
			usageSvc,
			job.ReportConfig{
				Interval:  cfg.Report.Interval,
				Window:    cfg.Report.Window,
				OnStartup: cfg.Report.OnStartup,
			},
			m,
			locker.NewRedisLocker(redisClient, cfg.Cache.KeyPrefix, log.Logger),
			log.Logger,
		)
		scheduler.Start()
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		if scheduler != nil {
			scheduler.Stop()
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
