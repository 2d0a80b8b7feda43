package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sidvishnoi/respec-github-apis/internal/cache"
	"github.com/sidvishnoi/respec-github-apis/internal/config"
	"github.com/sidvishnoi/respec-github-apis/internal/github"
	"github.com/sidvishnoi/respec-github-apis/internal/handler"
	"github.com/sidvishnoi/respec-github-apis/internal/incremental"
	"github.com/sidvishnoi/respec-github-apis/internal/model"
	"github.com/sidvishnoi/respec-github-apis/internal/repository"
	"github.com/sidvishnoi/respec-github-apis/internal/service"
	jwtpkg "github.com/sidvishnoi/respec-github-apis/pkg/jwt"
)

func main() {
	// 1. Load and validate configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	// 2. Initialize logger
	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	// 3. Initialize snapshot store
	store, closeStore, err := newSnapshotStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to init snapshot store", zap.String("backend", cfg.Cache.Backend), zap.Error(err))
	}
	defer closeStore()
	logger.Info("using snapshot store", zap.String("backend", cfg.Cache.Backend))

	// 4. Open caches from their last snapshots
	ctx := context.Background()
	commitStates := cache.NewDurable[string, incremental.State[model.Commit]]("commits", store, logger).Load(ctx)
	commenterStates := cache.NewDurable[string, incremental.State[model.Commenter]]("commenters", store, logger).Load(ctx)
	users := cache.NewDurable[string, model.User]("users", store, logger).Load(ctx)
	contributors := cache.NewStats[string, []model.Contributor](cache.Options{
		Name: "contributors", TTL: cfg.Cache.ContributorsTTL, AutoEvict: true, Store: store, Logger: logger,
	}).Load(ctx)
	issues := cache.NewStats[string, []model.Issue](cache.Options{
		Name: "issues", TTL: cfg.Cache.IssuesTTL, AutoEvict: true, Store: store, Logger: logger,
	}).Load(ctx)
	managed := []service.ManagedCache{commitStates, commenterStates, users, contributors, issues}

	// 5. Initialize GitHub client
	gh, err := github.NewClient(cfg.GitHub, logger.Named("github"))
	if err != nil {
		logger.Fatal("failed to init github client", zap.Error(err))
	}
	if cfg.GitHub.Token == "" {
		logger.Warn("no github token configured, requests are unauthenticated")
	}

	// 6. Initialize services
	cacheService := service.NewCacheService(managed...)
	githubHandler := handler.NewGitHubHandler(
		service.NewCommitService(gh, commitStates, logger),
		service.NewCommenterService(gh, commenterStates, logger),
		service.NewContributorService(gh, contributors, logger),
		service.NewIssueService(gh, issues, logger),
		service.NewUserService(gh, users, cfg.GitHub.MaxConcurrency, logger),
	)
	adminHandler := handler.NewAdminHandler(cacheService)
	jwtManager := jwtpkg.NewManager(cfg.Admin.SigningKey, cfg.Admin.Issuer, cfg.Admin.TokenTTL)

	// 7. Start periodic snapshots
	dumpCtx, stopDumps := context.WithCancel(ctx)
	dumpDone := make(chan struct{})
	go func() {
		defer close(dumpDone)
		dumpers := make([]cache.Dumper, len(managed))
		for i, c := range managed {
			dumpers[i] = c
		}
		cache.RunPeriodicDump(dumpCtx, cfg.Cache.DumpInterval, logger, dumpers...)
	}()

	// 8. Setup router and HTTP server
	router := handler.SetupRouter(cfg, logger, jwtManager, githubHandler, adminHandler)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 9. Start server with graceful shutdown
	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// 10. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.GracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	// 11. Stop background work and take a final snapshot
	stopDumps()
	<-dumpDone
	contributors.Close()
	issues.Close()
	if err := cacheService.DumpAll(shutdownCtx); err != nil {
		logger.Error("final cache dump failed", zap.Error(err))
	}
	logger.Info("server exited gracefully")
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		zc.Level = level
	}
	return zc.Build()
}

// newSnapshotStore opens the backend named by cache.backend. The returned func releases
// its connections.
func newSnapshotStore(cfg *config.Config, logger *zap.Logger) (repository.SnapshotStore, func(), error) {
	switch cfg.Cache.Backend {
	case config.BackendFile:
		return repository.NewFileSnapshotStore(cfg.Cache.Dir), func() {}, nil
	case config.BackendMemory:
		logger.Warn("memory snapshot store: caches do not survive a restart")
		return repository.NewMemorySnapshotStore(), func() {}, nil
	case config.BackendRedis:
		client, err := config.NewRedisClient(cfg.Database.Redis)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisSnapshotStore(client), func() { _ = client.Close() }, nil
	case config.BackendPostgres:
		db, err := config.NewPostgresDB(cfg.Database.Postgres)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Database.Postgres.AutoMigrate {
			migrateStart := time.Now()
			if err := model.AutoMigrate(db); err != nil {
				return nil, nil, fmt.Errorf("auto-migrate: %w", err)
			}
			logger.Info("database migration completed", zap.Duration("took", time.Since(migrateStart)))
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repository.NewPGSnapshotStore(db), closeDB, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Cache.Backend)
}
