package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"insightx/internal/api"
	"insightx/internal/api/handlers"
	"insightx/internal/knowledge"
	"insightx/internal/models"
	"insightx/internal/repository"
	"insightx/internal/service"
	"insightx/pkg/auth"
	"insightx/pkg/config"
	"insightx/pkg/logger"
	"insightx/pkg/postgres"
	"insightx/pkg/redis"

	"go.uber.org/zap"
)

// @title InsightX API
// @version 1.0
// @description Natural-language analytics over precomputed UPI transaction aggregates

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting InsightX service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initial knowledge base: explicit snapshot file, otherwise the embedded one.
	kb, source, err := loadKnowledgeBase(cfg.Knowledge)
	if err != nil {
		appLogger.Fatal("Failed to load knowledge base", zap.Error(err))
	}
	store := knowledge.NewStore(kb, source, logger.Named("knowledge"))

	var (
		snapshots service.SnapshotRepository
		records   service.RecordSource
		cache     *repository.SnapshotCache
	)

	if cfg.Database.Enabled {
		db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := postgres.Migrate(ctx, db, appLogger); err != nil {
			appLogger.Fatal("Failed to migrate database", zap.Error(err))
		}
		records = repository.NewTransactionRepository(db, appLogger)
		if cfg.Knowledge.Persist {
			snapshots = repository.NewKnowledgeRepository(db, appLogger)
		}
	}

	if cfg.Redis.Enabled {
		rdb, err := redis.NewClient(ctx, &cfg.Redis, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer rdb.Close()
		cache = repository.NewSnapshotCache(rdb, cfg.Redis.SnapshotTTL, logger.Named("cache"))
	}

	var snapshotCache service.SnapshotCache
	if cache != nil && cfg.Knowledge.Publish {
		snapshotCache = cache
	}
	insights := service.NewInsightService(store, snapshots, snapshotCache, records, logger.Named("insights"))

	if cfg.Knowledge.SnapshotPath == "" {
		restored, err := insights.RestoreLatest(ctx)
		if err != nil {
			appLogger.Warn("Failed to restore latest snapshot, serving initial knowledge base", zap.Error(err))
		} else if restored {
			appLogger.Info("Restored latest snapshot", zap.String("version", insights.Status().Version))
		}
	}

	if snapshotCache != nil {
		go cache.Watch(ctx, func(version string) {
			if err := insights.Adopt(ctx, version); err != nil {
				appLogger.Warn("Failed to adopt announced snapshot", zap.String("version", version), zap.Error(err))
			}
		})
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)
	authService := service.NewAuthService(cfg.Admin, jwtManager, appLogger)

	queryHandler := handlers.NewQueryHandler(insights, appLogger)
	knowledgeHandler := handlers.NewKnowledgeHandler(insights, appLogger)
	authHandler := handlers.NewAuthHandler(authService, appLogger)

	app := api.SetupRouter(&cfg.Server, queryHandler, knowledgeHandler, authHandler, jwtManager, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	cancel()
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}

func loadKnowledgeBase(cfg config.KnowledgeConfig) (*models.KnowledgeBase, string, error) {
	if cfg.SnapshotPath != "" {
		kb, err := knowledge.LoadFile(cfg.SnapshotPath)
		if err != nil {
			return nil, "", err
		}
		return kb, cfg.SnapshotPath, nil
	}
	kb, err := knowledge.Embedded()
	if err != nil {
		return nil, "", err
	}
	return kb, cfg.SourceName, nil
}
