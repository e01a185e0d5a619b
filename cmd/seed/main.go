package main

import (
	"context"
	"log"
	"os"
	"time"

	"insightx/internal/knowledge"
	"insightx/internal/loader"
	"insightx/internal/models"
	"insightx/internal/repository"
	"insightx/pkg/config"
	"insightx/pkg/logger"
	"insightx/pkg/postgres"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultCSV = "data/upi_transactions_2024.csv"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	csvPath := defaultCSV
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	appLogger.Info("Starting database seeding...", zap.String("csv", csvPath))

	set, err := loader.LoadFile(csvPath)
	if err != nil {
		appLogger.Fatal("Failed to parse CSV", zap.Error(err))
	}
	if set.Rejected > 0 {
		appLogger.Warn("Rows rejected", zap.Int("count", set.Rejected))
	}

	txRepo := repository.NewTransactionRepository(db, appLogger)
	if err := txRepo.CreateBatch(ctx, set.Records); err != nil {
		appLogger.Fatal("Failed to store transactions", zap.Error(err))
	}

	// Record a snapshot so the service restores it on its next start.
	kb, err := knowledge.Build(set)
	if err != nil {
		appLogger.Fatal("Failed to build knowledge base", zap.Error(err))
	}
	doc, err := knowledge.Encode(kb)
	if err != nil {
		appLogger.Fatal("Failed to encode knowledge base", zap.Error(err))
	}

	knowledgeRepo := repository.NewKnowledgeRepository(db, appLogger)
	rec := &models.SnapshotRecord{
		Version:  uuid.New(),
		Source:   set.Name,
		Rows:     kb.TotalTransactions,
		Document: doc,
		BuiltAt:  time.Now().UTC(),
	}
	if err := knowledgeRepo.Save(ctx, rec); err != nil {
		appLogger.Fatal("Failed to save snapshot", zap.Error(err))
	}

	appLogger.Info("Database seeding completed successfully!",
		zap.Int("transactions", len(set.Records)),
		zap.String("snapshot", rec.Version.String()),
	)
}
