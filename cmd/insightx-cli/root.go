package main

import (
	"insightx/internal/knowledge"
	"insightx/internal/models"
	"insightx/internal/service"
	"insightx/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	snapshotFlag string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "insightx-cli",
	Short: "InsightX - UPI transaction analytics from the command line",
	Long: `insightx-cli answers natural-language questions about UPI transactions
from a precomputed knowledge base, and builds or exports knowledge base snapshots.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Init(logLevelFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&snapshotFlag, "snapshot", "",
		"Knowledge base snapshot file (default: embedded snapshot)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "warn",
		"Log level: debug, info, warn, error")
}

// loadKnowledgeBase reads --snapshot, or the embedded snapshot when unset.
func loadKnowledgeBase() (*models.KnowledgeBase, string, error) {
	if snapshotFlag != "" {
		kb, err := knowledge.LoadFile(snapshotFlag)
		return kb, snapshotFlag, err
	}
	kb, err := knowledge.Embedded()
	return kb, knowledge.EmbeddedSource, err
}

func newInsightService() (*service.InsightService, error) {
	kb, source, err := loadKnowledgeBase()
	if err != nil {
		return nil, err
	}
	log := logger.Get()
	log.Debug("Knowledge base loaded", zap.String("source", source))
	store := knowledge.NewStore(kb, source, log)
	return service.NewInsightService(store, nil, nil, nil, log), nil
}
