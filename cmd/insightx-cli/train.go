package main

import (
	"fmt"
	"os"

	"insightx/internal/knowledge"
	"insightx/internal/loader"

	"github.com/spf13/cobra"
)

var (
	trainCSV string
	trainOut string
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Build a knowledge base snapshot from a CSV export",
	Long: `Aggregate a UPI transactions CSV into a knowledge base snapshot.

Dimensions whose column is missing are skipped and reported.

Examples:
  insightx-cli train --csv upi_transactions_2024.csv
  insightx-cli train --csv export.csv --out snapshot.json`,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().StringVar(&trainCSV, "csv", "", "Transactions CSV file")
	trainCmd.Flags().StringVar(&trainOut, "out", "knowledge_base.json", "Output snapshot file")
	_ = trainCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	set, err := loader.LoadFile(trainCSV)
	if err != nil {
		return err
	}

	kb, err := knowledge.Build(set)
	if err != nil {
		return err
	}
	doc, err := knowledge.Encode(kb)
	if err != nil {
		return err
	}
	if err := os.WriteFile(trainOut, doc, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	fmt.Printf("Built %s from %d transactions (%d rows rejected)\n", trainOut, kb.TotalTransactions, set.Rejected)
	for _, skip := range kb.Skipped {
		fmt.Printf("  skipped %s: %s\n", skip.Dimension, skip.Reason)
	}
	return nil
}
