package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the knowledge base snapshot as JSON",
	Long: `Serialize the active knowledge base (embedded, or --snapshot) as JSON.

Examples:
  insightx-cli export > knowledge_base.json
  insightx-cli export --out knowledge_base.json`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	insights, err := newInsightService()
	if err != nil {
		return err
	}
	doc, err := insights.ExportSnapshot(context.Background())
	if err != nil {
		return err
	}

	if exportOut == "" {
		_, err = os.Stdout.Write(doc)
		return err
	}
	if err := os.WriteFile(exportOut, doc, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
