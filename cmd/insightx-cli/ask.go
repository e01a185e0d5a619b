package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"insightx/internal/service"

	"github.com/spf13/cobra"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question about UPI transactions",
	Long: `Answer a natural-language question from the knowledge base.

Examples:
  insightx-cli ask "Which state has the highest fraud rate?"
  insightx-cli ask "Compare Android vs iOS" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Print the full response as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	insights, err := newInsightService()
	if err != nil {
		return err
	}

	result, err := insights.Ask(strings.Join(args, " "))
	if err != nil {
		return err
	}

	if askJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printResult(result)
	return nil
}

func printResult(result *service.QueryResult) {
	resp := result.Response
	fmt.Printf("[%s] %s\n", resp.Intent, resp.Answer)
	if len(resp.Stats) > 0 {
		fmt.Println()
		width := 0
		for _, st := range resp.Stats {
			width = max(width, len(st.Key))
		}
		for _, st := range resp.Stats {
			fmt.Printf("  %-*s  %s\n", width, st.Key, st.Value)
		}
	}
	if resp.Pattern != "" {
		fmt.Printf("\nPattern: %s\n", resp.Pattern)
	}
	if resp.Recommendation != "" {
		fmt.Printf("Recommendation: %s\n", resp.Recommendation)
	}
	fmt.Printf("\nConfidence: %d%%", resp.Confidence)
	if resp.ChartType != "" {
		fmt.Printf("  Chart: %s", resp.ChartType)
	}
	fmt.Println()
}
