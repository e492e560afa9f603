package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sprachtest/internal/llm"
	"sprachtest/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE:  runStats,
}

// llm stats is an alias for the top-level stats command.
var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()

	ctx := context.Background()
	byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
	if err != nil {
		return fmt.Errorf("query usage: %w", err)
	}

	if len(byPurpose) == 0 {
		fmt.Println("No LLM usage recorded yet.")
		return nil
	}

	// Usage by purpose.
	fmt.Println("Usage by Purpose")
	fmt.Println(strings.Repeat("─", 78))
	fmt.Printf("%-14s  %6s  %6s  %10s  %10s  %10s  %8s\n",
		"Purpose", "Calls", "Fail", "Input", "Output", "Total", "Avg Ms")
	fmt.Println(strings.Repeat("─", 78))

	var totalCalls, totalFail, totalIn, totalOut int
	for _, row := range byPurpose {
		total := row.InputTokens + row.OutputTokens
		fmt.Printf("%-14s  %6d  %6d  %10d  %10d  %10d  %8d\n",
			row.Key, row.Requests, row.Failures,
			row.InputTokens, row.OutputTokens, total, avgLatency(row))
		totalCalls += row.Requests
		totalFail += row.Failures
		totalIn += row.InputTokens
		totalOut += row.OutputTokens
	}

	fmt.Println(strings.Repeat("─", 78))
	fmt.Printf("%-14s  %6d  %6d  %10d  %10d  %10d\n",
		"TOTAL", totalCalls, totalFail, totalIn, totalOut, totalIn+totalOut)

	// Cost by model.
	byModel, err := s.EventRepo().LLMUsageByModel(ctx)
	if err != nil {
		return fmt.Errorf("query model usage: %w", err)
	}

	if len(byModel) > 0 {
		fmt.Println()
		fmt.Println("Estimated Cost (USD)")
		fmt.Println(strings.Repeat("─", 78))
		fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n",
			"Model", "Calls", "Input", "Output", "Cost")
		fmt.Println(strings.Repeat("─", 78))

		var totalCost float64
		var unknownModels []string
		for _, row := range byModel {
			cost := llm.LookupCost(row.Key)
			if cost == nil {
				unknownModels = append(unknownModels, row.Key)
				fmt.Printf("%-32s  %6d  %10d  %10d  %10s\n",
					truncate(row.Key, 32), row.Requests, row.InputTokens, row.OutputTokens, "?")
				continue
			}
			c := cost.Cost(row.InputTokens, row.OutputTokens)
			totalCost += c
			fmt.Printf("%-32s  %6d  %10d  %10d  %10s\n",
				truncate(row.Key, 32), row.Requests, row.InputTokens, row.OutputTokens, formatCost(c))
		}

		fmt.Println(strings.Repeat("─", 78))
		label := "TOTAL"
		if len(unknownModels) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n",
			label, "", "", "", formatCost(totalCost))

		if len(unknownModels) > 0 {
			fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
		}
	}

	return nil
}

// avgLatency computes the mean latency for a usage row. Failed requests
// are included; they spent real wall time too.
func avgLatency(row store.UsageRow) int64 {
	if row.Requests == 0 {
		return 0
	}
	return row.TotalLatency / int64(row.Requests)
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
