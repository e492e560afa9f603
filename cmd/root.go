package cmd

import (
	"github.com/spf13/cobra"

	"sprachtest/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "sprachtest",
	Short: "German A1 mock exam in the terminal",
	Long:  "Sprachtest — a timed German A1 placement test whose questions, audio and images are generated on demand.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SPRACHTEST_DB env var)")

	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then SPRACHTEST_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
