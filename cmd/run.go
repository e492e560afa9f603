package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sprachtest/internal/app"
	"sprachtest/internal/audio"
	"sprachtest/internal/examgen"
	"sprachtest/internal/llm"
	"sprachtest/internal/report"
	"sprachtest/internal/session"
	"sprachtest/internal/store"
)

var examCmd = &cobra.Command{
	Use:   "exam",
	Short: "Take a mock exam (same as running sprachtest with no arguments)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func init() {
	rootCmd.AddCommand(examCmd)
}

// runApp wires the full dependency graph and starts the TUI. A missing
// or invalid provider configuration still opens the app so the home
// screen can show setup instructions instead of failing at the shell.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolving database path: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer st.Close()

	opts := app.Options{}

	provider, cfg, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
	if err != nil {
		fmt.Fprintf(os.Stderr, "LLM provider not configured: %v\n", err)
		fmt.Fprintln(os.Stderr, "Set SPRACHTEST_GEMINI_API_KEY (or another provider key) and try again.")
	} else {
		gen := examgen.New(provider, examgen.DefaultConfig())
		reporter := report.NewWebhookReporter(os.Getenv("SPRACHTEST_RESULTS_URL"))
		ctrl := session.NewController(examgen.NewComposer(gen), reporter)
		// The controller's Warn callback is installed by app.Run before
		// the program starts; soft reporter failures funnel into it.
		reporter.Warn = func(msg string) {
			if ctrl.Warn != nil {
				ctrl.Warn(msg)
			}
		}
		opts.Controller = ctrl

		if synth, err := llm.NewSpeechSynthesizer(ctx, cfg); err == nil {
			opts.Speech = synth
		} else {
			fmt.Fprintf(os.Stderr, "Speech disabled: %v\n", err)
		}
		if imager, err := llm.NewImageGenerator(ctx, cfg); err == nil {
			opts.Images = imager
		} else {
			fmt.Fprintf(os.Stderr, "Images disabled: %v\n", err)
		}
	}

	if player, err := audio.NewPlayer(); err == nil {
		opts.Player = player
	} else {
		fmt.Fprintf(os.Stderr, "Audio playback disabled: %v\n", err)
	}

	return app.Run(opts)
}
