// Package cli wires the cobra command tree (§6.4): run, validate,
// compare, list. Logging setup mirrors the teacher's cmd/scanner/main.go
// setupLogger, kept as a standalone function rather than folded into
// internal/config since it is a process concern, not a run parameter.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagDataset string
	flagSeed    int64
	flagOut     string
	flagVerbose bool
	flagFormat  string
)

// Execute builds and runs the root command.
func Execute() error {
	root := &cobra.Command{
		Use:           "keibasim",
		Short:         "Backtest horse-race wagering strategies against a historical dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger(flagVerbose, flagFormat)
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "config.yaml", "path to config file")
	root.PersistentFlags().StringVar(&flagDataset, "dataset", "", "path to the TSV race dataset")
	root.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "override simulation.random_seed (0 = use config)")
	root.PersistentFlags().StringVar(&flagOut, "out", "", "override output.directory")
	root.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "set log level to debug")
	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "log format: text|json")

	root.AddCommand(newRunCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newCompareCmd())
	root.AddCommand(newListCmd())

	return root.Execute()
}

func setupLogger(verbose bool, format string) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
