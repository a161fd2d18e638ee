// Command keibasim backtests horse-race wagering strategies against a
// historical dataset: single-pass replay, Monte Carlo, and walk-forward
// modes, with run-history persistence and a Go/No-Go verdict.
package main

import (
	"log/slog"
	"os"

	"github.com/hkondo/keibasim/cmd/keibasim/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		slog.Error("keibasim exited with error", "err", err)
		os.Exit(1)
	}
}
