package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hkondo/keibasim/internal/config"
	"github.com/hkondo/keibasim/internal/dataset"
	"github.com/hkondo/keibasim/internal/report"
	"github.com/hkondo/keibasim/internal/simulation"
	"github.com/hkondo/keibasim/internal/storage"
)

var flagStorageDSN string

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a simulation (simple, monte_carlo, or walk_forward per config)",
		RunE:  runRun,
	}
	cmd.Flags().StringVar(&flagStorageDSN, "db", "keibasim.db", "run-history database path")
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	races, dsReport, err := dataset.New().Load(ctx, flagDataset)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	slog.Info("dataset loaded", "races", dsReport.RacesBuilt, "rejected_races", dsReport.RacesRejected,
		"rows", dsReport.RowsRead, "rejected_rows", dsReport.RowsRejected)

	d, err := buildDriver(cfg)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	sorted := simulation.SortChronological(races)
	seed := resolveSeed(cfg)

	writer := report.NewConsole()

	store, err := storage.Open(flagStorageDSN)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	defer store.Close()

	switch cfg.Simulation.Type {
	case config.SimulationMonteCarlo:
		mcCfg := simulation.MonteCarloConfig{
			NumTrials: cfg.MonteCarlo.NumTrials,
			Method:    simulation.MonteCarloMethod(cfg.MonteCarlo.Method),
			Seed:      seed,
		}
		result, err := simulation.RunMonteCarlo(ctx, d, sorted, mcCfg)
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		if err := writer.PrintMonteCarlo(result); err != nil {
			return fmt.Errorf("run: %w", err)
		}
		return saveRun(ctx, store, cfg, seed, &result, nil)

	case config.SimulationWalkForward:
		wfCfg := simulation.WalkForwardConfig{
			TrainPeriodDays: cfg.WalkForward.TrainPeriodDays,
			TestPeriodDays:  cfg.WalkForward.TestPeriodDays,
			StepDays:        cfg.WalkForward.StepDays,
		}
		windows, err := simulation.RunWalkForward(ctx, d, sorted, wfCfg)
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		for i, w := range windows {
			slog.Info("walk-forward window", "index", i, "from", w.TestFrom, "to", w.TestTo)
			if err := writer.PrintResult(w.Result, cfg.Strategy.Name); err != nil {
				return fmt.Errorf("run: %w", err)
			}
		}
		if len(windows) > 0 {
			return saveRun(ctx, store, cfg, seed, nil, &windows[len(windows)-1].Result)
		}
		return nil

	default:
		result, err := d.Run(ctx, sorted)
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		if err := writer.PrintResult(result, cfg.Strategy.Name); err != nil {
			return fmt.Errorf("run: %w", err)
		}
		outDir := resolveOutputDir(cfg)
		if outDir != "" {
			if err := writer.WriteFiles(outDir, result, configSnapshot(cfg)); err != nil {
				return fmt.Errorf("run: %w", err)
			}
		}
		return saveRun(ctx, store, cfg, seed, nil, &result)
	}
}
