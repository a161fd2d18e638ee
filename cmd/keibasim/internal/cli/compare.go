package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hkondo/keibasim/internal/config"
	"github.com/hkondo/keibasim/internal/dataset"
	"github.com/hkondo/keibasim/internal/domain"
	"github.com/hkondo/keibasim/internal/report"
	"github.com/hkondo/keibasim/internal/simulation"
	"github.com/hkondo/keibasim/internal/storage"
)

var (
	flagCompareConfigs []string
	flagWithMC         bool
)

// newCompareCmd either loads N prior runs from history, or (when
// --configs is given) runs N strategies against the same dataset in one
// invocation and prints a side-by-side table. Monte Carlo is not
// re-executed unless --with-monte-carlo is set, to keep cost bounded.
func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare strategies across runs, or replay several configs against one dataset",
		RunE:  runCompare,
	}
	cmd.Flags().StringVar(&flagStorageDSN, "db", "keibasim.db", "run-history database path")
	cmd.Flags().StringSliceVar(&flagCompareConfigs, "configs", nil, "additional config files to run and compare in this invocation")
	cmd.Flags().BoolVar(&flagWithMC, "with-monte-carlo", false, "also run Monte Carlo for each config (expensive)")
	cmd.Flags().Int("limit", 20, "number of history rows to show when --configs is not given")
	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, err := storage.Open(flagStorageDSN)
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}
	defer store.Close()

	writer := report.NewConsole()

	if len(flagCompareConfigs) == 0 {
		limit, _ := cmd.Flags().GetInt("limit")
		records, err := store.History(ctx, limit)
		if err != nil {
			return fmt.Errorf("compare: %w", err)
		}
		return writer.PrintCompare(records)
	}

	races, _, err := dataset.New().Load(ctx, flagDataset)
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}
	sorted := simulation.SortChronological(races)

	for _, path := range flagCompareConfigs {
		if err := runOneCompareEntry(ctx, store, writer, path, sorted); err != nil {
			return err
		}
	}

	records, err := store.History(ctx, len(flagCompareConfigs))
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}
	return writer.PrintCompare(records)
}

func runOneCompareEntry(ctx context.Context, store *storage.SQLiteStorage, writer *report.Console, path string, races []domain.Race) error {
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("compare: %s: %w", path, err)
	}

	d, err := buildDriver(cfg)
	if err != nil {
		return fmt.Errorf("compare: %s: %w", path, err)
	}

	result, err := d.Run(ctx, races)
	if err != nil {
		return fmt.Errorf("compare: %s: %w", path, err)
	}

	seed := resolveSeed(cfg)
	if err := saveRun(ctx, store, cfg, seed, nil, &result); err != nil {
		return fmt.Errorf("compare: %s: %w", path, err)
	}

	if flagWithMC {
		mcCfg := simulation.MonteCarloConfig{
			NumTrials: cfg.MonteCarlo.NumTrials,
			Method:    simulation.MonteCarloMethod(cfg.MonteCarlo.Method),
			Seed:      seed,
		}
		mc, err := simulation.RunMonteCarlo(ctx, d, races, mcCfg)
		if err != nil {
			return fmt.Errorf("compare: %s: monte carlo: %w", path, err)
		}
		if err := writer.PrintMonteCarlo(mc); err != nil {
			return fmt.Errorf("compare: %s: %w", path, err)
		}
	}
	return nil
}
