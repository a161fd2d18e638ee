package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hkondo/keibasim/internal/config"
	"github.com/hkondo/keibasim/internal/domain"
	"github.com/hkondo/keibasim/internal/ports"
)

// saveRun persists one run's config snapshot, seed, and final metrics.
// Exactly one of mc/result should carry the metrics to persist.
func saveRun(ctx context.Context, store ports.Storage, cfg config.Config, seed int64, mc *domain.MonteCarloResult, result *domain.SimulationResult) error {
	snapshot, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cli.saveRun: marshal config: %w", err)
	}

	rec := ports.RunRecord{
		StrategyName:   strategyLabel(cfg),
		BankrollMethod: cfg.FundManagement.Method,
		Seed:           seed,
		ConfigSnapshot: string(snapshot),
		MonteCarlo:     mc,
	}
	if result != nil {
		rec.Metrics = result.Metrics
	}

	if err := store.SaveRun(ctx, rec); err != nil {
		return fmt.Errorf("cli.saveRun: %w", err)
	}
	return nil
}

func configSnapshot(cfg config.Config) string {
	b, err := json.Marshal(cfg)
	if err != nil {
		return ""
	}
	return string(b)
}

func strategyLabel(cfg config.Config) string {
	if cfg.CompositeStrategy.Enabled {
		return "composite"
	}
	return cfg.Strategy.Name
}
