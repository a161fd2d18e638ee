package cli

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hkondo/keibasim/internal/bankroll"
	"github.com/hkondo/keibasim/internal/config"
	"github.com/hkondo/keibasim/internal/filter"
	"github.com/hkondo/keibasim/internal/settlement"
	"github.com/hkondo/keibasim/internal/simulation"
	"github.com/hkondo/keibasim/internal/strategy"
)

// buildStrategy resolves the configured strategy.name/params or, when
// composite_strategy.enabled, builds the weighted Composite instead.
func buildStrategy(cfg config.Config) (strategy.Strategy, error) {
	registry := strategy.NewRegistry()

	if cfg.CompositeStrategy.Enabled {
		subs := make([]strategy.SubStrategy, 0, len(cfg.CompositeStrategy.Strategies))
		for _, entry := range cfg.CompositeStrategy.Strategies {
			s, err := registry.Get(entry.Name, strategy.Params(entry.Params))
			if err != nil {
				return nil, fmt.Errorf("cli.buildStrategy: composite member %s: %w", entry.Name, err)
			}
			subs = append(subs, strategy.SubStrategy{Strategy: s, Weight: entry.Weight})
		}
		return strategy.NewComposite(subs)
	}

	return registry.Get(cfg.Strategy.Name, strategy.Params(cfg.Strategy.Params))
}

func buildBankrollManager(cfg config.Config) (*bankroll.Manager, error) {
	registry := bankroll.NewRegistry()
	method, err := registry.Get(cfg.FundManagement.Method, cfg.FundManagement.Params)
	if err != nil {
		return nil, fmt.Errorf("cli.buildBankrollManager: %w", err)
	}

	c := cfg.FundManagement.Constraints
	constraints := bankroll.Constraints{
		MinBet:            decimal.NewFromFloat(c.MinBet),
		MaxBetPerTicket:   decimal.NewFromFloat(c.MaxBetPerTicket),
		MaxBetPerRace:     decimal.NewFromFloat(c.MaxBetPerRace),
		MaxBetPerDay:      decimal.NewFromFloat(c.MaxBetPerDay),
		StopLossThreshold: c.StopLossThreshold,
	}
	return bankroll.New(method, constraints), nil
}

func buildDriver(cfg config.Config) (*simulation.Driver, error) {
	f, err := filter.New(cfg.RaceFilter.ToFilterConfig())
	if err != nil {
		return nil, fmt.Errorf("cli.buildDriver: %w", err)
	}

	strat, err := buildStrategy(cfg)
	if err != nil {
		return nil, fmt.Errorf("cli.buildDriver: %w", err)
	}

	manager, err := buildBankrollManager(cfg)
	if err != nil {
		return nil, fmt.Errorf("cli.buildDriver: %w", err)
	}

	return &simulation.Driver{
		Filter:            f,
		Strategy:          strat,
		Bankroll:          manager,
		Evaluator:         settlement.New(),
		InitialFund:       decimal.NewFromFloat(cfg.Simulation.InitialFund),
		StopLossThreshold: cfg.FundManagement.Constraints.StopLossThreshold,
		MinBet:            decimal.NewFromFloat(cfg.FundManagement.Constraints.MinBet),
	}, nil
}

func resolveSeed(cfg config.Config) int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return cfg.Simulation.RandomSeed
}

func resolveOutputDir(cfg config.Config) string {
	if flagOut != "" {
		return flagOut
	}
	return cfg.Output.Directory
}

