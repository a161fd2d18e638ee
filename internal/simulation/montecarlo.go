package simulation

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"runtime"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/hkondo/keibasim/internal/domain"
	"github.com/hkondo/keibasim/internal/metrics"
)

// MonteCarloMethod selects how each trial's outcomes are generated.
type MonteCarloMethod string

const (
	MethodBootstrap        MonteCarloMethod = "bootstrap"
	MethodProbabilityBased MonteCarloMethod = "probability_based"
)

// HitProbabilityEstimator is the pluggable predicate the probability-based
// mode substitutes for real settlement (§4.5.2, §9 — the spec fixes only
// the contract, not the formula).
type HitProbabilityEstimator func(ticket domain.Ticket, race domain.Race) float64

// MonteCarloConfig parameterizes the driver.
type MonteCarloConfig struct {
	NumTrials       int
	Method          MonteCarloMethod
	Seed            int64
	Target          decimal.Decimal // 0 disables target-achievement tracking
	KeepHistories   bool
	Estimator       HitProbabilityEstimator // required for MethodProbabilityBased
	MaxWorkers      int                     // 0 means runtime.NumCPU()*2
}

// childSeed derives a deterministic per-trial seed from the master seed,
// so per-trial draws do not depend on worker scheduling (§5, §9).
func childSeed(masterSeed int64, trialIndex int) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d:%d", masterSeed, trialIndex)
	return int64(h.Sum64())
}

// RunMonteCarlo runs cfg.NumTrials independent trials of driver over
// races, in parallel across a bounded worker pool, and aggregates the
// final funds. Reproducibility: identical (races, driver config, seed)
// yields byte-identical per-trial final funds regardless of worker count
// (TestableProperties #6).
func RunMonteCarlo(ctx context.Context, d *Driver, races []domain.Race, cfg MonteCarloConfig) (domain.MonteCarloResult, error) {
	if cfg.Method == MethodProbabilityBased && cfg.Estimator == nil {
		return domain.MonteCarloResult{}, fmt.Errorf("simulation.RunMonteCarlo: probability_based requires an estimator: %w", domain.ErrConfigInvalid)
	}

	workers := cfg.MaxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}
	if workers > cfg.NumTrials {
		workers = cfg.NumTrials
	}
	if workers < 1 {
		workers = 1
	}

	finalFunds := make([]decimal.Decimal, cfg.NumTrials)
	var histories [][]decimal.Decimal
	if cfg.KeepHistories {
		histories = make([][]decimal.Decimal, cfg.NumTrials)
	}

	type trialResult struct {
		index   int
		fund    decimal.Decimal
		history []decimal.Decimal
		err     error
	}

	indexCh := make(chan int)
	resultCh := make(chan trialResult, cfg.NumTrials)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexCh {
				select {
				case <-ctx.Done():
					resultCh <- trialResult{index: idx, err: ctx.Err()}
					continue
				default:
				}
				seed := childSeed(cfg.Seed, idx)
				rng := rand.New(rand.NewSource(seed))

				trialRaces := races
				var trialDriver = *d
				switch cfg.Method {
				case MethodBootstrap:
					trialRaces = bootstrapResample(races, rng)
				case MethodProbabilityBased:
					trialDriver.Evaluator = newSyntheticEvaluator(cfg.Estimator, rng)
				}

				res, err := trialDriver.Run(ctx, trialRaces)
				if err != nil {
					resultCh <- trialResult{index: idx, err: err}
					continue
				}
				final := res.FundHistory[len(res.FundHistory)-1]
				r := trialResult{index: idx, fund: final}
				if cfg.KeepHistories {
					r.history = res.FundHistory
				}
				resultCh <- r
			}
		}()
	}

	go func() {
		defer close(indexCh)
		for i := 0; i < cfg.NumTrials; i++ {
			select {
			case <-ctx.Done():
				return
			case indexCh <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	var firstErr error
	for r := range resultCh {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		finalFunds[r.index] = r.fund
		if cfg.KeepHistories {
			histories[r.index] = r.history
		}
	}
	if firstErr != nil {
		return domain.MonteCarloResult{}, fmt.Errorf("simulation.RunMonteCarlo: %w", firstErr)
	}

	summary := metrics.SummarizeFinalFunds(finalFunds, d.InitialFund, cfg.Target)

	// Go/No-Go (§4.6.3) judges the Monte Carlo bankruptcy probability
	// alongside the strategy's unperturbed, original-order ROI/drawdown/
	// consecutive-losses — the single-pass baseline, not an average across
	// resampled trials.
	baseline, err := d.Run(ctx, races)
	var goNoGo domain.GoNoGo
	if err == nil {
		goNoGo = metrics.JudgeGoNoGo(baseline.Metrics, summary.BankruptcyProb)
	}

	result := domain.MonteCarloResult{
		NumTrials:             cfg.NumTrials,
		Seed:                  cfg.Seed,
		FinalFunds:            finalFunds,
		Mean:                  summary.Mean,
		Median:                summary.Median,
		StdDev:                summary.StdDev,
		P5:                    summary.P5,
		P25:                   summary.P25,
		P75:                   summary.P75,
		P95:                   summary.P95,
		BankruptcyProb:        summary.BankruptcyProb,
		TargetAchievementProb: summary.TargetAchievementProb,
		GoNoGo:                goNoGo,
		Histories:             histories,
	}
	return result, nil
}

// bootstrapResample draws len(races) races with replacement, using rng.
// Resampling breaks chronological order by design (§4.5.2).
func bootstrapResample(races []domain.Race, rng *rand.Rand) []domain.Race {
	out := make([]domain.Race, len(races))
	for i := range out {
		out[i] = races[rng.Intn(len(races))]
	}
	return out
}
