package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// SortinoInfinite is the serialized marker for a Sortino ratio with no
// negative returns to divide by (see §4.6.1).
const SortinoInfinite = math.MaxFloat64

// SimulationMetrics is the per-run risk/return summary derived from
// fund_history and bet_history.
type SimulationMetrics struct {
	ROI                  float64 // percent
	CAGR                 float64
	MaxDrawdownPct        float64
	MaxDrawdownDuration   int // index distance from the peak
	Sharpe                float64
	Sortino               float64 // SortinoInfinite sentinel when no negative returns
	VaR                   float64
	CVaR                  float64
	HitRate               float64 // percent
	MaxConsecutiveLosses  int
	RecoveryRate          float64 // == ROI, presentation alias
	TotalBets             int
	TotalInvested         decimal.Decimal
	TotalPayout           decimal.Decimal
	UsedPlaceOddsApprox   bool // true if any settled ticket relied on the place-odds fallback
}

// GoNoGo is the downstream predicate over a run's metrics and a Monte Carlo
// summary (see §4.6.3).
type GoNoGo struct {
	Go             bool
	ReasonsFor     []string
	ReasonsAgainst []string
}

// SimulationResult is the product of one single-pass replay (or one
// walk-forward window).
type SimulationResult struct {
	FundHistory []decimal.Decimal // [0] is the initial fund
	BetHistory  []BetRecord
	Metrics     SimulationMetrics
	Cancelled   bool

	// WindowFrom/WindowTo are non-zero only when this result is one window
	// of a walk-forward run.
	WindowFrom int // encoded as r.Date() unix day, 0 when not windowed
	WindowTo   int
}

// MonteCarloResult aggregates N trial replays over resampled or
// probability-substituted race sequences.
type MonteCarloResult struct {
	NumTrials  int
	Seed       int64
	FinalFunds []decimal.Decimal

	Mean                  float64
	Median                float64
	StdDev                float64
	P5, P25, P75, P95     float64
	BankruptcyProb        float64
	TargetAchievementProb float64

	GoNoGo GoNoGo

	// Histories holds the per-trial fund history, populated only when the
	// caller requested it (expensive to retain for large num_trials).
	Histories [][]decimal.Decimal
}
