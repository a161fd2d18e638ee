package metrics

import (
	"sort"

	"github.com/shopspring/decimal"
)

// MonteCarloSummary is the aggregation described in §4.6.2.
type MonteCarloSummary struct {
	Mean, Median, StdDev float64
	P5, P25, P75, P95    float64
	BankruptcyProb       float64
	TargetAchievementProb float64
}

// SummarizeFinalFunds aggregates a Monte Carlo trial set's final funds.
// target is the configured achievement target (0 disables that stat).
func SummarizeFinalFunds(finalFunds []decimal.Decimal, initialFund, target decimal.Decimal) MonteCarloSummary {
	if len(finalFunds) == 0 {
		return MonteCarloSummary{}
	}

	floats := make([]float64, len(finalFunds))
	for i, f := range finalFunds {
		floats[i], _ = f.Float64()
	}
	sorted := append([]float64(nil), floats...)
	sort.Float64s(sorted)

	bankruptcyLine := initialFund.Mul(decimal.NewFromFloat(0.10))

	bankrupt := 0
	achieved := 0
	for _, f := range finalFunds {
		if f.LessThan(bankruptcyLine) {
			bankrupt++
		}
		if target.IsPositive() && f.GreaterThanOrEqual(target) {
			achieved++
		}
	}

	n := float64(len(finalFunds))
	summary := MonteCarloSummary{
		Mean:           mean(floats),
		Median:         percentile(sorted, 0.5),
		StdDev:         stddev(floats),
		P5:             percentile(sorted, 0.05),
		P25:            percentile(sorted, 0.25),
		P75:            percentile(sorted, 0.75),
		P95:            percentile(sorted, 0.95),
		BankruptcyProb: float64(bankrupt) / n,
	}
	if target.IsPositive() {
		summary.TargetAchievementProb = float64(achieved) / n
	}
	return summary
}
