// Package metrics derives the risk/return summary (§4.6) from a
// simulation's fund history and bet history.
package metrics

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hkondo/keibasim/internal/domain"
)

// Compute derives SimulationMetrics from fundHistory (initial fund
// prepended) and betHistory. years is the elapsed time span of the
// replay, used by CAGR; it is supplied by the caller because the metrics
// package has no notion of calendar time.
func Compute(fundHistory []decimal.Decimal, betHistory []domain.BetRecord, years float64) domain.SimulationMetrics {
	m := domain.SimulationMetrics{TotalBets: len(betHistory)}

	var invested, payout decimal.Decimal
	hits := 0
	for _, b := range betHistory {
		invested = invested.Add(b.Ticket.Amount)
		payout = payout.Add(b.Payout)
		if b.IsHit {
			hits++
		}
		if b.Ticket.ApproxOdds {
			m.UsedPlaceOddsApprox = true
		}
	}
	m.TotalInvested = invested
	m.TotalPayout = payout

	m.ROI = roi(invested, payout)
	m.CAGR = cagr(fundHistory, years)

	m.MaxDrawdownPct, m.MaxDrawdownDuration = maxDrawdown(fundHistory)

	returns := perBetReturns(betHistory)
	m.Sharpe = sharpe(returns)
	m.Sortino = sortino(returns)
	m.VaR, m.CVaR = valueAtRisk(returns, 0.95)

	if len(betHistory) > 0 {
		m.HitRate = 100 * float64(hits) / float64(len(betHistory))
	}
	m.MaxConsecutiveLosses = maxConsecutiveLosses(betHistory)
	m.RecoveryRate = m.ROI

	return m
}

func roi(invested, payout decimal.Decimal) float64 {
	if invested.IsZero() {
		return 0
	}
	f, _ := payout.Div(invested).Mul(decimal.NewFromInt(100)).Float64()
	return f
}

func cagr(fundHistory []decimal.Decimal, years float64) float64 {
	if len(fundHistory) < 2 || years <= 0 {
		return 0
	}
	initial, _ := fundHistory[0].Float64()
	final, _ := fundHistory[len(fundHistory)-1].Float64()
	if initial <= 0 || final <= 0 {
		return 0
	}
	return math.Pow(final/initial, 1/years) - 1
}

// maxDrawdown scans fundHistory maintaining a running peak; returns the
// maximum drawdown percentage and the index distance from the peak that
// produced it.
func maxDrawdown(fundHistory []decimal.Decimal) (pct float64, duration int) {
	if len(fundHistory) == 0 {
		return 0, 0
	}
	peak, _ := fundHistory[0].Float64()
	peakIdx := 0
	maxDD := 0.0
	maxDur := 0
	for i, f := range fundHistory {
		val, _ := f.Float64()
		if val > peak {
			peak = val
			peakIdx = i
		}
		if peak <= 0 {
			continue
		}
		dd := (peak - val) / peak * 100
		if dd > maxDD {
			maxDD = dd
			maxDur = i - peakIdx
		}
	}
	return maxDD, maxDur
}

func perBetReturns(betHistory []domain.BetRecord) []float64 {
	returns := make([]float64, 0, len(betHistory))
	for _, b := range betHistory {
		returns = append(returns, b.Return())
	}
	return returns
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mu := mean(xs)
	var sumSq float64
	for _, x := range xs {
		d := x - mu
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)-1))
}

func sharpe(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	sd := stddev(returns)
	if sd == 0 {
		return 0
	}
	return mean(returns) / sd
}

func sortino(returns []float64) float64 {
	var negatives []float64
	for _, r := range returns {
		if r < 0 {
			negatives = append(negatives, r)
		}
	}
	if len(negatives) == 0 {
		return domain.SortinoInfinite
	}
	downside := stddev(negatives)
	if downside == 0 {
		return domain.SortinoInfinite
	}
	return mean(returns) / downside
}

// valueAtRisk returns VaR(alpha) as the (1-alpha)-percentile of returns
// (a negative number for losses) and CVaR(alpha) as the mean of returns at
// or below VaR.
func valueAtRisk(returns []float64, alpha float64) (vaR, cVaR float64) {
	if len(returns) == 0 {
		return 0, 0
	}
	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)

	vaR = percentile(sorted, 1-alpha)

	var tail []float64
	for _, r := range sorted {
		if r <= vaR {
			tail = append(tail, r)
		}
	}
	if len(tail) == 0 {
		tail = sorted[:1]
	}
	return vaR, mean(tail)
}

// percentile assumes xs is already sorted ascending; p in [0, 1].
func percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	if p <= 0 {
		return xs[0]
	}
	if p >= 1 {
		return xs[len(xs)-1]
	}
	idx := p * float64(len(xs)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return xs[lo]
	}
	frac := idx - float64(lo)
	return xs[lo]*(1-frac) + xs[hi]*frac
}

func maxConsecutiveLosses(betHistory []domain.BetRecord) int {
	best, current := 0, 0
	for _, b := range betHistory {
		if b.IsHit {
			current = 0
			continue
		}
		current++
		if current > best {
			best = current
		}
	}
	return best
}
