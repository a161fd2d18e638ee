// Package simulation implements the simulation driver (§4.5): the
// single-pass chronological replay, the Monte Carlo bootstrap/probability
// drivers, and walk-forward windowing.
package simulation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hkondo/keibasim/internal/bankroll"
	"github.com/hkondo/keibasim/internal/domain"
	"github.com/hkondo/keibasim/internal/filter"
	"github.com/hkondo/keibasim/internal/metrics"
	"github.com/hkondo/keibasim/internal/strategy"
)

// Driver owns the components a single-pass replay wires together. It
// holds no per-run state; Run constructs fresh fund/history state on each
// call so the same Driver can replay multiple race lists (e.g. Monte
// Carlo resamples) concurrently.
type Driver struct {
	Filter    *filter.Filter
	Strategy  strategy.Strategy
	Bankroll  *bankroll.Manager
	Evaluator Evaluator

	InitialFund       decimal.Decimal
	StopLossThreshold float64 // fraction of InitialFund; 0 disables
	MinBet            decimal.Decimal
}

// Run executes one chronological replay over races (already sorted by the
// caller's choice of order — bootstrap resamples are deliberately not
// re-sorted, since resampling breaks chronological order by design; see
// §4.5.2). ctx is checked for cancellation between races, never inside the
// ticket loop.
func (d *Driver) Run(ctx context.Context, races []domain.Race) (domain.SimulationResult, error) {
	result := domain.SimulationResult{
		FundHistory: []decimal.Decimal{d.InitialFund},
	}
	fund := d.InitialFund

	var raceBudget, dayBudget bankroll.Budgets
	var currentDay time.Time

	for _, race := range races {
		select {
		case <-ctx.Done():
			result.Cancelled = true
			result.Metrics = metrics.Compute(result.FundHistory, result.BetHistory, years(races))
			return result, nil
		default:
		}

		decision := d.Filter.Evaluate(race)
		if !decision.Accept {
			continue
		}

		day := race.Date()
		if !sameDay(day, currentDay) {
			currentDay = day
			dayBudget = bankroll.Budgets{}
		}
		raceBudget = bankroll.Budgets{}

		tickets := d.Strategy.GenerateTickets(race)
		stop := false
		for _, ticket := range tickets {
			stake := d.Bankroll.Size(ticket, fund, decision.TierMultiplier, weightOrOne(ticket.Weight), bankroll.Budgets{
				SpentThisRace: raceBudget.SpentThisRace,
				SpentToday:    dayBudget.SpentToday,
			})
			if stake.IsZero() {
				continue
			}

			fundBefore := fund
			fund = fund.Sub(stake)
			raceBudget.SpentThisRace = raceBudget.SpentThisRace.Add(stake)
			dayBudget.SpentToday = dayBudget.SpentToday.Add(stake)

			ticket.Amount = stake
			isHit, payout, err := d.Evaluator.Evaluate(ticket, race)
			if err != nil {
				return domain.SimulationResult{}, fmt.Errorf("simulation.Run: %w", err)
			}
			fund = fund.Add(payout)

			result.BetHistory = append(result.BetHistory, domain.BetRecord{
				RaceID:     race.RaceID(),
				RaceDate:   race.Date(),
				Ticket:     ticket,
				IsHit:      isHit,
				Payout:     payout,
				FundBefore: fundBefore,
				FundAfter:  fund,
			})
			result.FundHistory = append(result.FundHistory, fund)

			if fund.LessThan(d.MinBet) || (d.StopLossThreshold > 0 && fund.LessThanOrEqual(d.InitialFund.Mul(decimal.NewFromFloat(d.StopLossThreshold)))) {
				stop = true
				break
			}
		}
		if stop {
			break
		}
	}

	result.Metrics = metrics.Compute(result.FundHistory, result.BetHistory, years(races))
	return result, nil
}

func weightOrOne(w float64) float64 {
	if w == 0 {
		return 1.0
	}
	return w
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// years estimates the calendar span of a sorted race list, used by CAGR.
func years(races []domain.Race) float64 {
	if len(races) == 0 {
		return 0
	}
	first, last := races[0].Date(), races[0].Date()
	for _, r := range races {
		d := r.Date()
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}
	span := last.Sub(first).Hours() / 24
	if span <= 0 {
		return 1.0 / 365.25
	}
	return span / 365.25
}

// SortChronological returns a copy of races ordered ascending by
// (year, kaisai_date, race_number), stably.
func SortChronological(races []domain.Race) []domain.Race {
	out := make([]domain.Race, len(races))
	copy(out, races)
	sort.SliceStable(out, func(i, j int) bool {
		yi, ki, ni := out[i].SortKey()
		yj, kj, nj := out[j].SortKey()
		if yi != yj {
			return yi < yj
		}
		if ki != kj {
			return ki < kj
		}
		return ni < nj
	})
	return out
}
