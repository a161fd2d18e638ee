package metrics_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/hkondo/keibasim/internal/domain"
	"github.com/hkondo/keibasim/internal/metrics"
)

func betRecord(before, payout, after int64, hit bool) domain.BetRecord {
	t := domain.NewTicket(domain.KindWin, []int{1}, 4.0, "favorite_win", 0.5)
	t.Amount = decimal.NewFromInt(before - after + payout)
	return domain.BetRecord{
		Ticket:     t,
		IsHit:      hit,
		Payout:     decimal.NewFromInt(payout),
		FundBefore: decimal.NewFromInt(before),
		FundAfter:  decimal.NewFromInt(after),
	}
}

func TestCompute_S1HitScenario(t *testing.T) {
	history := []decimal.Decimal{decimal.NewFromInt(100000), decimal.NewFromInt(103000)}
	bets := []domain.BetRecord{betRecord(100000, 4000, 103000, true)}

	m := metrics.Compute(history, bets, 1.0)
	assert.InDelta(t, 400.0, m.ROI, 1e-9)
	assert.Equal(t, 100.0, m.HitRate)
}

func TestCompute_S2MissScenario(t *testing.T) {
	history := []decimal.Decimal{decimal.NewFromInt(100000), decimal.NewFromInt(99000)}
	bets := []domain.BetRecord{betRecord(100000, 0, 99000, false)}

	m := metrics.Compute(history, bets, 1.0)
	assert.InDelta(t, 0.0, m.ROI, 1e-9)
	assert.Equal(t, 0.0, m.HitRate)
}

func TestCompute_EmptyHistoryYieldsZeroMetrics(t *testing.T) {
	m := metrics.Compute(nil, nil, 0)
	assert.Equal(t, 0.0, m.ROI)
	assert.Equal(t, 0.0, m.CAGR)
	assert.Equal(t, 0, m.TotalBets)
}

func TestCompute_MonotonicUpHistoryHasZeroDrawdown(t *testing.T) {
	history := []decimal.Decimal{
		decimal.NewFromInt(100000), decimal.NewFromInt(101000), decimal.NewFromInt(102000),
	}
	m := metrics.Compute(history, nil, 1.0)
	assert.Equal(t, 0.0, m.MaxDrawdownPct)
}

func TestCompute_SortinoInfiniteWhenNoNegativeReturns(t *testing.T) {
	bets := []domain.BetRecord{
		betRecord(100000, 4000, 103000, true),
		betRecord(103000, 4000, 106000, true),
	}
	m := metrics.Compute([]decimal.Decimal{decimal.NewFromInt(100000), decimal.NewFromInt(103000), decimal.NewFromInt(106000)}, bets, 1.0)
	assert.Equal(t, domain.SortinoInfinite, m.Sortino)
}

func TestCompute_MaxConsecutiveLosses(t *testing.T) {
	bets := []domain.BetRecord{
		betRecord(1000, 0, 900, false),
		betRecord(900, 0, 800, false),
		betRecord(800, 500, 1300, true),
		betRecord(1300, 0, 1200, false),
	}
	m := metrics.Compute(nil, bets, 1.0)
	assert.Equal(t, 2, m.MaxConsecutiveLosses)
}

func TestJudgeGoNoGo_NoGoOverridesGo(t *testing.T) {
	m := domain.SimulationMetrics{ROI: 200, MaxDrawdownPct: 10, MaxConsecutiveLosses: 35}
	decision := metrics.JudgeGoNoGo(m, 0.01)
	assert.False(t, decision.Go)
	assert.NotEmpty(t, decision.ReasonsAgainst)
}

func TestJudgeGoNoGo_GoWhenAllConditionsHold(t *testing.T) {
	m := domain.SimulationMetrics{ROI: 160, MaxDrawdownPct: 20, MaxConsecutiveLosses: 5}
	decision := metrics.JudgeGoNoGo(m, 0.02)
	assert.True(t, decision.Go)
}

func TestSummarizeFinalFunds_BankruptcyProbability(t *testing.T) {
	funds := []decimal.Decimal{
		decimal.NewFromInt(5000), decimal.NewFromInt(200000), decimal.NewFromInt(150000), decimal.NewFromInt(300000),
	}
	summary := metrics.SummarizeFinalFunds(funds, decimal.NewFromInt(100000), decimal.Zero)
	assert.InDelta(t, 0.25, summary.BankruptcyProb, 1e-9)
}
