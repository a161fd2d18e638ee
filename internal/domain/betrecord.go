package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BetRecord is append-only: one per placed ticket. FundAfter must equal
// FundBefore - Ticket.Amount + Payout within a 1-yen tolerance (see
// TestableProperties #2, enforced exactly since Amount/Payout/Fund are
// decimal.Decimal).
type BetRecord struct {
	RaceID      string
	RaceDate    time.Time
	Ticket      Ticket
	IsHit       bool
	Payout      decimal.Decimal
	FundBefore  decimal.Decimal
	FundAfter   decimal.Decimal
}

// Return is the per-bet fractional return used by Sharpe/Sortino/VaR:
// (fund_after - fund_before) / fund_before.
func (b BetRecord) Return() float64 {
	before, _ := b.FundBefore.Float64()
	after, _ := b.FundAfter.Float64()
	if before == 0 {
		return 0
	}
	return (after - before) / before
}
