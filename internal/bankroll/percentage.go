package bankroll

import (
	"github.com/shopspring/decimal"

	"github.com/hkondo/keibasim/internal/domain"
)

// percentage stakes a fixed fraction of the current fund on every ticket.
type percentage struct {
	betPercentage float64
}

func newPercentage(params map[string]any) (Method, error) {
	pct, _ := params["bet_percentage"].(float64)
	if pct <= 0 {
		pct = 0.01
	}
	return percentage{betPercentage: pct}, nil
}

func (p percentage) Name() string { return "percentage" }

func (p percentage) Stake(_ domain.Ticket, fund decimal.Decimal) decimal.Decimal {
	return fund.Mul(decimal.NewFromFloat(p.betPercentage))
}
