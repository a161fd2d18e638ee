package bankroll

import (
	"github.com/shopspring/decimal"

	"github.com/hkondo/keibasim/internal/domain"
)

// fixed stakes the same configured amount on every ticket.
type fixed struct {
	betAmount decimal.Decimal
}

func newFixed(params map[string]any) (Method, error) {
	amount, err := toDecimal(params, "bet_amount", decimal.NewFromInt(1000))
	if err != nil {
		return nil, err
	}
	return fixed{betAmount: amount}, nil
}

func (f fixed) Name() string { return "fixed" }

func (f fixed) Stake(_ domain.Ticket, _ decimal.Decimal) decimal.Decimal {
	return f.betAmount
}
