package bankroll

import (
	"github.com/shopspring/decimal"

	"github.com/hkondo/keibasim/internal/domain"
)

// kelly implements fractional Kelly sizing (§4.4): derive an implied win
// probability from the ticket's expected_value and odds, compute the full
// Kelly fraction, and scale it by the configured fractional multiplier
// (conventionally 0.25-0.5, see GLOSSARY).
type kelly struct {
	fraction float64 // the configured scaling factor, e.g. 0.25
}

func newKelly(params map[string]any) (Method, error) {
	f, _ := params["kelly_fraction"].(float64)
	if f <= 0 {
		f = 0.25
	}
	return kelly{fraction: f}, nil
}

func (k kelly) Name() string { return "kelly" }

func (k kelly) Stake(ticket domain.Ticket, fund decimal.Decimal) decimal.Decimal {
	if ticket.Odds <= 0 {
		return decimal.Zero
	}
	p := ticket.ExpectedValue / ticket.Odds
	if p < 0.01 {
		p = 0.01
	}
	if p > 0.99 {
		p = 0.99
	}
	b := ticket.Odds - 1
	if b <= 0 {
		return decimal.Zero
	}
	rawFraction := (p*b - (1 - p)) / b
	if rawFraction <= 0 {
		return decimal.Zero
	}
	return fund.Mul(decimal.NewFromFloat(k.fraction * rawFraction))
}
