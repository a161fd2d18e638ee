// Package bankroll implements the three stake-sizing methods (fixed,
// percentage, Kelly) and the shared clamp pipeline they all pass through
// (§4.4).
package bankroll

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hkondo/keibasim/internal/domain"
)

// Constraints are the global sizing limits, read-only for the lifetime of
// a run.
type Constraints struct {
	MinBet           decimal.Decimal
	MaxBetPerTicket  decimal.Decimal
	MaxBetPerRace    decimal.Decimal
	MaxBetPerDay     decimal.Decimal
	StopLossThreshold float64 // fraction of initial_fund
}

// Budgets are the running per-race and per-day totals, owned and reset by
// the simulation driver at the appropriate boundary.
type Budgets struct {
	SpentThisRace decimal.Decimal
	SpentToday    decimal.Decimal
}

// Method sizes one candidate ticket given the current fund. It is
// stateless except for the fund value passed at each call.
type Method interface {
	Name() string
	Stake(ticket domain.Ticket, fund decimal.Decimal) decimal.Decimal
}

// Factory builds a Method from its decoded parameters.
type Factory func(params map[string]any) (Method, error)

// Registry maps bankroll method names to factories.
type Registry map[string]Factory

// NewRegistry returns the registry populated with fixed, percentage, and
// kelly.
func NewRegistry() Registry {
	return Registry{
		"fixed":      newFixed,
		"percentage": newPercentage,
		"kelly":      newKelly,
	}
}

func (r Registry) Get(name string, params map[string]any) (Method, error) {
	f, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("bankroll.Get: %s: %w", name, domain.ErrBankrollUnknown)
	}
	m, err := f(params)
	if err != nil {
		return nil, fmt.Errorf("bankroll.Get: %s: %w", name, err)
	}
	return m, nil
}

func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for n := range r {
		names = append(names, n)
	}
	return names
}

// Manager applies a Method's raw stake through the ordered clamp pipeline
// of §4.4: weight/tier scaling, floor to 100 yen, per-ticket clamp,
// per-race/per-day budget clamp, fund clamp, and the min_bet floor.
type Manager struct {
	method      Method
	constraints Constraints
}

// New builds a Manager for the given method and constraints.
func New(method Method, constraints Constraints) *Manager {
	return &Manager{method: method, constraints: constraints}
}

// Size computes the final stake for a ticket, or zero to mean "skip".
func (m *Manager) Size(ticket domain.Ticket, fund decimal.Decimal, tierMultiplier, compositeWeight float64, budgets Budgets) decimal.Decimal {
	raw := m.method.Stake(ticket, fund)

	scale := decimal.NewFromFloat(compositeWeight * tierMultiplier)
	stake := raw.Mul(scale)

	stake = domain.FloorTo100(stake)

	if m.constraints.MaxBetPerTicket.IsPositive() && stake.GreaterThan(m.constraints.MaxBetPerTicket) {
		stake = m.constraints.MaxBetPerTicket
	}
	if stake.IsNegative() {
		stake = decimal.Zero
	}

	if m.constraints.MaxBetPerRace.IsPositive() {
		remaining := m.constraints.MaxBetPerRace.Sub(budgets.SpentThisRace)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		if stake.GreaterThan(remaining) {
			stake = remaining
		}
	}
	if m.constraints.MaxBetPerDay.IsPositive() {
		remaining := m.constraints.MaxBetPerDay.Sub(budgets.SpentToday)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		if stake.GreaterThan(remaining) {
			stake = remaining
		}
	}

	if stake.GreaterThan(fund) {
		stake = fund
	}

	stake = domain.FloorTo100(stake)

	if stake.LessThan(m.constraints.MinBet) {
		return decimal.Zero
	}
	return stake
}

// StopLossTriggered reports whether fund has fallen to or below the
// configured stop-loss fraction of initialFund (§4.4, a driver-level
// check, not part of Size).
func (c Constraints) StopLossTriggered(fund, initialFund decimal.Decimal) bool {
	if c.StopLossThreshold <= 0 {
		return false
	}
	threshold := initialFund.Mul(decimal.NewFromFloat(c.StopLossThreshold))
	return fund.LessThanOrEqual(threshold)
}
