package strategy

import (
	"errors"

	"github.com/hkondo/keibasim/internal/domain"
)

var errWeightSum = errors.New("sub-strategy weights must sum to a positive total")

// SubStrategy pairs a sub-strategy with its composite weight.
type SubStrategy struct {
	Strategy Strategy
	Weight   float64
}

// Composite holds a list of (sub_strategy, weight) pairs with weights
// normalized to sum to 1 (§4.2). Each race's output is the union of all
// sub-strategies' tickets; duplicates (same kind, same canonical numbers)
// keep the first occurrence and sum the weights.
type Composite struct {
	subs []SubStrategy
}

// NewComposite normalizes the given sub-strategy weights and returns a
// Composite. A sub with a non-positive total weight sum is rejected.
func NewComposite(subs []SubStrategy) (*Composite, error) {
	var total float64
	for _, s := range subs {
		total += s.Weight
	}
	if total <= 0 {
		return nil, &domain.StrategyError{Name: "composite", Code: domain.ErrStrategyParamInvalid, Err: errWeightSum}
	}
	normalized := make([]SubStrategy, len(subs))
	for i, s := range subs {
		normalized[i] = SubStrategy{Strategy: s.Strategy, Weight: s.Weight / total}
	}
	return &Composite{subs: normalized}, nil
}

func (c *Composite) Name() string { return "composite" }

func (c *Composite) GenerateTickets(race domain.Race) []domain.Ticket {
	var order []string
	byKey := make(map[string]domain.Ticket)

	for _, sub := range c.subs {
		for _, t := range sub.Strategy.GenerateTickets(race) {
			t.Weight = sub.Weight
			key := t.Key()
			if existing, ok := byKey[key]; ok {
				existing.Weight += t.Weight
				byKey[key] = existing
				continue
			}
			byKey[key] = t
			order = append(order, key)
		}
	}

	tickets := make([]domain.Ticket, 0, len(order))
	for _, key := range order {
		tickets = append(tickets, byKey[key])
	}
	return tickets
}
