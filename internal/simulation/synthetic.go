package simulation

import (
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/hkondo/keibasim/internal/domain"
)

// Evaluator is the narrow interface Driver depends on, satisfied by both
// *settlement.Evaluator (real adjudication) and syntheticEvaluator
// (probability-based Monte Carlo substitution).
type Evaluator interface {
	Evaluate(ticket domain.Ticket, race domain.Race) (isHit bool, payout decimal.Decimal, err error)
}

// syntheticEvaluator substitutes a synthetic hit/miss draw for real
// settlement, per the probability-based Monte Carlo mode (§4.5.2): hit
// probability comes from the pluggable estimator, payout on a synthetic
// hit is amount*odds.
type syntheticEvaluator struct {
	estimate HitProbabilityEstimator
	rng      *rand.Rand
}

func newSyntheticEvaluator(estimate HitProbabilityEstimator, rng *rand.Rand) *syntheticEvaluator {
	return &syntheticEvaluator{estimate: estimate, rng: rng}
}

func (s *syntheticEvaluator) Evaluate(ticket domain.Ticket, race domain.Race) (bool, decimal.Decimal, error) {
	p := s.estimate(ticket, race)
	hit := s.rng.Float64() < p
	if !hit {
		return false, decimal.Zero, nil
	}
	payout := ticket.Amount.Mul(decimal.NewFromFloat(ticket.Odds)).Truncate(0)
	return true, payout, nil
}
