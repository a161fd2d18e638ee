// Package settlement implements the bet evaluator (§4.3): given a ticket
// and a race's realized finishing order, decide whether it hit and what it
// paid.
package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hkondo/keibasim/internal/domain"
)

// Evaluator adjudicates tickets against races.
type Evaluator struct{}

// New builds an Evaluator. It carries no state: evaluate(t, r) depends
// only on t and r.actual_finish_ranks (TestableProperties #5).
func New() *Evaluator { return &Evaluator{} }

// Evaluate returns whether the ticket hit and its payout in yen, truncated
// to an integer. If the race has no finishing order, it returns
// ErrResultUnavailable (fatal, per §7 — forecasting mode is out of scope).
func (e *Evaluator) Evaluate(ticket domain.Ticket, race domain.Race) (isHit bool, payout decimal.Decimal, err error) {
	if !race.HasResult() {
		return false, decimal.Zero, fmt.Errorf("settlement.Evaluate: race %s: %w", race.RaceID(), domain.ErrResultUnavailable)
	}

	order := race.FinishOrder()
	hit := evaluateHit(ticket, order)
	if !hit {
		return false, decimal.Zero, nil
	}

	payout = ticket.Amount.Mul(decimal.NewFromFloat(ticket.Odds)).Truncate(0)
	return true, payout, nil
}

// evaluateHit applies the per-kind adjudication table. order is the
// race's finishers ordered ascending by ActualRank; DNF horses never
// appear in it, so their presence on a ticket simply fails to match any
// required position.
func evaluateHit(ticket domain.Ticket, order []domain.Horse) bool {
	numberAt := func(pos int) (int, bool) {
		if pos-1 < 0 || pos-1 >= len(order) {
			return 0, false
		}
		return order[pos-1].Number, true
	}

	switch ticket.Kind {
	case domain.KindWin:
		first, ok := numberAt(1)
		return ok && ticket.HorseNumbers[0] == first

	case domain.KindPlace:
		topThree := inFrameSet(order, 3)
		return topThree[ticket.HorseNumbers[0]]

	case domain.KindQuinella:
		first, ok1 := numberAt(1)
		second, ok2 := numberAt(2)
		if !ok1 || !ok2 {
			return false
		}
		return isUnorderedMatch(ticket.HorseNumbers, []int{first, second})

	case domain.KindWide:
		topThree := inFrameSet(order, 3)
		if len(ticket.HorseNumbers) != 2 {
			return false
		}
		return topThree[ticket.HorseNumbers[0]] && topThree[ticket.HorseNumbers[1]]

	case domain.KindExacta:
		first, ok1 := numberAt(1)
		second, ok2 := numberAt(2)
		if !ok1 || !ok2 || len(ticket.HorseNumbers) != 2 {
			return false
		}
		return ticket.HorseNumbers[0] == first && ticket.HorseNumbers[1] == second

	case domain.KindTrio:
		first, ok1 := numberAt(1)
		second, ok2 := numberAt(2)
		third, ok3 := numberAt(3)
		if !ok1 || !ok2 || !ok3 {
			return false
		}
		return isUnorderedMatch(ticket.HorseNumbers, []int{first, second, third})

	case domain.KindTrifecta:
		first, ok1 := numberAt(1)
		second, ok2 := numberAt(2)
		third, ok3 := numberAt(3)
		if !ok1 || !ok2 || !ok3 || len(ticket.HorseNumbers) != 3 {
			return false
		}
		return ticket.HorseNumbers[0] == first && ticket.HorseNumbers[1] == second && ticket.HorseNumbers[2] == third
	}
	return false
}

// inFrameSet returns the set of horse numbers finishing within the top n
// positions.
func inFrameSet(order []domain.Horse, n int) map[int]bool {
	set := make(map[int]bool, n)
	for i := 0; i < n && i < len(order); i++ {
		set[order[i].Number] = true
	}
	return set
}

func isUnorderedMatch(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	count := make(map[int]int, len(a))
	for _, n := range a {
		count[n]++
	}
	for _, n := range b {
		count[n]--
	}
	for _, c := range count {
		if c != 0 {
			return false
		}
	}
	return true
}
