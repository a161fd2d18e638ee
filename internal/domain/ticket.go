package domain

import (
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// hundredYen is the unit tickets are floored to.
var hundredYen = decimal.NewFromInt(100)

// unorderedKinds canonicalize HorseNumbers by ascending sort for keying and
// comparison; all other kinds preserve position semantics (1st, 2nd[, 3rd]).
var unorderedKinds = map[TicketKind]bool{
	KindQuinella: true,
	KindWide:     true,
	KindTrio:     true,
}

// Ticket is immutable after sizing. Amount is in yen, always a multiple of
// 100 once placed; a Ticket with Amount.IsZero() was never placed and must
// not be recorded.
type Ticket struct {
	ID            string
	Kind          TicketKind
	HorseNumbers  []int // canonical order depends on Kind
	Odds          float64
	Amount        decimal.Decimal
	StrategyName  string
	ExpectedValue float64
	Weight        float64 // composite sub-strategy weight; 1.0 when not composite
	ApproxOdds    bool    // true when Odds came from the place-odds fallback estimator
}

// NewTicket builds a ticket with canonicalized horse numbers and a fresh
// identity. Amount and Weight are set later by the bankroll layer and the
// composite strategy respectively; Weight defaults to 1.0.
func NewTicket(kind TicketKind, numbers []int, odds float64, strategyName string, ev float64) Ticket {
	canon := make([]int, len(numbers))
	copy(canon, numbers)
	if unorderedKinds[kind] {
		sort.Ints(canon)
	}
	return Ticket{
		ID:            uuid.New().String(),
		Kind:          kind,
		HorseNumbers:  canon,
		Odds:          odds,
		Amount:        decimal.Zero,
		StrategyName:  strategyName,
		ExpectedValue: ev,
		Weight:        1.0,
	}
}

// Key returns a string uniquely identifying (kind, canonical numbers),
// used by the composite strategy to detect and merge duplicate tickets
// emitted by different sub-strategies.
func (t Ticket) Key() string {
	s := string(t.Kind)
	for _, n := range t.HorseNumbers {
		s += "/" + strconv.Itoa(n)
	}
	return s
}

// FloorTo100 floors a raw stake down to the nearest multiple of 100 yen.
func FloorTo100(stake decimal.Decimal) decimal.Decimal {
	if stake.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	units := stake.Div(hundredYen).Floor()
	return units.Mul(hundredYen)
}
