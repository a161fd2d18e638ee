package strategy

import (
	"github.com/hkondo/keibasim/internal/domain"
)

// favoritePlace mirrors favoriteWin on the place pool, using the exposed
// place odds table when present and falling back to the deliberate
// estimate otherwise (§4.2, §9).
type favoritePlace struct {
	topN   int
	range_ oddsRange
}

func newFavoritePlace(p Params) (Strategy, error) {
	return favoritePlace{topN: p.int("top_n", 1), range_: newOddsRange(p)}, nil
}

func (s favoritePlace) Name() string { return "favorite_place" }

func (s favoritePlace) GenerateTickets(race domain.Race) []domain.Ticket {
	var tickets []domain.Ticket
	for _, h := range race.TopN(s.topN) {
		odds, exact := h.EstimatedPlaceOdds()
		if !s.range_.allows(odds) {
			continue
		}
		t := domain.NewTicket(domain.KindPlace, []int{h.Number}, odds, s.Name(), h.PredictedScore*odds)
		t.ApproxOdds = !exact
		tickets = append(tickets, t)
	}
	return tickets
}

// longshotPlace is longshotWin's symmetric counterpart on the place pool.
type longshotPlace struct {
	upsetThreshold float64
	maxCandidates  int
	range_         oddsRange
}

func newLongshotPlace(p Params) (Strategy, error) {
	return longshotPlace{
		upsetThreshold: p.float("upset_threshold", 0.2),
		maxCandidates:  p.int("max_candidates", 3),
		range_:         newOddsRange(p),
	}, nil
}

func (s longshotPlace) Name() string { return "longshot_place" }

func (s longshotPlace) GenerateTickets(race domain.Race) []domain.Ticket {
	var tickets []domain.Ticket
	count := 0
	for _, h := range horsesByUpsetProb(race, s.upsetThreshold) {
		if count >= s.maxCandidates {
			break
		}
		odds, exact := h.EstimatedPlaceOdds()
		if !s.range_.allows(odds) {
			continue
		}
		t := domain.NewTicket(domain.KindPlace, []int{h.Number}, odds, s.Name(), h.UpsetProb*odds)
		t.ApproxOdds = !exact
		tickets = append(tickets, t)
		count++
	}
	return tickets
}
