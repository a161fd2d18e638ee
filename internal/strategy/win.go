package strategy

import (
	"sort"

	"github.com/hkondo/keibasim/internal/domain"
)

// favoriteWin picks the top TopN horses by PredictedRank, one win ticket
// each.
type favoriteWin struct {
	topN  int
	range_ oddsRange
}

func newFavoriteWin(p Params) (Strategy, error) {
	return favoriteWin{topN: p.int("top_n", 1), range_: newOddsRange(p)}, nil
}

func (s favoriteWin) Name() string { return "favorite_win" }

func (s favoriteWin) GenerateTickets(race domain.Race) []domain.Ticket {
	var tickets []domain.Ticket
	for _, h := range race.TopN(s.topN) {
		if !s.range_.allows(h.Odds) {
			continue
		}
		tickets = append(tickets, domain.NewTicket(domain.KindWin, []int{h.Number}, h.Odds, s.Name(), h.ExpectedValue()))
	}
	return tickets
}

// longshotWin targets every horse whose upset probability meets a
// threshold, preferring the highest upset probability first. The
// is_upset_candidate flag is not consulted.
type longshotWin struct {
	upsetThreshold float64
	maxCandidates  int
	range_         oddsRange
}

func newLongshotWin(p Params) (Strategy, error) {
	return longshotWin{
		upsetThreshold: p.float("upset_threshold", 0.2),
		maxCandidates:  p.int("max_candidates", 3),
		range_:         newOddsRange(p),
	}, nil
}

func (s longshotWin) Name() string { return "longshot_win" }

func (s longshotWin) GenerateTickets(race domain.Race) []domain.Ticket {
	var tickets []domain.Ticket
	count := 0
	for _, h := range horsesByUpsetProb(race, s.upsetThreshold) {
		if count >= s.maxCandidates {
			break
		}
		if !s.range_.allows(h.Odds) {
			continue
		}
		ev := h.UpsetProb * h.Odds
		tickets = append(tickets, domain.NewTicket(domain.KindWin, []int{h.Number}, h.Odds, s.Name(), ev))
		count++
	}
	return tickets
}

// valueWin selects every horse whose expected_value clears a floor,
// descending by expected_value, capped at MaxTickets.
type valueWin struct {
	minExpectedValue float64
	maxTickets       int
	range_           oddsRange
}

func newValueWin(p Params) (Strategy, error) {
	return valueWin{
		minExpectedValue: p.float("min_expected_value", 1.0),
		maxTickets:       p.int("max_tickets", 5),
		range_:           newOddsRange(p),
	}, nil
}

func (s valueWin) Name() string { return "value_win" }

func (s valueWin) GenerateTickets(race domain.Race) []domain.Ticket {
	candidates := make([]domain.Horse, 0, len(race.Horses))
	for _, h := range race.Horses {
		if h.ExpectedValue() >= s.minExpectedValue && s.range_.allows(h.Odds) {
			candidates = append(candidates, h)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ExpectedValue() > candidates[j].ExpectedValue()
	})
	if len(candidates) > s.maxTickets {
		candidates = candidates[:s.maxTickets]
	}
	tickets := make([]domain.Ticket, 0, len(candidates))
	for _, h := range candidates {
		tickets = append(tickets, domain.NewTicket(domain.KindWin, []int{h.Number}, h.Odds, s.Name(), h.ExpectedValue()))
	}
	return tickets
}
