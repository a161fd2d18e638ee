package strategy

import "github.com/hkondo/keibasim/internal/domain"

// favoriteTrio emits the single canonical triple of the top-3 horses by
// predicted rank.
type favoriteTrio struct{ range_ oddsRange }

func newFavoriteTrio(p Params) (Strategy, error) {
	return favoriteTrio{range_: newOddsRange(p)}, nil
}

func (s favoriteTrio) Name() string { return "favorite_trio" }

func (s favoriteTrio) GenerateTickets(race domain.Race) []domain.Ticket {
	top := race.TopN(3)
	if len(top) < 3 {
		return nil
	}
	numbers := []int{top[0].Number, top[1].Number, top[2].Number}
	odds, ok := race.OddsFor(domain.KindTrio, numbers)
	if !ok || !s.range_.allows(odds) {
		return nil
	}
	ev := top[0].PredictedScore * top[1].PredictedScore * top[2].PredictedScore * odds
	return []domain.Ticket{domain.NewTicket(domain.KindTrio, numbers, odds, s.Name(), ev)}
}

// favorite2LongshotTrio anchors on predicted ranks 1 and 2, pairing each
// with an upset-candidate third leg.
type favorite2LongshotTrio struct {
	maxCounterparts int
	range_          oddsRange
}

func newFavorite2LongshotTrio(p Params) (Strategy, error) {
	return favorite2LongshotTrio{maxCounterparts: p.int("max_counterparts", 3), range_: newOddsRange(p)}, nil
}

func (s favorite2LongshotTrio) Name() string { return "favorite2_longshot_trio" }

func (s favorite2LongshotTrio) GenerateTickets(race domain.Race) []domain.Ticket {
	anchors := race.TopN(2)
	if len(anchors) < 2 {
		return nil
	}
	anchorNums := map[int]bool{anchors[0].Number: true, anchors[1].Number: true}

	var tickets []domain.Ticket
	count := 0
	for _, h := range race.UpsetCandidates() {
		if count >= s.maxCounterparts {
			break
		}
		if anchorNums[h.Number] {
			continue
		}
		numbers := []int{anchors[0].Number, anchors[1].Number, h.Number}
		odds, ok := race.OddsFor(domain.KindTrio, numbers)
		if !ok || !s.range_.allows(odds) {
			continue
		}
		ev := anchors[0].PredictedScore * anchors[1].PredictedScore * h.UpsetProb * odds
		tickets = append(tickets, domain.NewTicket(domain.KindTrio, numbers, odds, s.Name(), ev))
		count++
	}
	return tickets
}

// formationTrio enumerates every (a, b, c) with a in FirstLeg, b in
// SecondLeg, c in ThirdLeg (each a predicted-rank position), deduplicating
// identical canonical triples and preserving first-emission order.
type formationTrio struct {
	firstLeg, secondLeg, thirdLeg []int // predicted-rank positions
	range_                        oddsRange
}

func newFormationTrio(p Params) (Strategy, error) {
	return formationTrio{
		firstLeg:  p.intList("first_leg"),
		secondLeg: p.intList("second_leg"),
		thirdLeg:  p.intList("third_leg"),
		range_:    newOddsRange(p),
	}, nil
}

func (s formationTrio) Name() string { return "formation_trio" }

func (s formationTrio) GenerateTickets(race domain.Race) []domain.Ticket {
	byRank := make(map[int]domain.Horse, len(race.Horses))
	for _, h := range race.Horses {
		byRank[h.PredictedRank] = h
	}

	seen := make(map[string]bool)
	var tickets []domain.Ticket
	for _, a := range s.firstLeg {
		ha, ok := byRank[a]
		if !ok {
			continue
		}
		for _, b := range s.secondLeg {
			hb, ok := byRank[b]
			if !ok || hb.Number == ha.Number {
				continue
			}
			for _, c := range s.thirdLeg {
				hc, ok := byRank[c]
				if !ok || hc.Number == ha.Number || hc.Number == hb.Number {
					continue
				}
				numbers := []int{ha.Number, hb.Number, hc.Number}
				t := domain.NewTicket(domain.KindTrio, numbers, 0, s.Name(), 0)
				if seen[t.Key()] {
					continue
				}
				odds, ok := race.OddsFor(domain.KindTrio, numbers)
				if !ok || !s.range_.allows(odds) {
					continue
				}
				ev := ha.PredictedScore * hb.PredictedScore * hc.PredictedScore * odds
				seen[t.Key()] = true
				tickets = append(tickets, domain.NewTicket(domain.KindTrio, numbers, odds, s.Name(), ev))
			}
		}
	}
	return tickets
}
