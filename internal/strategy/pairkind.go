package strategy

import "github.com/hkondo/keibasim/internal/domain"

// The quinella and wide kinds share identical selection logic (§4.2: "three
// direct analogs ... identical selection logic; only the ticket kind and
// odds source differ"). These helpers implement that logic once,
// parameterized by kind, and back both quinella.go and wide.go.

func favoritePair(race domain.Race, kind domain.TicketKind, name string, r oddsRange) []domain.Ticket {
	top := race.TopN(2)
	if len(top) < 2 {
		return nil
	}
	numbers := []int{top[0].Number, top[1].Number}
	odds, ok := race.OddsFor(kind, numbers)
	if !ok || !r.allows(odds) {
		return nil
	}
	ev := top[0].PredictedScore * top[1].PredictedScore * odds
	return []domain.Ticket{domain.NewTicket(kind, numbers, odds, name, ev)}
}

func favoriteLongshotPair(race domain.Race, kind domain.TicketKind, name string, maxCounterparts int, r oddsRange) []domain.Ticket {
	top := race.TopN(1)
	if len(top) < 1 {
		return nil
	}
	anchor := top[0]
	var tickets []domain.Ticket
	count := 0
	for _, h := range race.UpsetCandidates() {
		if count >= maxCounterparts {
			break
		}
		if h.Number == anchor.Number {
			continue
		}
		numbers := []int{anchor.Number, h.Number}
		odds, ok := race.OddsFor(kind, numbers)
		if !ok || !r.allows(odds) {
			continue
		}
		ev := anchor.PredictedScore * h.UpsetProb * odds
		tickets = append(tickets, domain.NewTicket(kind, numbers, odds, name, ev))
		count++
	}
	return tickets
}

func boxPair(race domain.Race, kind domain.TicketKind, name string, boxSize int, r oddsRange) []domain.Ticket {
	top := race.TopN(boxSize)
	var tickets []domain.Ticket
	for i := 0; i < len(top); i++ {
		for j := i + 1; j < len(top); j++ {
			numbers := []int{top[i].Number, top[j].Number}
			odds, ok := race.OddsFor(kind, numbers)
			if !ok || !r.allows(odds) {
				continue
			}
			ev := top[i].PredictedScore * top[j].PredictedScore * odds
			tickets = append(tickets, domain.NewTicket(kind, numbers, odds, name, ev))
		}
	}
	return tickets
}
