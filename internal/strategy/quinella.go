package strategy

import "github.com/hkondo/keibasim/internal/domain"

type favoriteQuinella struct{ range_ oddsRange }

func newFavoriteQuinella(p Params) (Strategy, error) {
	return favoriteQuinella{range_: newOddsRange(p)}, nil
}

func (s favoriteQuinella) Name() string { return "favorite_quinella" }

func (s favoriteQuinella) GenerateTickets(race domain.Race) []domain.Ticket {
	return favoritePair(race, domain.KindQuinella, s.Name(), s.range_)
}

type favoriteLongshotQuinella struct {
	maxCounterparts int
	range_          oddsRange
}

func newFavoriteLongshotQuinella(p Params) (Strategy, error) {
	return favoriteLongshotQuinella{maxCounterparts: p.int("max_counterparts", 3), range_: newOddsRange(p)}, nil
}

func (s favoriteLongshotQuinella) Name() string { return "favorite_longshot_quinella" }

func (s favoriteLongshotQuinella) GenerateTickets(race domain.Race) []domain.Ticket {
	return favoriteLongshotPair(race, domain.KindQuinella, s.Name(), s.maxCounterparts, s.range_)
}

type boxQuinella struct {
	boxSize int
	range_  oddsRange
}

func newBoxQuinella(p Params) (Strategy, error) {
	return boxQuinella{boxSize: p.int("box_size", 4), range_: newOddsRange(p)}, nil
}

func (s boxQuinella) Name() string { return "box_quinella" }

func (s boxQuinella) GenerateTickets(race domain.Race) []domain.Ticket {
	return boxPair(race, domain.KindQuinella, s.Name(), s.boxSize, s.range_)
}
