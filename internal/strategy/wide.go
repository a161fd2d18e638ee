package strategy

import "github.com/hkondo/keibasim/internal/domain"

type favoriteWide struct{ range_ oddsRange }

func newFavoriteWide(p Params) (Strategy, error) {
	return favoriteWide{range_: newOddsRange(p)}, nil
}

func (s favoriteWide) Name() string { return "favorite_wide" }

func (s favoriteWide) GenerateTickets(race domain.Race) []domain.Ticket {
	return favoritePair(race, domain.KindWide, s.Name(), s.range_)
}

type favoriteLongshotWide struct {
	maxCounterparts int
	range_          oddsRange
}

func newFavoriteLongshotWide(p Params) (Strategy, error) {
	return favoriteLongshotWide{maxCounterparts: p.int("max_counterparts", 3), range_: newOddsRange(p)}, nil
}

func (s favoriteLongshotWide) Name() string { return "favorite_longshot_wide" }

func (s favoriteLongshotWide) GenerateTickets(race domain.Race) []domain.Ticket {
	return favoriteLongshotPair(race, domain.KindWide, s.Name(), s.maxCounterparts, s.range_)
}

type boxWide struct {
	boxSize int
	range_  oddsRange
}

func newBoxWide(p Params) (Strategy, error) {
	return boxWide{boxSize: p.int("box_size", 4), range_: newOddsRange(p)}, nil
}

func (s boxWide) Name() string { return "box_wide" }

func (s boxWide) GenerateTickets(race domain.Race) []domain.Ticket {
	return boxPair(race, domain.KindWide, s.Name(), s.boxSize, s.range_)
}
