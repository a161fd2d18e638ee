package strategy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hkondo/keibasim/internal/domain"
	"github.com/hkondo/keibasim/internal/strategy"
)

// raceFixture builds a race of n horses with predicted rank == horse
// number, useful for deterministic TopN behavior across tests.
func raceFixture(n int) domain.Race {
	horses := make([]domain.Horse, n)
	for i := 0; i < n; i++ {
		h, _ := domain.NewHorse(i+1, "h", float64(i+2), i+1, i+1, 1.0/float64(i+2))
		horses[i] = h
	}
	return domain.Race{
		Track: "tokyo", Year: 2024, KaisaiDate: 501, RaceNumber: 1,
		Surface: domain.SurfaceTurf, Distance: 1600,
		Horses:          horses,
		CombinationOdds: map[domain.TicketKind]map[string]float64{},
	}
}

func withCombo(race domain.Race, kind domain.TicketKind, numbers []int, odds float64) domain.Race {
	key := domain.NewTicket(kind, numbers, 0, "", 0).Key()
	race.CombinationOdds[kind] = map[string]float64{key: odds}
	return race
}

func TestFavoriteWin_PicksTopN(t *testing.T) {
	r := strategy.NewRegistry()
	s, err := r.Get("favorite_win", strategy.Params{"top_n": 2})
	require.NoError(t, err)

	tickets := s.GenerateTickets(raceFixture(12))
	require.Len(t, tickets, 2)
	assert.Equal(t, domain.KindWin, tickets[0].Kind)
	assert.Equal(t, 1, tickets[0].HorseNumbers[0])
	assert.Equal(t, 2, tickets[1].HorseNumbers[0])
}

func TestFavoriteWin_RespectsMinOdds(t *testing.T) {
	r := strategy.NewRegistry()
	s, err := r.Get("favorite_win", strategy.Params{"top_n": 3, "min_odds": 3.5})
	require.NoError(t, err)

	tickets := s.GenerateTickets(raceFixture(12))
	for _, tk := range tickets {
		assert.GreaterOrEqual(t, tk.Odds, 3.5)
	}
}

func TestBoxQuinella_EmitsCombinatorialPairs(t *testing.T) {
	race := raceFixture(12)
	top := race.TopN(4)
	for i := 0; i < len(top); i++ {
		for j := i + 1; j < len(top); j++ {
			race = withComboMerge(race, domain.KindQuinella, []int{top[i].Number, top[j].Number}, 10.0)
		}
	}

	r := strategy.NewRegistry()
	s, err := r.Get("box_quinella", strategy.Params{"box_size": 4})
	require.NoError(t, err)

	tickets := s.GenerateTickets(race)
	assert.Len(t, tickets, 6) // C(4,2)

	seen := map[string]bool{}
	for _, tk := range tickets {
		seen[tk.Key()] = true
	}
	assert.Len(t, seen, 6)
}

func TestFormationTrio_DeduplicatesCollapsedTriples(t *testing.T) {
	race := raceFixture(12)
	race = withComboMerge(race, domain.KindTrio, []int{1, 2, 3}, 50.0)

	r := strategy.NewRegistry()
	s, err := r.Get("formation_trio", strategy.Params{
		"first_leg":  []any{1, 2},
		"second_leg": []any{1, 2},
		"third_leg":  []any{3},
	})
	require.NoError(t, err)

	tickets := s.GenerateTickets(race)
	require.Len(t, tickets, 1)
	assert.Equal(t, []int{1, 2, 3}, tickets[0].HorseNumbers)
}

func TestComposite_MergesDuplicateTicketsAndSumsWeight(t *testing.T) {
	race := raceFixture(12)

	r := strategy.NewRegistry()
	a, err := r.Get("favorite_win", strategy.Params{"top_n": 2})
	require.NoError(t, err)
	b, err := r.Get("favorite_win", strategy.Params{"top_n": 1})
	require.NoError(t, err)

	c, err := strategy.NewComposite([]strategy.SubStrategy{
		{Strategy: a, Weight: 0.6},
		{Strategy: b, Weight: 0.4},
	})
	require.NoError(t, err)

	tickets := c.GenerateTickets(race)
	require.Len(t, tickets, 2) // horse #1 shared, horse #2 only from a

	var horse1 domain.Ticket
	for _, tk := range tickets {
		if tk.HorseNumbers[0] == 1 {
			horse1 = tk
		}
	}
	assert.InDelta(t, 1.0, horse1.Weight, 1e-9)
}

func TestLongshotWin_SelectsByUpsetProbRegardlessOfCandidateFlag(t *testing.T) {
	race := raceFixture(6)
	race.Horses[4].UpsetProb = 0.9
	race.Horses[4].IsUpsetCandidate = false // §4.2 ignores this flag here

	r := strategy.NewRegistry()
	s, err := r.Get("longshot_win", strategy.Params{"upset_threshold": 0.5})
	require.NoError(t, err)

	tickets := s.GenerateTickets(race)
	require.Len(t, tickets, 1)
	assert.Equal(t, race.Horses[4].Number, tickets[0].HorseNumbers[0])
}

func TestLongshotWin_ExcludesHorsesBelowThreshold(t *testing.T) {
	race := raceFixture(6)
	race.Horses[0].UpsetProb = 0.1

	r := strategy.NewRegistry()
	s, err := r.Get("longshot_win", strategy.Params{"upset_threshold": 0.5})
	require.NoError(t, err)

	tickets := s.GenerateTickets(race)
	assert.Empty(t, tickets)
}

func TestLongshotPlace_SelectsByUpsetProbRegardlessOfCandidateFlag(t *testing.T) {
	race := raceFixture(6)
	race.Horses[3].UpsetProb = 0.8
	race.Horses[3].IsUpsetCandidate = false

	r := strategy.NewRegistry()
	s, err := r.Get("longshot_place", strategy.Params{"upset_threshold": 0.5})
	require.NoError(t, err)

	tickets := s.GenerateTickets(race)
	require.Len(t, tickets, 1)
	assert.Equal(t, domain.KindPlace, tickets[0].Kind)
	assert.Equal(t, race.Horses[3].Number, tickets[0].HorseNumbers[0])
}

func withComboMerge(race domain.Race, kind domain.TicketKind, numbers []int, odds float64) domain.Race {
	if race.CombinationOdds[kind] == nil {
		race.CombinationOdds[kind] = map[string]float64{}
	}
	key := domain.NewTicket(kind, numbers, 0, "", 0).Key()
	race.CombinationOdds[kind][key] = odds
	return race
}
