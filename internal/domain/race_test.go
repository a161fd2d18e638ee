package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hkondo/keibasim/internal/domain"
)

func buildRace(t *testing.T) domain.Race {
	t.Helper()
	h1, err := domain.NewHorse(1, "Alpha", 4.0, 1, 1, 0.4)
	require.NoError(t, err)
	h1.ActualRank = 2

	h2, err := domain.NewHorse(2, "Beta", 6.0, 2, 2, 0.3)
	require.NoError(t, err)
	h2.ActualRank = 1

	h3, err := domain.NewHorse(3, "Gamma", 20.0, 3, 3, 0.1)
	require.NoError(t, err)
	h3.ActualRank = domain.FinishDNF
	h3.IsUpsetCandidate = true
	h3.UpsetProb = 0.6

	return domain.Race{
		Track: "tokyo", Year: 2024, KaisaiDate: 501, RaceNumber: 1,
		Surface: domain.SurfaceTurf, Distance: 1600,
		Horses: []domain.Horse{h1, h2, h3},
	}
}

func TestRace_RaceIDAndDate(t *testing.T) {
	r := buildRace(t)
	assert.Equal(t, "tokyo-2024-0501-01", r.RaceID())
	assert.Equal(t, 2024, r.Date().Year())
	assert.Equal(t, 5, int(r.Date().Month()))
	assert.Equal(t, 1, r.Date().Day())
}

func TestRace_ByNumber(t *testing.T) {
	r := buildRace(t)
	h, ok := r.ByNumber(2)
	require.True(t, ok)
	assert.Equal(t, "Beta", h.Name)

	_, ok = r.ByNumber(99)
	assert.False(t, ok)
}

func TestRace_TopN(t *testing.T) {
	r := buildRace(t)
	top2 := r.TopN(2)
	require.Len(t, top2, 2)
	assert.Equal(t, 1, top2[0].Number)
	assert.Equal(t, 2, top2[1].Number)

	assert.Len(t, r.TopN(10), 3)
}

func TestRace_UpsetCandidates(t *testing.T) {
	r := buildRace(t)
	candidates := r.UpsetCandidates()
	require.Len(t, candidates, 1)
	assert.Equal(t, 3, candidates[0].Number)
}

func TestRace_FinishOrderExcludesDNF(t *testing.T) {
	r := buildRace(t)
	order := r.FinishOrder()
	require.Len(t, order, 2)
	assert.Equal(t, 2, order[0].Number)
	assert.Equal(t, 1, order[1].Number)
}

func TestRace_Winner(t *testing.T) {
	r := buildRace(t)
	winner, ok := r.Winner()
	require.True(t, ok)
	assert.Equal(t, 2, winner.Number)
}

func TestRace_HasResultRequiresAllHorsesSettled(t *testing.T) {
	r := buildRace(t)
	assert.True(t, r.HasResult())

	h4, err := domain.NewHorse(4, "Delta", 8.0, 4, 4, 0.05)
	require.NoError(t, err)
	r.Horses = append(r.Horses, h4)
	assert.False(t, r.HasResult())
}

func TestRace_FieldSize(t *testing.T) {
	r := buildRace(t)
	assert.Equal(t, 3, r.FieldSize())
}

func TestRace_OddsFor(t *testing.T) {
	r := buildRace(t)
	r.CombinationOdds = map[domain.TicketKind]map[string]float64{
		domain.KindQuinella: {"quinella/1/2": 12.5},
	}

	odds, ok := r.OddsFor(domain.KindQuinella, []int{2, 1})
	require.True(t, ok)
	assert.Equal(t, 12.5, odds)

	_, ok = r.OddsFor(domain.KindQuinella, []int{1, 3})
	assert.False(t, ok)

	_, ok = r.OddsFor(domain.KindTrifecta, []int{1, 2, 3})
	assert.False(t, ok)
}
