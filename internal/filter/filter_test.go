package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hkondo/keibasim/internal/domain"
	"github.com/hkondo/keibasim/internal/filter"
)

func raceWithHorses(n int) domain.Race {
	horses := make([]domain.Horse, n)
	for i := 0; i < n; i++ {
		horses[i], _ = domain.NewHorse(i+1, "h", 3.0, i+1, i+1, 0.2)
	}
	return domain.Race{Track: "tokyo", Year: 2024, KaisaiDate: 501, RaceNumber: 1, Surface: domain.SurfaceTurf, Distance: 1600, Horses: horses}
}

func TestEvaluate_RejectsSmallField(t *testing.T) {
	f, err := filter.New(filter.Config{MinHorseCount: 12})
	require.NoError(t, err)

	d := f.Evaluate(raceWithHorses(8))
	assert.False(t, d.Accept)
	assert.Contains(t, d.Reason, "field size")
}

func TestEvaluate_AcceptsDefaultTierMultiplier(t *testing.T) {
	f, err := filter.New(filter.DefaultConfig())
	require.NoError(t, err)

	d := f.Evaluate(raceWithHorses(14))
	assert.True(t, d.Accept)
	assert.Equal(t, 1.0, d.TierMultiplier)
}

func TestEvaluate_TierMultiplierAppliesConfiguredTier(t *testing.T) {
	cfg := filter.DefaultConfig()
	cfg.TrackTiers = map[string]string{"tokyo": "tier2"}
	f, err := filter.New(cfg)
	require.NoError(t, err)

	d := f.Evaluate(raceWithHorses(14))
	assert.True(t, d.Accept)
	assert.Equal(t, 0.8, d.TierMultiplier)
}

func TestEvaluate_SurfaceMismatchRejects(t *testing.T) {
	cfg := filter.DefaultConfig()
	cfg.Surface = domain.SurfaceDirt
	f, err := filter.New(cfg)
	require.NoError(t, err)

	d := f.Evaluate(raceWithHorses(14))
	assert.False(t, d.Accept)
}

func TestEvaluate_DistanceOutOfRangeRejects(t *testing.T) {
	cfg := filter.DefaultConfig()
	cfg.DistanceMin = 2000
	f, err := filter.New(cfg)
	require.NoError(t, err)

	d := f.Evaluate(raceWithHorses(14))
	assert.False(t, d.Accept)
}

func TestEvaluate_BlacklistRejectsListedTrack(t *testing.T) {
	cfg := filter.DefaultConfig()
	cfg.TrackMode = filter.TrackModeBlacklist
	cfg.TrackList = []string{"tokyo"}
	f, err := filter.New(cfg)
	require.NoError(t, err)

	d := f.Evaluate(raceWithHorses(14))
	assert.False(t, d.Accept)
}

func TestEvaluate_SkipNoUpsetRejectsWhenNoneFlagged(t *testing.T) {
	cfg := filter.DefaultConfig()
	cfg.SkipNoUpset = true
	f, err := filter.New(cfg)
	require.NoError(t, err)

	d := f.Evaluate(raceWithHorses(14))
	assert.False(t, d.Accept)
}

func TestNew_RejectsInvertedDistanceBounds(t *testing.T) {
	_, err := filter.New(filter.Config{DistanceMin: 2000, DistanceMax: 1000})
	require.Error(t, err)
}
