package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hkondo/keibasim/internal/domain"
)

func TestNewHorse_ValidatesNumberRange(t *testing.T) {
	_, err := domain.NewHorse(0, "Alpha", 4.0, 1, 1, 0.3)
	require.Error(t, err)

	_, err = domain.NewHorse(19, "Alpha", 4.0, 1, 1, 0.3)
	require.Error(t, err)

	h, err := domain.NewHorse(18, "Alpha", 4.0, 1, 1, 0.3)
	require.NoError(t, err)
	assert.Equal(t, 18, h.Number)
}

func TestNewHorse_ValidatesOddsPositive(t *testing.T) {
	_, err := domain.NewHorse(1, "Alpha", 0, 1, 1, 0.3)
	require.Error(t, err)

	_, err = domain.NewHorse(1, "Alpha", -1.0, 1, 1, 0.3)
	require.Error(t, err)
}

func TestNewHorse_ValidatesPredictedScoreRange(t *testing.T) {
	_, err := domain.NewHorse(1, "Alpha", 4.0, 1, 1, -0.1)
	require.Error(t, err)

	_, err = domain.NewHorse(1, "Alpha", 4.0, 1, 1, 1.1)
	require.Error(t, err)

	h, err := domain.NewHorse(1, "Alpha", 4.0, 1, 1, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, h.PredictedScore)
}

func TestHorse_ExpectedValue(t *testing.T) {
	h, err := domain.NewHorse(1, "Alpha", 5.0, 1, 1, 0.4)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, h.ExpectedValue(), 1e-9)
}

func TestHorse_InFrame(t *testing.T) {
	h, err := domain.NewHorse(1, "Alpha", 5.0, 1, 1, 0.4)
	require.NoError(t, err)

	h.ActualRank = 3
	assert.True(t, h.InFrame())

	h.ActualRank = 4
	assert.False(t, h.InFrame())

	h.ActualRank = domain.FinishDNF
	assert.False(t, h.InFrame())
}

func TestHorse_DidNotFinishAndHasResult(t *testing.T) {
	h, err := domain.NewHorse(1, "Alpha", 5.0, 1, 1, 0.4)
	require.NoError(t, err)

	assert.False(t, h.HasResult())
	assert.False(t, h.DidNotFinish())

	h.ActualRank = domain.FinishDNF
	assert.True(t, h.HasResult())
	assert.True(t, h.DidNotFinish())
}

func TestHorse_EstimatedPlaceOdds(t *testing.T) {
	h, err := domain.NewHorse(1, "Alpha", 10.0, 1, 1, 0.4)
	require.NoError(t, err)

	odds, exact := h.EstimatedPlaceOdds()
	assert.False(t, exact)
	assert.InDelta(t, 3.5, odds, 1e-9)

	h.PlaceOddsMin = 2.2
	odds, exact = h.EstimatedPlaceOdds()
	assert.True(t, exact)
	assert.Equal(t, 2.2, odds)
}

func TestHorse_EstimatedPlaceOddsFloorsAtOnePointOne(t *testing.T) {
	h, err := domain.NewHorse(1, "Alpha", 2.0, 1, 1, 0.4)
	require.NoError(t, err)

	odds, exact := h.EstimatedPlaceOdds()
	assert.False(t, exact)
	assert.Equal(t, 1.1, odds)
}
