package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hkondo/keibasim/internal/domain"
	"github.com/hkondo/keibasim/internal/ports"
	"github.com/hkondo/keibasim/internal/storage"
)

func openStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := storage.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveRun_RoundTripsThroughHistory(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	rec := ports.RunRecord{
		StrategyName:   "favorite_win",
		BankrollMethod: "fixed",
		Seed:           42,
		ConfigSnapshot: `{"strategy":"favorite_win"}`,
		Metrics: domain.SimulationMetrics{
			ROI: 400, TotalBets: 1, HitRate: 100,
		},
	}
	require.NoError(t, s.SaveRun(ctx, rec))

	history, err := s.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "favorite_win", history[0].StrategyName)
	assert.Equal(t, int64(42), history[0].Seed)
	assert.Equal(t, 400.0, history[0].Metrics.ROI)
	assert.Nil(t, history[0].MonteCarlo)
}

func TestSaveRun_PersistsMonteCarlo(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	mc := &domain.MonteCarloResult{NumTrials: 100, Seed: 7, Mean: 120000}
	rec := ports.RunRecord{StrategyName: "longshot_win", BankrollMethod: "kelly", Seed: 7, MonteCarlo: mc}
	require.NoError(t, s.SaveRun(ctx, rec))

	history, err := s.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].MonteCarlo)
	assert.Equal(t, 100, history[0].MonteCarlo.NumTrials)
	assert.Equal(t, 120000.0, history[0].MonteCarlo.Mean)
}

func TestHistory_OrdersNewestFirst(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, ports.RunRecord{StrategyName: "first", BankrollMethod: "fixed"}))
	require.NoError(t, s.SaveRun(ctx, ports.RunRecord{StrategyName: "second", BankrollMethod: "fixed"}))

	history, err := s.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "second", history[0].StrategyName)
	assert.Equal(t, "first", history[1].StrategyName)
}

func TestHistory_RespectsLimit(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.SaveRun(ctx, ports.RunRecord{StrategyName: "s", BankrollMethod: "fixed"}))
	}
	history, err := s.History(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}
