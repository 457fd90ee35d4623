package perf

import (
	"path/filepath"
	"testing"

	"github.com/fxcycle/trader/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxDrawdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		curve  []float64
		want   float64
		within float64
	}{
		{"empty", nil, 0, 1e-9},
		{"monotonic rise", []float64{100, 110, 120}, 0, 1e-9},
		{"single dip", []float64{100, 120, 90, 130}, 25, 1e-9},
		{"dip then deeper dip", []float64{100, 80, 110, 55}, 50, 1e-9},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, MaxDrawdown(tt.curve), tt.within)
		})
	}
}

func TestSharpeRatio(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, SharpeRatio(nil, 0.02))
	assert.Equal(t, 0.0, SharpeRatio([]float64{0.01}, 0.02))
	// Constant returns have zero variance.
	assert.Equal(t, 0.0, SharpeRatio([]float64{0.01, 0.01, 0.01}, 0))

	// Positive mean return with variance: positive Sharpe.
	s := SharpeRatio([]float64{0.01, 0.02, 0.015, 0.005}, 0)
	assert.Greater(t, s, 0.0)
}

func TestTrackerWinRate(t *testing.T) {
	t.Parallel()

	tr, err := NewTracker(nil)
	require.NoError(t, err)

	tr.RecordSubmission("turtle")
	tr.RecordSubmission("turtle")
	tr.RecordSubmission("turtle")
	require.NoError(t, tr.RecordClosedTrade("turtle", 50))
	require.NoError(t, tr.RecordClosedTrade("turtle", -20))
	require.NoError(t, tr.RecordClosedTrade("turtle", 10))

	s := tr.Stats("turtle")
	assert.Equal(t, 3, s.Trades)
	assert.Equal(t, 2, s.Wins)
	assert.InDelta(t, 40.0, s.TotalPnL, 1e-9)
	assert.InDelta(t, 66.666, s.WinRate(), 0.001)
}

func TestTrackerEquityCurveReturns(t *testing.T) {
	t.Parallel()

	tr, err := NewTracker(nil)
	require.NoError(t, err)

	tr.ObserveEquity(1000)
	tr.ObserveEquity(1100)
	tr.ObserveEquity(990)

	assert.InDelta(t, 10.0, tr.MaxDrawdown(), 1e-9)
	// Two returns: +10% and -10%.
	assert.NotEqual(t, 0.0, tr.Sharpe(0))
}

func TestTrackerReportsPersistFailure(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "perf.db")
	store, err := journal.NewSQLite(path)
	require.NoError(t, err)

	tr, err := NewTracker(store)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	err = tr.RecordClosedTrade("scalper", 5)
	assert.Error(t, err, "a dead store must surface, not vanish")
	// In-memory totals still advance so the run keeps a usable view.
	assert.InDelta(t, 5.0, tr.Stats("scalper").TotalPnL, 1e-9)
}

func TestTrackerPersistsAndRestores(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "perf.db")
	store, err := journal.NewSQLite(path)
	require.NoError(t, err)

	tr, err := NewTracker(store)
	require.NoError(t, err)
	tr.RecordSubmission("scalper")
	require.NoError(t, tr.RecordClosedTrade("scalper", 25))
	require.NoError(t, store.Close())

	store2, err := journal.NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store2.Close() })

	tr2, err := NewTracker(store2)
	require.NoError(t, err)

	s := tr2.Stats("scalper")
	assert.Equal(t, 1, s.Trades)
	assert.Equal(t, 1, s.Wins)
	assert.InDelta(t, 25.0, s.TotalPnL, 1e-9)
}
