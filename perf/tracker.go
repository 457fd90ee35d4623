// Package perf aggregates executed-trade outcomes into per-strategy
// statistics. It consumes what the engine emits and never feeds back
// into trading decisions.
package perf

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/fxcycle/trader/journal"
)

type StrategyStats struct {
	Trades   int
	Wins     int
	TotalPnL float64
}

func (s StrategyStats) WinRate() float64 {
	if s.Trades == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Trades) * 100
}

type Tracker struct {
	mu         sync.Mutex
	byStrategy map[string]*StrategyStats
	equity     []float64
	returns    []float64

	store journal.MetricsStore // optional
}

// NewTracker builds a tracker. A non-nil store restores cumulative
// per-strategy stats from the previous run and persists updates.
func NewTracker(store journal.MetricsStore) (*Tracker, error) {
	t := &Tracker{
		byStrategy: make(map[string]*StrategyStats),
		store:      store,
	}

	if store != nil {
		saved, err := store.LoadStrategyStats()
		if err != nil {
			return nil, err
		}
		for _, s := range saved {
			t.byStrategy[s.Strategy] = &StrategyStats{
				Trades:   s.Trades,
				Wins:     s.Wins,
				TotalPnL: s.TotalPnL,
			}
		}
	}

	return t, nil
}

// RecordSubmission counts one sent order request for a strategy.
func (t *Tracker) RecordSubmission(strategy string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.statsLocked(strategy).Trades++
}

// RecordClosedTrade folds a realized PnL into a strategy's totals and
// persists the updated record when a store is configured. The in-memory
// totals are updated even when persistence fails; the error is returned
// so the caller can report it.
func (t *Tracker) RecordClosedTrade(strategy string, pnl float64) error {
	t.mu.Lock()
	s := t.statsLocked(strategy)
	s.TotalPnL += pnl
	if pnl > 0 {
		s.Wins++
	}
	snap := *s
	t.mu.Unlock()

	if t.store == nil {
		return nil
	}
	return t.store.UpsertStrategyStats(journal.StrategyStats{
		Strategy:    strategy,
		Trades:      snap.Trades,
		Wins:        snap.Wins,
		TotalPnL:    snap.TotalPnL,
		WinRate:     snap.WinRate(),
		MaxDrawdown: t.MaxDrawdown(),
		UpdatedAt:   time.Now().UTC(),
	})
}

// ObserveEquity appends a point to the equity curve and derives the
// period return from the previous point.
func (t *Tracker) ObserveEquity(equity float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n := len(t.equity); n > 0 && t.equity[n-1] != 0 {
		t.returns = append(t.returns, equity/t.equity[n-1]-1)
	}
	t.equity = append(t.equity, equity)
}

func (t *Tracker) statsLocked(strategy string) *StrategyStats {
	s, ok := t.byStrategy[strategy]
	if !ok {
		s = &StrategyStats{}
		t.byStrategy[strategy] = s
	}
	return s
}

// Strategies returns strategy names with recorded activity, sorted.
func (t *Tracker) Strategies() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]string, 0, len(t.byStrategy))
	for name := range t.byStrategy {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (t *Tracker) Stats(strategy string) StrategyStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.byStrategy[strategy]; ok {
		return *s
	}
	return StrategyStats{}
}

// MaxDrawdown returns the worst peak-to-trough loss of the observed
// equity curve, in percent.
func (t *Tracker) MaxDrawdown() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return MaxDrawdown(t.equity)
}

// Sharpe returns the annualized Sharpe ratio of the observed equity
// returns against the given annual risk-free rate.
func (t *Tracker) Sharpe(riskFreeRate float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return SharpeRatio(t.returns, riskFreeRate)
}

// MaxDrawdown computes the maximum percentage drop from a running peak.
func MaxDrawdown(equityCurve []float64) float64 {
	if len(equityCurve) == 0 {
		return 0
	}

	peak := equityCurve[0]
	maxDD := 0.0
	for _, v := range equityCurve {
		if v > peak {
			peak = v
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - v) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD * 100
}

// SharpeRatio computes the annualized Sharpe ratio over per-period
// returns, assuming 252 trading periods per year. Fewer than two
// returns yields 0.
func SharpeRatio(returns []float64, riskFreeRate float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	perPeriodRF := riskFreeRate / 252

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns) - 1)

	std := math.Sqrt(variance)
	if std == 0 {
		return 0
	}

	return (mean - perPeriodRF) / std * math.Sqrt(252)
}
