// Package journal persists trading activity between runs: an
// append-only order history per strategy, per-cycle equity snapshots,
// and cumulative per-strategy performance metrics.
package journal

import "time"

// OrderRecord is one submitted order request and its terminal outcome.
// Appended once per submission, success or failure.
type OrderRecord struct {
	ClientTag  string
	OrderID    string
	Strategy   string
	Symbol     string
	Side       string
	Volume     float64
	Price      float64
	StopLoss   float64
	TakeProfit float64
	Success    bool
	Reject     string
	Time       time.Time
}

// EquitySnapshot is the account state recorded at the end of a cycle.
type EquitySnapshot struct {
	Time            time.Time
	Cycle           int
	Balance         float64
	Equity          float64
	MarginFree      float64
	OpenPositions   int
	TradesSubmitted int
}

// StrategyStats is the cumulative performance record for one strategy,
// durable between runs.
type StrategyStats struct {
	Strategy    string
	Trades      int
	Wins        int
	TotalPnL    float64
	WinRate     float64
	MaxDrawdown float64
	UpdatedAt   time.Time
}

type Journal interface {
	RecordOrder(OrderRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// MetricsStore persists cumulative strategy metrics. The SQLite
// journal implements it; the CSV journal does not.
type MetricsStore interface {
	UpsertStrategyStats(StrategyStats) error
	LoadStrategyStats() ([]StrategyStats, error)
}
