package market

import (
	"context"
	"time"
)

// Candle represents OHLC (Open, High, Low, Close) candlestick data
type Candle struct {
	Time  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Timeframe identifies the candle aggregation period.
type Timeframe string

const (
	M1  Timeframe = "M1"
	M5  Timeframe = "M5"
	M15 Timeframe = "M15"
	H1  Timeframe = "H1"
	H4  Timeframe = "H4"
	D1  Timeframe = "D1"
)

// ParseTimeframe maps a string like "M5" or "H1" to a Timeframe.
func ParseTimeframe(s string) (Timeframe, bool) {
	switch Timeframe(s) {
	case M1, M5, M15, H1, H4, D1:
		return Timeframe(s), true
	}
	return "", false
}

// CandleSource supplies ordered candle series for a symbol/timeframe.
// Implementations may return fewer candles than requested (or none at
// all) when history is unavailable; callers must handle short series.
type CandleSource interface {
	GetCandles(ctx context.Context, symbol string, tf Timeframe, count int) ([]Candle, error)
}
