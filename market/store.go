package market

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// CandleStore is an in-memory CandleSource keyed by symbol and
// timeframe. It backs the simulated terminal and tests; a live market
// data gateway would satisfy CandleSource the same way.
type CandleStore struct {
	mu     sync.RWMutex
	series map[string][]Candle
}

func NewCandleStore() *CandleStore {
	return &CandleStore{series: make(map[string][]Candle)}
}

func seriesKey(symbol string, tf Timeframe) string {
	return symbol + "/" + string(tf)
}

// Set replaces the candle series for a symbol/timeframe.
func (cs *CandleStore) Set(symbol string, tf Timeframe, candles []Candle) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.series[seriesKey(symbol, tf)] = candles
}

// Append adds a candle to the end of a series.
func (cs *CandleStore) Append(symbol string, tf Timeframe, c Candle) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	key := seriesKey(symbol, tf)
	cs.series[key] = append(cs.series[key], c)
}

// GetCandles returns up to count of the most recent candles, oldest
// first. An unknown series yields an empty slice, not an error.
func (cs *CandleStore) GetCandles(ctx context.Context, symbol string, tf Timeframe, count int) ([]Candle, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	s := cs.series[seriesKey(symbol, tf)]
	if count > 0 && len(s) > count {
		s = s[len(s)-count:]
	}
	out := make([]Candle, len(s))
	copy(out, s)
	return out, nil
}

// LoadCandlesCSV reads candle rows of the form:
//
//	time,open,high,low,close
//
// where time is RFC3339. A header row starting with "time" is allowed,
// empty or short rows are skipped.
func LoadCandlesCSV(path string) ([]Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var (
		out      []Candle
		sawFirst bool
	)
	for {
		row, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}

		// Allow a single header row
		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		c, ok, err := parseCandleRow(row)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, c)
	}
}

func parseCandleRow(row []string) (Candle, bool, error) {
	if len(row) < 5 {
		return Candle{}, false, nil
	}

	ts := strings.TrimSpace(row[0])
	if ts == "" {
		return Candle{}, false, nil
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return Candle{}, false, fmt.Errorf("bad time %q: %w", ts, err)
	}

	vals := make([]float64, 4)
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return Candle{}, false, fmt.Errorf("bad field %q: %w", row[i+1], err)
		}
		vals[i] = v
	}

	return Candle{Time: t, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3]}, true, nil
}
