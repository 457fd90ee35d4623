package indicators

import (
	"fmt"

	"github.com/fxcycle/trader/market"
)

// Donchian returns the highest high and lowest low over the most
// recent period candles (the Donchian channel bounds).
func Donchian(candles []market.Candle, period int) (high, low float64, err error) {
	if period <= 0 {
		return 0, 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(candles) < period {
		return 0, 0, fmt.Errorf("not enough candles: need %d, got %d", period, len(candles))
	}

	start := len(candles) - period
	high = candles[start].High
	low = candles[start].Low
	for i := start + 1; i < len(candles); i++ {
		if candles[i].High > high {
			high = candles[i].High
		}
		if candles[i].Low < low {
			low = candles[i].Low
		}
	}
	return high, low, nil
}
