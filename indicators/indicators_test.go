package indicators

import (
	"testing"

	"github.com/fxcycle/trader/market"
	"github.com/stretchr/testify/assert"
)

func createTestCandles() []market.Candle {
	return []market.Candle{
		{Open: 100, High: 105, Low: 99, Close: 102},
		{Open: 102, High: 107, Low: 101, Close: 105},
		{Open: 105, High: 108, Low: 104, Close: 106},
		{Open: 106, High: 110, Low: 105, Close: 108},
		{Open: 108, High: 112, Low: 107, Close: 110},
		{Open: 110, High: 113, Low: 109, Close: 111},
		{Open: 111, High: 115, Low: 110, Close: 113},
		{Open: 113, High: 116, Low: 112, Close: 114},
		{Open: 114, High: 118, Low: 113, Close: 116},
		{Open: 116, High: 120, Low: 115, Close: 118},
	}
}

func TestSMA(t *testing.T) {
	candles := createTestCandles()

	sma, err := SMA(candles, 5)
	assert.NoError(t, err)
	// Last 5 closes: 111,113,114,116,118 => 572/5 = 114.4
	assert.InDelta(t, 114.4, sma, 0.001)
}

func TestSMANotEnoughCandles(t *testing.T) {
	_, err := SMA(createTestCandles(), 11)
	assert.Error(t, err)
}

func TestEMA(t *testing.T) {
	candles := createTestCandles()

	ema, err := EMA(candles, 5)
	assert.NoError(t, err)
	assert.Greater(t, ema, 0.0)
	// Rising closes: EMA should sit between the seed SMA and the last close.
	assert.Less(t, ema, 118.0)
	assert.Greater(t, ema, 105.2)
}

func TestRSIAllGains(t *testing.T) {
	// Monotonically rising closes have no losses => RSI = 100.
	rsi, err := RSI(createTestCandles(), 5)
	assert.NoError(t, err)
	assert.InDelta(t, 100.0, rsi, 1e-9)
}

func TestRSIBalanced(t *testing.T) {
	candles := []market.Candle{
		{Close: 100}, {Close: 101}, {Close: 100}, {Close: 101},
		{Close: 100}, {Close: 101}, {Close: 100},
	}
	rsi, err := RSI(candles, 6)
	assert.NoError(t, err)
	// Equal gains and losses => RSI = 50.
	assert.InDelta(t, 50.0, rsi, 0.001)
}

func TestRSINotEnoughCandles(t *testing.T) {
	_, err := RSI(createTestCandles(), 14)
	assert.Error(t, err)
}

func TestATRDetailed(t *testing.T) {
	candles := []market.Candle{
		{High: 10, Low: 8, Close: 9},
		{High: 11, Low: 9, Close: 10},
		{High: 12, Low: 10, Close: 11},
		{High: 11, Low: 9, Close: 10},
		{High: 12, Low: 10, Close: 11},
		{High: 13, Low: 11, Close: 12},
	}
	atr, err := ATR(candles, 3)
	assert.NoError(t, err)
	assert.InDelta(t, 2.0, atr, 1e-9)
}

func TestTrueRange(t *testing.T) {
	current := market.Candle{High: 110, Low: 100, Close: 105}
	previous := market.Candle{Close: 104}
	tr := trueRange(current, previous)
	assert.InDelta(t, 10.0, tr, 1e-9)
}

func TestDonchian(t *testing.T) {
	candles := createTestCandles()

	high, low, err := Donchian(candles, 5)
	assert.NoError(t, err)
	assert.InDelta(t, 120.0, high, 1e-9)
	assert.InDelta(t, 109.0, low, 1e-9)
}

func TestDonchianNotEnoughCandles(t *testing.T) {
	_, _, err := Donchian(createTestCandles()[:3], 5)
	assert.Error(t, err)
}
