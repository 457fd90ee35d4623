package strategies

import (
	"context"

	"github.com/fxcycle/trader/broker"
	"github.com/fxcycle/trader/indicators"
	"github.com/fxcycle/trader/market"
)

// Turtle trades 20-bar Donchian channel breakouts on H1 candles with
// ATR-scaled stops: 2*ATR behind the entry, 3*ATR for the target.
type Turtle struct {
	symbols   []string
	timeframe market.Timeframe
	lookback  int

	channelPeriod int
	atrPeriod     int
}

func NewTurtle(symbols []string) *Turtle {
	if len(symbols) == 0 {
		symbols = []string{"EURUSD", "GBPUSD", "XAUUSD"}
	}
	return &Turtle{
		symbols:       symbols,
		timeframe:     market.H1,
		lookback:      100,
		channelPeriod: 20,
		atrPeriod:     14,
	}
}

func (t *Turtle) Name() string { return "turtle" }

func (t *Turtle) Generate(ctx context.Context, src market.CandleSource) ([]Proposal, error) {
	var out []Proposal

	for _, symbol := range t.symbols {
		candles, err := src.GetCandles(ctx, symbol, t.timeframe, t.lookback)
		if err != nil || len(candles) < 55 {
			continue
		}

		atr, err := indicators.ATR(candles, t.atrPeriod)
		if err != nil || atr <= 0 {
			continue
		}

		// Channel over the bars before the current one, so a breakout
		// compares the latest close against prior extremes.
		prior := candles[:len(candles)-1]
		high, low, err := indicators.Donchian(prior, t.channelPeriod)
		if err != nil {
			continue
		}

		last := candles[len(candles)-1].Close

		switch {
		case last > high:
			out = append(out, Proposal{
				Symbol:     symbol,
				Side:       broker.Buy,
				StopLoss:   last - atr*2,
				TakeProfit: last + atr*3,
				Confidence: 0.8,
				Source:     t.Name(),
			})
		case last < low:
			out = append(out, Proposal{
				Symbol:     symbol,
				Side:       broker.Sell,
				StopLoss:   last + atr*2,
				TakeProfit: last - atr*3,
				Confidence: 0.8,
				Source:     t.Name(),
			})
		}
	}

	return out, nil
}
