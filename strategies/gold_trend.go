package strategies

import (
	"context"

	"github.com/fxcycle/trader/broker"
	"github.com/fxcycle/trader/indicators"
	"github.com/fxcycle/trader/market"
)

// GoldTrend follows the 50/200 SMA trend on H1 gold candles with fixed
// currency-unit stops. Emits at most one proposal per pass, in the
// direction of the prevailing trend.
type GoldTrend struct {
	symbol     string
	timeframe  market.Timeframe
	lookback   int
	stopDist   float64
	targetDist float64
}

func NewGoldTrend(symbol string) *GoldTrend {
	return &GoldTrend{
		symbol:     symbol,
		timeframe:  market.H1,
		lookback:   250,
		stopDist:   5.0,
		targetDist: 8.0,
	}
}

func (g *GoldTrend) Name() string { return "gold_trend" }

func (g *GoldTrend) Generate(ctx context.Context, src market.CandleSource) ([]Proposal, error) {
	candles, err := src.GetCandles(ctx, g.symbol, g.timeframe, g.lookback)
	if err != nil {
		return nil, err
	}
	if len(candles) < 200 {
		return nil, nil
	}

	sma50, err := indicators.SMA(candles, 50)
	if err != nil {
		return nil, err
	}
	sma200, err := indicators.SMA(candles, 200)
	if err != nil {
		return nil, err
	}

	last := candles[len(candles)-1].Close

	if sma50 > sma200 {
		return []Proposal{{
			Symbol:     g.symbol,
			Side:       broker.Buy,
			StopLoss:   last - g.stopDist,
			TakeProfit: last + g.targetDist,
			Confidence: 0.75,
			Source:     g.Name(),
		}}, nil
	}

	return []Proposal{{
		Symbol:     g.symbol,
		Side:       broker.Sell,
		StopLoss:   last + g.stopDist,
		TakeProfit: last - g.targetDist,
		Confidence: 0.75,
		Source:     g.Name(),
	}}, nil
}
