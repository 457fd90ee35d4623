package strategies

import (
	"context"
	"strings"

	"github.com/fxcycle/trader/broker"
	"github.com/fxcycle/trader/indicators"
	"github.com/fxcycle/trader/market"
)

// Scalper trades short-term EMA alignment on M5 candles, filtered by
// an RSI band that skips overbought/oversold extremes. At most two
// proposals per pass, the tightest-quality signals only.
type Scalper struct {
	symbols   []string
	timeframe market.Timeframe
	lookback  int

	fastPeriod int
	slowPeriod int
	rsiPeriod  int
}

func NewScalper(symbols []string) *Scalper {
	if len(symbols) == 0 {
		symbols = []string{"EURUSD", "GBPUSD", "USDJPY"}
	}
	return &Scalper{
		symbols:    symbols,
		timeframe:  market.M5,
		lookback:   100,
		fastPeriod: 8,
		slowPeriod: 21,
		rsiPeriod:  14,
	}
}

func (s *Scalper) Name() string { return "scalper" }

func (s *Scalper) Generate(ctx context.Context, src market.CandleSource) ([]Proposal, error) {
	var out []Proposal

	for _, symbol := range s.symbols {
		if len(out) >= 2 {
			break
		}

		candles, err := src.GetCandles(ctx, symbol, s.timeframe, s.lookback)
		if err != nil || len(candles) < 50 {
			continue
		}

		fast, err := indicators.EMA(candles, s.fastPeriod)
		if err != nil {
			continue
		}
		slow, err := indicators.EMA(candles, s.slowPeriod)
		if err != nil {
			continue
		}
		rsi, err := indicators.RSI(candles, s.rsiPeriod)
		if err != nil {
			continue
		}

		last := candles[len(candles)-1].Close

		switch {
		case fast > slow && rsi > 40 && rsi < 65:
			stop, target := scalperStops(symbol, last, broker.Buy)
			out = append(out, Proposal{
				Symbol:     symbol,
				Side:       broker.Buy,
				StopLoss:   stop,
				TakeProfit: target,
				Confidence: 0.8,
				Source:     s.Name(),
			})
		case fast < slow && rsi > 35 && rsi < 60:
			stop, target := scalperStops(symbol, last, broker.Sell)
			out = append(out, Proposal{
				Symbol:     symbol,
				Side:       broker.Sell,
				StopLoss:   stop,
				TakeProfit: target,
				Confidence: 0.8,
				Source:     s.Name(),
			})
		}
	}

	return out, nil
}

// scalperStops places a 25 pip stop and 35 pip target around the
// reference price; JPY pairs use the wider 0.01 pip and 30/45.
func scalperStops(symbol string, price float64, side broker.Side) (stop, target float64) {
	stopDist, targetDist := 0.0025, 0.0035
	if strings.Contains(symbol, "JPY") {
		stopDist, targetDist = 0.30, 0.45
	}
	if side == broker.Buy {
		return price - stopDist, price + targetDist
	}
	return price + stopDist, price - targetDist
}
