package strategies

import (
	"context"
	"fmt"

	"github.com/fxcycle/trader/broker"
	"github.com/fxcycle/trader/market"
)

// Proposal is one strategy's request to open a position. Stops and
// targets are absolute prices; a zero StopLoss is invalid and will be
// rejected downstream. Proposals are consumed once and never retried.
type Proposal struct {
	Symbol     string
	Side       broker.Side
	StopLoss   float64
	TakeProfit float64
	Confidence float64 // in [0,1]
	Source     string  // strategy name
}

// Strategy maps a candle window to zero or more trade proposals. All
// strategies share this one signature; per-strategy state (symbol
// lists, lookback windows) is constructor configuration. A returned
// error is isolated by the caller and never aborts other strategies.
type Strategy interface {
	Name() string
	Generate(ctx context.Context, src market.CandleSource) ([]Proposal, error)
}

// New builds a strategy by config name. The order in which configs are
// listed is the engine's priority order.
func New(name string, symbols []string) (Strategy, error) {
	switch name {
	case "scalper":
		return NewScalper(symbols), nil
	case "gold_trend":
		sym := "XAUUSD"
		if len(symbols) > 0 {
			sym = symbols[0]
		}
		return NewGoldTrend(sym), nil
	case "turtle":
		return NewTurtle(symbols), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}
