package engine

import (
	"context"

	"github.com/fxcycle/trader/broker"
	"github.com/fxcycle/trader/market"
)

// maintainStops runs the trailing ratchet over the open book. A stop
// only ever tightens: it rises for buys and falls for sells, trailing
// the current price by TrailStopPips once a position's floating profit
// exceeds TrailActivation. Returns the number of stops moved.
func (e *Engine) maintainStops(ctx context.Context, positions []broker.Position) int {
	adjusted := 0
	for _, p := range positions {
		if p.UnrealizedPL <= e.cfg.TrailActivation {
			continue
		}
		meta, ok := market.Lookup(p.Symbol)
		if !ok {
			continue
		}
		dist := e.cfg.TrailStopPips * meta.PipSize()

		var candidate float64
		if p.Side == broker.Buy {
			candidate = p.CurrentPrice - dist
			if candidate <= p.StopLoss {
				continue
			}
		} else {
			candidate = p.CurrentPrice + dist
			if p.StopLoss != 0 && candidate >= p.StopLoss {
				continue
			}
		}

		if err := e.gw.ModifyStop(ctx, p.Ticket, candidate); err != nil {
			e.logf("cycle %d: trail %s %s: %v", e.cycle, p.Symbol, p.Ticket, err)
			continue
		}
		adjusted++
	}
	return adjusted
}
