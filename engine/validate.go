package engine

import (
	"errors"

	"github.com/fxcycle/trader/broker"
	"github.com/fxcycle/trader/market"
	"github.com/fxcycle/trader/strategies"
)

var (
	errNoStop      = errors.New("proposal carries no stop loss")
	errStopSide    = errors.New("stop loss on wrong side of entry price")
	errTargetSide  = errors.New("take profit on wrong side of entry price")
	errUnknownSide = errors.New("unknown order side")
)

// validate checks a proposal against the live quote before it becomes
// an order. Stops are mandatory and must sit strictly on the losing
// side of the entry: below the ask for buys, above the bid for sells.
// A take profit is optional but, when present, must sit strictly on
// the winning side.
func validate(p strategies.Proposal, tick market.Tick) error {
	if p.StopLoss == 0 {
		return errNoStop
	}

	switch p.Side {
	case broker.Buy:
		if p.StopLoss >= tick.Ask {
			return errStopSide
		}
		if p.TakeProfit != 0 && p.TakeProfit <= tick.Ask {
			return errTargetSide
		}
	case broker.Sell:
		if p.StopLoss <= tick.Bid {
			return errStopSide
		}
		if p.TakeProfit != 0 && p.TakeProfit >= tick.Bid {
			return errTargetSide
		}
	default:
		return errUnknownSide
	}

	return nil
}
