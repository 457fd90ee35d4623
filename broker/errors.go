package broker

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable marks connectivity or auth failures talking to the
// terminal. Recoverable by reconnecting; never retried mid-cycle.
var ErrUnavailable = errors.New("terminal unavailable")

// RejectReason is the machine-readable cause of a broker-side order
// rejection, adapted from the terminal's return code table.
type RejectReason int

const (
	RejectNone RejectReason = iota
	RejectRequote
	RejectRefused
	RejectCancelled
	RejectNoConnection
	RejectTimeout
	RejectInvalidRequest
	RejectInvalidVolume
	RejectInvalidPrice
	RejectInvalidStops
	RejectInvalidTarget
	RejectMarketClosed
	RejectInsufficientFunds
	RejectTooManyOrders
	RejectTradeDisabled
	RejectPositionNotFound
	RejectSymbolUnavailable
)

var rejectDescriptions = map[RejectReason]string{
	RejectRequote:           "requote - price changed before execution",
	RejectRefused:           "request refused by broker",
	RejectCancelled:         "order cancelled",
	RejectNoConnection:      "no connection to trade server",
	RejectTimeout:           "request timed out",
	RejectInvalidRequest:    "invalid order parameters",
	RejectInvalidVolume:     "invalid volume",
	RejectInvalidPrice:      "invalid price",
	RejectInvalidStops:      "invalid stop loss - check the distance",
	RejectInvalidTarget:     "invalid take profit",
	RejectMarketClosed:      "market closed",
	RejectInsufficientFunds: "insufficient funds",
	RejectTooManyOrders:     "order limit reached",
	RejectTradeDisabled:     "trading disabled - enable it in the terminal",
	RejectPositionNotFound:  "position not found",
	RejectSymbolUnavailable: "symbol not available for trading",
}

// Description returns a human-readable explanation for logs.
func (r RejectReason) Description() string {
	if r == RejectNone {
		return "ok"
	}
	if d, ok := rejectDescriptions[r]; ok {
		return d
	}
	return fmt.Sprintf("unknown rejection (code %d)", int(r))
}

// DialFunc establishes one connection attempt to a terminal.
type DialFunc func(ctx context.Context) (Gateway, error)

// Connect dials the terminal with retries and a fixed backoff. Retry
// happens only here, at connection-establishment time; a terminal that
// cannot be reached after all attempts is a fatal startup condition.
func Connect(ctx context.Context, dial DialFunc, attempts int, backoff time.Duration) (Gateway, error) {
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		gw, err := dial(ctx)
		if err == nil {
			return gw, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("connect terminal after %d attempts: %w", attempts, lastErr)
}
