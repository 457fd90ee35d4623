package broker

import (
	"context"
	"time"

	"github.com/fxcycle/trader/market"
)

// Gateway is the broker terminal the bot trades through. It is the
// authoritative source of truth for account state and open exposure;
// callers re-fetch positions every cycle and never cache them.
//
// All calls are synchronous. Transient connectivity failures surface
// as errors wrapping ErrUnavailable; broker-side order rejections come
// back inside OrderResult with a RejectReason.
type Gateway interface {
	market.TickSource

	GetAccount(ctx context.Context) (Account, error)
	GetPositions(ctx context.Context) ([]Position, error)
	SubmitOrder(ctx context.Context, req OrderRequest) (OrderResult, error)
	ModifyStop(ctx context.Context, ticket string, newStop float64) error
	ClosePosition(ctx context.Context, ticket string) error
	CloseAll(ctx context.Context) (int, error)
}

type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Sell {
		return "SELL"
	}
	return "BUY"
}

// Sign returns +1 for Buy and -1 for Sell, the direction profit moves
// with price.
func (s Side) Sign() float64 {
	if s == Sell {
		return -1
	}
	return 1
}

type Account struct {
	Currency   string
	Balance    float64
	Equity     float64
	MarginFree float64
}

// Position is owned by the terminal; ticket is an opaque identifier.
type Position struct {
	Ticket       string
	Symbol       string
	Side         Side
	Volume       float64
	OpenPrice    float64
	CurrentPrice float64
	StopLoss     float64
	TakeProfit   float64
	UnrealizedPL float64
	OpenTime     time.Time
}

// OrderRequest is sent at most once; a failed submission is never
// implicitly resubmitted.
type OrderRequest struct {
	Symbol     string
	Side       Side
	Volume     float64
	Price      float64
	StopLoss   float64
	TakeProfit float64
	Deviation  int // max accepted slippage, in points
	ClientTag  string
	Strategy   string
}

// OrderResult is the terminal outcome of one OrderRequest. Reject is
// RejectNone on success.
type OrderResult struct {
	Success     bool
	OrderID     string
	FilledPrice float64
	Reject      RejectReason
}
