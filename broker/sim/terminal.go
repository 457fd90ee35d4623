// Package sim implements broker.Gateway against an in-memory terminal.
// It fills market orders at the current bid/ask, triggers stops and
// targets on tick updates, and revalues the account the way the live
// terminal would. Tests and the demo command run against it.
package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fxcycle/trader/broker"
	"github.com/fxcycle/trader/market"
	"github.com/fxcycle/trader/pkg/id"
)

type Terminal struct {
	mu    sync.Mutex
	acct  broker.Account
	ticks *market.TickStore
	open  map[string]*trade
	order []string // tickets in open order, for deterministic listings

	// test hooks
	unavailable bool
	rejectNext  broker.RejectReason
}

type trade struct {
	ticket     string
	symbol     string
	side       broker.Side
	volume     float64
	openPrice  float64
	stopLoss   float64
	takeProfit float64
	openTime   time.Time
}

func NewTerminal(acct broker.Account) *Terminal {
	return &Terminal{
		acct:  acct,
		ticks: market.NewTickStore(),
		open:  make(map[string]*trade),
	}
}

// SetUnavailable makes every gateway call fail with ErrUnavailable,
// simulating a lost terminal connection.
func (t *Terminal) SetUnavailable(v bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.unavailable = v
}

// RejectNext makes the next SubmitOrder come back as a broker-side
// rejection with the given reason.
func (t *Terminal) RejectNext(r broker.RejectReason) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rejectNext = r
}

// SetTick publishes a quote and applies stop/target triggers to open
// positions on that symbol, closing them at the trigger price.
func (t *Terminal) SetTick(tick market.Tick) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ticks.Set(tick)

	for _, ticket := range append([]string(nil), t.order...) {
		tr, ok := t.open[ticket]
		if !ok || tr.symbol != tick.Symbol {
			continue
		}

		mark := tick.Bid
		if tr.side == broker.Sell {
			mark = tick.Ask
		}

		switch {
		case tr.hitStopLoss(mark):
			t.closeLocked(tr, tr.stopLoss)
		case tr.hitTakeProfit(mark):
			t.closeLocked(tr, tr.takeProfit)
		}
	}
}

func (tr *trade) hitStopLoss(mark float64) bool {
	if tr.stopLoss == 0 {
		return false
	}
	if tr.side == broker.Buy {
		return mark <= tr.stopLoss
	}
	return mark >= tr.stopLoss
}

func (tr *trade) hitTakeProfit(mark float64) bool {
	if tr.takeProfit == 0 {
		return false
	}
	if tr.side == broker.Buy {
		return mark >= tr.takeProfit
	}
	return mark <= tr.takeProfit
}

func (t *Terminal) GetAccount(ctx context.Context) (broker.Account, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.unavailable {
		return broker.Account{}, fmt.Errorf("get account: %w", broker.ErrUnavailable)
	}

	acct := t.acct
	acct.Equity = t.acct.Balance + t.floatingLocked()
	acct.MarginFree = acct.Equity
	return acct, nil
}

func (t *Terminal) GetPositions(ctx context.Context) ([]broker.Position, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.unavailable {
		return nil, fmt.Errorf("get positions: %w", broker.ErrUnavailable)
	}

	out := make([]broker.Position, 0, len(t.open))
	for _, ticket := range t.order {
		tr, ok := t.open[ticket]
		if !ok {
			continue
		}
		mark, pl := t.markLocked(tr)
		out = append(out, broker.Position{
			Ticket:       tr.ticket,
			Symbol:       tr.symbol,
			Side:         tr.side,
			Volume:       tr.volume,
			OpenPrice:    tr.openPrice,
			CurrentPrice: mark,
			StopLoss:     tr.stopLoss,
			TakeProfit:   tr.takeProfit,
			UnrealizedPL: pl,
			OpenTime:     tr.openTime,
		})
	}
	return out, nil
}

func (t *Terminal) GetTick(ctx context.Context, symbol string) (market.Tick, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.unavailable {
		return market.Tick{}, fmt.Errorf("get tick: %w", broker.ErrUnavailable)
	}
	return t.ticks.Get(symbol)
}

func (t *Terminal) SubmitOrder(ctx context.Context, req broker.OrderRequest) (broker.OrderResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.unavailable {
		return broker.OrderResult{}, fmt.Errorf("submit order: %w", broker.ErrUnavailable)
	}
	if t.rejectNext != broker.RejectNone {
		r := t.rejectNext
		t.rejectNext = broker.RejectNone
		return broker.OrderResult{Success: false, Reject: r}, nil
	}

	meta, ok := market.Lookup(req.Symbol)
	if !ok {
		return broker.OrderResult{Success: false, Reject: broker.RejectSymbolUnavailable}, nil
	}
	if req.Volume < meta.MinLot || req.Volume > meta.MaxLot {
		return broker.OrderResult{Success: false, Reject: broker.RejectInvalidVolume}, nil
	}

	tick, err := t.ticks.Get(req.Symbol)
	if err != nil {
		return broker.OrderResult{}, fmt.Errorf("submit order: %w", broker.ErrUnavailable)
	}

	fill := tick.Ask
	if req.Side == broker.Sell {
		fill = tick.Bid
	}

	tr := &trade{
		ticket:     id.New(),
		symbol:     req.Symbol,
		side:       req.Side,
		volume:     req.Volume,
		openPrice:  fill,
		stopLoss:   req.StopLoss,
		takeProfit: req.TakeProfit,
		openTime:   tick.Time,
	}
	t.open[tr.ticket] = tr
	t.order = append(t.order, tr.ticket)

	return broker.OrderResult{Success: true, OrderID: tr.ticket, FilledPrice: fill}, nil
}

func (t *Terminal) ModifyStop(ctx context.Context, ticket string, newStop float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.unavailable {
		return fmt.Errorf("modify stop: %w", broker.ErrUnavailable)
	}
	tr, ok := t.open[ticket]
	if !ok {
		return fmt.Errorf("modify stop: position %q not found", ticket)
	}
	tr.stopLoss = newStop
	return nil
}

func (t *Terminal) ClosePosition(ctx context.Context, ticket string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.unavailable {
		return fmt.Errorf("close position: %w", broker.ErrUnavailable)
	}
	tr, ok := t.open[ticket]
	if !ok {
		return fmt.Errorf("close position: %q not found", ticket)
	}

	mark, _ := t.markLocked(tr)
	if mark == 0 {
		return fmt.Errorf("close position: no price for %q", tr.symbol)
	}
	t.closeLocked(tr, mark)
	return nil
}

func (t *Terminal) CloseAll(ctx context.Context) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.unavailable {
		return 0, fmt.Errorf("close all: %w", broker.ErrUnavailable)
	}

	closed := 0
	for _, ticket := range append([]string(nil), t.order...) {
		tr, ok := t.open[ticket]
		if !ok {
			continue
		}
		mark, _ := t.markLocked(tr)
		if mark == 0 {
			continue
		}
		t.closeLocked(tr, mark)
		closed++
	}
	return closed, nil
}

// closeLocked realizes PnL at the given price and removes the trade.
func (t *Terminal) closeLocked(tr *trade, price float64) {
	t.acct.Balance += t.plLocked(tr, price)
	delete(t.open, tr.ticket)
	for i, tk := range t.order {
		if tk == tr.ticket {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// markLocked returns the close-side price and unrealized PnL for a trade.
func (t *Terminal) markLocked(tr *trade) (float64, float64) {
	tick, err := t.ticks.Get(tr.symbol)
	if err != nil {
		return 0, 0
	}
	mark := tick.Bid
	if tr.side == broker.Sell {
		mark = tick.Ask
	}
	return mark, t.plLocked(tr, mark)
}

func (t *Terminal) plLocked(tr *trade, price float64) float64 {
	meta, ok := market.Lookup(tr.symbol)
	if !ok {
		return 0
	}
	plQuote := tr.side.Sign() * (price - tr.openPrice) * tr.volume * meta.ContractSize
	return plQuote * t.quoteToAccountLocked(tr.symbol, meta)
}

// quoteToAccountLocked converts quote-currency PnL to the account
// currency. USD-quoted symbols on a USD account convert 1:1; JPY
// quotes convert through the symbol's own mid.
func (t *Terminal) quoteToAccountLocked(symbol string, meta market.InstrumentMeta) float64 {
	if meta.QuoteCcy == t.acct.Currency {
		return 1.0
	}
	tick, err := t.ticks.Get(symbol)
	if err != nil || tick.Mid() == 0 {
		return 1.0
	}
	return 1.0 / tick.Mid()
}

func (t *Terminal) floatingLocked() float64 {
	total := 0.0
	for _, tr := range t.open {
		_, pl := t.markLocked(tr)
		total += pl
	}
	return total
}
