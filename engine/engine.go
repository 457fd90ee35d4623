// Package engine orchestrates the trading cycle: it pulls account and
// position state from the broker terminal, asks the risk guard for a
// verdict, polls signal strategies under a per-cycle trade quota,
// validates and submits orders, and records outcomes.
package engine

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/fxcycle/trader/broker"
	"github.com/fxcycle/trader/journal"
	"github.com/fxcycle/trader/market"
	"github.com/fxcycle/trader/perf"
	"github.com/fxcycle/trader/pkg/id"
	"github.com/fxcycle/trader/risk"
	"github.com/fxcycle/trader/strategies"
)

type Config struct {
	RiskFraction      float64
	MaxTradesPerCycle int
	CycleInterval     time.Duration
	Deviation         int // max accepted slippage on submissions, in points

	// TrailActivation is the unrealized profit, in account currency,
	// at which the trailing ratchet arms for a position.
	TrailActivation float64
	// TrailStopPips is the distance kept between the current price and
	// the ratcheted stop.
	TrailStopPips float64

	// FallbackLot is traded when instrument metadata is missing and
	// risk-based sizing is impossible.
	FallbackLot float64
}

func DefaultConfig() Config {
	return Config{
		RiskFraction:      0.02,
		MaxTradesPerCycle: 3,
		CycleInterval:     120 * time.Second,
		Deviation:         50,
		TrailActivation:   5.0,
		TrailStopPips:     20,
		FallbackLot:       0.01,
	}
}

type Engine struct {
	gw      broker.Gateway
	candles market.CandleSource
	strats  []strategies.Strategy
	policy  risk.Policy
	cfg     Config

	journal journal.Journal // optional
	tracker *perf.Tracker   // optional
	logger  *log.Logger
	now     func() time.Time

	cycle int

	// Bookkeeping of our own submissions, so closes that happen broker
	// side (stop/target fills, invisible until the next fetch) can be
	// attributed back to a strategy. This is not a cache of the
	// position set; the terminal stays authoritative.
	tickets map[string]string  // ticket -> strategy
	lastPL  map[string]float64 // ticket -> last observed unrealized PnL
}

func New(gw broker.Gateway, candles market.CandleSource, strats []strategies.Strategy, policy risk.Policy, cfg Config) *Engine {
	if cfg.MaxTradesPerCycle <= 0 {
		cfg.MaxTradesPerCycle = DefaultConfig().MaxTradesPerCycle
	}
	if cfg.CycleInterval <= 0 {
		cfg.CycleInterval = DefaultConfig().CycleInterval
	}
	if cfg.FallbackLot <= 0 {
		cfg.FallbackLot = DefaultConfig().FallbackLot
	}
	return &Engine{
		gw:      gw,
		candles: candles,
		strats:  strats,
		policy:  policy,
		cfg:     cfg,
		logger:  log.New(os.Stderr, "", log.LstdFlags),
		now:     time.Now,
		tickets: make(map[string]string),
		lastPL:  make(map[string]float64),
	}
}

func (e *Engine) SetJournal(j journal.Journal) { e.journal = j }

func (e *Engine) SetTracker(t *perf.Tracker) { e.tracker = t }

func (e *Engine) SetLogger(l *log.Logger) { e.logger = l }

// SetClock overrides the engine's time source.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// Run executes cycles on a fixed wall-clock interval until the context
// is cancelled. Cancellation is honored between cycles only; an order
// request in flight inside a cycle completes or fails before return.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.cfg.CycleInterval)
	defer ticker.Stop()

	for {
		rep := e.Cycle(ctx)
		e.logf("cycle %d: %s", rep.Cycle, rep.Summary())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Cycle runs one evaluation pass. It never returns an error: failures
// inside a cycle are isolated and reported, never escalated.
func (e *Engine) Cycle(ctx context.Context) Report {
	e.cycle++
	rep := Report{Cycle: e.cycle}

	acct, err := e.gw.GetAccount(ctx)
	if err != nil {
		// No account data means no risk verdict. Skip this cycle;
		// unavailability is never treated as "drawdown safe".
		e.logf("cycle %d: account fetch failed, holding: %v", e.cycle, err)
		rep.State = Holding
		rep.Note = "account snapshot unavailable"
		return rep
	}

	positions, err := e.gw.GetPositions(ctx)
	if err != nil {
		e.logf("cycle %d: position fetch failed, holding: %v", e.cycle, err)
		rep.State = Holding
		rep.Note = "positions unavailable"
		return rep
	}

	rep.fetched = true
	rep.Balance = acct.Balance
	rep.Equity = acct.Equity
	rep.MarginFree = acct.MarginFree
	rep.OpenPositions = len(positions)

	e.settleClosed(positions)

	rep.Verdict = risk.Evaluate(e.policy, acct, len(positions), e.now())
	switch rep.Verdict {
	case risk.FlattenAndStop:
		n, err := e.gw.CloseAll(ctx)
		if err != nil {
			e.logf("cycle %d: close all failed: %v", e.cycle, err)
		}
		rep.ClosedByRisk = n
		rep.State = Stopped

	case risk.HoldNewEntries:
		// New entries pause; protective maintenance of the existing
		// book still runs.
		rep.StopsAdjusted = e.maintainStops(ctx, positions)
		rep.State = Holding
		rep.Note = "position ceiling reached"

	default:
		rep.StopsAdjusted = e.maintainStops(ctx, positions)
		e.generate(ctx, acct, positions, &rep)
		rep.State = Completed
	}

	e.record(&rep)
	return rep
}

// generate polls strategies in priority order under the per-cycle
// quota. A strategy error is logged and isolated; it never aborts the
// cycle or the remaining strategies.
func (e *Engine) generate(ctx context.Context, acct broker.Account, positions []broker.Position, rep *Report) {
	held := make(map[string]bool, len(positions))
	for _, p := range positions {
		held[p.Symbol] = true
	}

	for _, s := range e.strats {
		if rep.Submitted >= e.cfg.MaxTradesPerCycle {
			return
		}

		proposals, err := s.Generate(ctx, e.candles)
		if err != nil {
			e.logf("cycle %d: strategy %s: %v", e.cycle, s.Name(), err)
			continue
		}

		for _, p := range proposals {
			if rep.Submitted >= e.cfg.MaxTradesPerCycle {
				return
			}
			rep.Proposals++

			if held[p.Symbol] {
				rep.Dropped++
				e.logf("cycle %d: %s %s dropped: position already open", e.cycle, p.Source, p.Symbol)
				continue
			}

			if e.submit(ctx, acct, p, rep) {
				held[p.Symbol] = true
			}
		}
	}
}

// submit validates one proposal and sends at most one order request.
// Returns true when the request produced an open position.
func (e *Engine) submit(ctx context.Context, acct broker.Account, p strategies.Proposal, rep *Report) bool {
	tick, err := e.gw.GetTick(ctx, p.Symbol)
	if err != nil {
		rep.Dropped++
		e.logf("cycle %d: %s %s dropped: no tick: %v", e.cycle, p.Source, p.Symbol, err)
		return false
	}

	if err := validate(p, tick); err != nil {
		rep.Dropped++
		e.logf("cycle %d: %s %s dropped: %v", e.cycle, p.Source, p.Symbol, err)
		return false
	}

	ref := tick.Ask
	if p.Side == broker.Sell {
		ref = tick.Bid
	}

	meta, ok := market.Lookup(p.Symbol)
	var volume float64
	if !ok {
		// Sizing lookup miss is non-fatal: trade the fallback lot.
		volume = e.cfg.FallbackLot
		e.logf("cycle %d: %s %s: no instrument metadata, using %.2f lots", e.cycle, p.Source, p.Symbol, volume)
	} else {
		volume = risk.Volume(risk.SizeInputs{
			Balance:      acct.Balance,
			RiskFraction: e.cfg.RiskFraction,
			Entry:        ref,
			Stop:         p.StopLoss,
			Meta:         meta,
		})
	}

	req := broker.OrderRequest{
		Symbol:     p.Symbol,
		Side:       p.Side,
		Volume:     volume,
		Price:      ref,
		StopLoss:   p.StopLoss,
		TakeProfit: p.TakeProfit,
		Deviation:  e.cfg.Deviation,
		ClientTag:  newClientTag(),
		Strategy:   p.Source,
	}

	res, err := e.gw.SubmitOrder(ctx, req)

	// The request was sent either way; it consumed a quota slot.
	rep.Submitted++
	if e.tracker != nil {
		e.tracker.RecordSubmission(p.Source)
	}

	rec := journal.OrderRecord{
		ClientTag:  req.ClientTag,
		Strategy:   p.Source,
		Symbol:     p.Symbol,
		Side:       p.Side.String(),
		Volume:     volume,
		Price:      ref,
		StopLoss:   p.StopLoss,
		TakeProfit: p.TakeProfit,
		Time:       e.now(),
	}

	switch {
	case err != nil:
		rec.Reject = "gateway error: " + err.Error()
		e.logf("cycle %d: %s %s order failed: %v", e.cycle, p.Source, p.Symbol, err)
	case !res.Success:
		rec.Reject = res.Reject.Description()
		e.logf("cycle %d: %s %s rejected: %s", e.cycle, p.Source, p.Symbol, res.Reject.Description())
	default:
		rec.OrderID = res.OrderID
		rec.Success = true
		rep.Executed++
		e.tickets[res.OrderID] = p.Source
		e.logf("cycle %d: %s %s %s %.2f lots @ %.5f (spread %.5f) sl %.5f tp %.5f",
			e.cycle, p.Source, p.Side, p.Symbol, volume, res.FilledPrice, tick.Spread(), p.StopLoss, p.TakeProfit)
	}

	if e.journal != nil {
		if jerr := e.journal.RecordOrder(rec); jerr != nil {
			e.logf("cycle %d: journal order: %v", e.cycle, jerr)
		}
	}

	return rec.Success
}

// settleClosed compares the fresh position set against our submitted
// tickets and reports broker-side closes to the performance tracker,
// using the last floating PnL observed before the position vanished.
func (e *Engine) settleClosed(positions []broker.Position) {
	current := make(map[string]bool, len(positions))
	for _, p := range positions {
		current[p.Ticket] = true
		if _, ours := e.tickets[p.Ticket]; ours {
			e.lastPL[p.Ticket] = p.UnrealizedPL
		}
	}

	for ticket, strategy := range e.tickets {
		if current[ticket] {
			continue
		}
		if e.tracker != nil {
			if err := e.tracker.RecordClosedTrade(strategy, e.lastPL[ticket]); err != nil {
				e.logf("cycle %d: persist stats for %s: %v", e.cycle, strategy, err)
			}
		}
		delete(e.tickets, ticket)
		delete(e.lastPL, ticket)
	}
}

func (e *Engine) record(rep *Report) {
	if !rep.fetched {
		return
	}
	if e.tracker != nil {
		e.tracker.ObserveEquity(rep.Equity)
	}
	if e.journal == nil {
		return
	}
	err := e.journal.RecordEquity(journal.EquitySnapshot{
		Time:            e.now(),
		Cycle:           rep.Cycle,
		Balance:         rep.Balance,
		Equity:          rep.Equity,
		MarginFree:      rep.MarginFree,
		OpenPositions:   rep.OpenPositions,
		TradesSubmitted: rep.Submitted,
	})
	if err != nil {
		e.logf("cycle %d: journal equity: %v", rep.Cycle, err)
	}
}

func newClientTag() string { return id.New() }

func (e *Engine) logf(format string, args ...any) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}
