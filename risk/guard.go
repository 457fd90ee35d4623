package risk

import (
	"time"

	"github.com/fxcycle/trader/broker"
)

// Verdict is the Guard's per-cycle decision. Rules are ordered: the
// scheduled close window and the drawdown breach both flatten the
// account, the position ceiling only pauses new entries.
type Verdict int

const (
	Continue Verdict = iota
	HoldNewEntries
	FlattenAndStop
)

func (v Verdict) String() string {
	switch v {
	case FlattenAndStop:
		return "FLATTEN_AND_STOP"
	case HoldNewEntries:
		return "HOLD_NEW_ENTRIES"
	default:
		return "CONTINUE"
	}
}

type Policy struct {
	// MaxDrawdownPct is the balance-to-equity drawdown, in percent,
	// above which all positions are closed.
	MaxDrawdownPct float64

	// MaxPositions is the open-position ceiling, inclusive: reaching
	// it holds new entries.
	MaxPositions int

	// CloseWeekday/CloseHour define the end-of-week flat-close window
	// in broker time: on CloseWeekday at or after CloseHour, flatten.
	CloseWeekday time.Weekday
	CloseHour    int
}

func DefaultPolicy() Policy {
	return Policy{
		MaxDrawdownPct: 10,
		MaxPositions:   8,
		CloseWeekday:   time.Friday,
		CloseHour:      15,
	}
}

// DrawdownPct returns the balance-to-equity drawdown in percent.
// Negative when equity exceeds balance (floating profit).
func DrawdownPct(balance, equity float64) float64 {
	if balance <= 0 {
		return 0
	}
	return (balance - equity) / balance * 100
}

// Evaluate checks account-level constraints in fixed order and returns
// the first matching verdict. It is pure: no side effects, identical
// inputs yield identical verdicts; the caller acts on the result.
//
// A non-positive balance fails open (Continue). That is a deliberate
// fail-safe-for-availability tradeoff carried over from the running
// system: a snapshot the terminal could not price must not read as a
// drawdown breach and flatten a healthy book.
func Evaluate(p Policy, acct broker.Account, openPositions int, now time.Time) Verdict {
	if now.Weekday() == p.CloseWeekday && now.Hour() >= p.CloseHour {
		return FlattenAndStop
	}

	if acct.Balance > 0 && DrawdownPct(acct.Balance, acct.Equity) > p.MaxDrawdownPct {
		return FlattenAndStop
	}

	if openPositions >= p.MaxPositions {
		return HoldNewEntries
	}

	return Continue
}
