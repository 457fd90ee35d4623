package engine

import (
	"fmt"

	"github.com/fxcycle/trader/risk"
)

// CycleState is the terminal state of one engine pass.
type CycleState int

const (
	// Completed means the full pipeline ran: risk check, stop
	// maintenance, signal generation and submission.
	Completed CycleState = iota
	// Holding means no new entries were opened this pass, either
	// because the position ceiling was reached or because broker
	// state could not be fetched.
	Holding
	// Stopped means the risk guard flattened the book.
	Stopped
)

func (s CycleState) String() string {
	switch s {
	case Completed:
		return "completed"
	case Holding:
		return "holding"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Report summarizes one engine cycle.
type Report struct {
	Cycle   int
	State   CycleState
	Verdict risk.Verdict

	Balance    float64
	Equity     float64
	MarginFree float64

	OpenPositions int
	Proposals     int // proposals considered
	Dropped       int // proposals rejected before submission
	Submitted     int // order requests sent (quota consumed)
	Executed      int // order requests filled
	ClosedByRisk  int // positions flattened by the guard
	StopsAdjusted int // trailing stops moved

	Note string

	fetched bool
}

func (r Report) Summary() string {
	switch r.State {
	case Stopped:
		return fmt.Sprintf("stopped, closed %d positions (equity %.2f, balance %.2f)",
			r.ClosedByRisk, r.Equity, r.Balance)
	case Holding:
		note := r.Note
		if note == "" {
			note = "holding"
		}
		return fmt.Sprintf("%s, %d open, %d stops adjusted (equity %.2f)",
			note, r.OpenPositions, r.StopsAdjusted, r.Equity)
	default:
		return fmt.Sprintf("%d proposals, %d dropped, %d submitted, %d filled, %d open, %d stops adjusted (equity %.2f)",
			r.Proposals, r.Dropped, r.Submitted, r.Executed, r.OpenPositions, r.StopsAdjusted, r.Equity)
	}
}
