package cmd

import (
	"fmt"
	"time"

	"github.com/fxcycle/trader/journal"
	"github.com/fxcycle/trader/perf"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print per-strategy performance from the journal database",
	Long: `Read the SQLite journal and print cumulative per-strategy results
(trades, win rate, total PnL) plus drawdown and Sharpe ratio derived
from the recorded equity curve.

Example:
  trader stats --db ./trader.db`,
	RunE: runStats,
}

var statsDBPath string

// Annual risk-free rate assumed when annualizing Sharpe.
const annualRiskFree = 0.02

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVar(&statsDBPath, "db", "./trader.db", "path to the SQLite journal")
}

func runStats(cmd *cobra.Command, args []string) error {
	db, err := journal.NewSQLite(statsDBPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer db.Close()

	tracker, err := perf.NewTracker(db)
	if err != nil {
		return fmt.Errorf("load strategy stats: %w", err)
	}

	names := tracker.Strategies()
	if len(names) == 0 {
		fmt.Println("no strategy activity recorded yet")
	} else {
		fmt.Printf("%-12s %8s %8s %10s %12s\n", "STRATEGY", "TRADES", "WINS", "WIN RATE", "TOTAL PNL")
		for _, name := range names {
			s := tracker.Stats(name)
			fmt.Printf("%-12s %8d %8d %9.1f%% %12.2f\n",
				name, s.Trades, s.Wins, s.WinRate(), s.TotalPnL)
		}
	}

	snaps, err := db.ListEquityBetween(time.Time{}, time.Now())
	if err != nil {
		return fmt.Errorf("load equity history: %w", err)
	}
	if len(snaps) < 2 {
		return nil
	}

	curve := make([]float64, len(snaps))
	for i, s := range snaps {
		curve[i] = s.Equity
	}
	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		if curve[i-1] != 0 {
			returns = append(returns, (curve[i]-curve[i-1])/curve[i-1])
		}
	}

	fmt.Println()
	fmt.Printf("equity snapshots: %d (%.2f -> %.2f)\n", len(curve), curve[0], curve[len(curve)-1])
	fmt.Printf("max drawdown:     %.2f%%\n", perf.MaxDrawdown(curve))
	fmt.Printf("sharpe ratio:     %.2f\n", perf.SharpeRatio(returns, annualRiskFree))
	return nil
}
