package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trader",
	Short: "An automated FX trading bot with risk-guarded cycle execution",
	Long: `Trader runs indicator-driven strategies against a broker terminal on a
fixed trading cycle.

Each cycle it:
  - fetches account and position state from the terminal
  - checks drawdown, position ceiling and weekly close protections
  - maintains trailing stops on the open book
  - polls strategies for proposals under a per-cycle trade quota
  - validates stops against live quotes and sizes orders by account risk
  - journals every submission and an equity snapshot

Strategies: EMA/RSI band scalper, gold SMA trend follower, Donchian
channel breakout.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
