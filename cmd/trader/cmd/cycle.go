package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Run a single trading cycle and print the report",
	Long: `Execute exactly one pass of the trading cycle against the simulated
terminal and print what happened. Useful for checking a configuration
before letting the bot loop.

Example:
  trader cycle -f examples/configs/basic.yaml`,
	RunE: runCycle,
}

func init() {
	rootCmd.AddCommand(cycleCmd)

	cycleCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON); defaults when omitted")
}

func runCycle(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	bot, err := buildBot(ctx, cfg)
	if err != nil {
		return err
	}
	defer bot.journal.Close()

	rep := bot.engine.Cycle(ctx)

	fmt.Printf("cycle %d: %s\n", rep.Cycle, rep.State)
	fmt.Printf("  verdict:        %s\n", rep.Verdict)
	fmt.Printf("  balance:        %.2f\n", rep.Balance)
	fmt.Printf("  equity:         %.2f\n", rep.Equity)
	fmt.Printf("  open positions: %d\n", rep.OpenPositions)
	fmt.Printf("  proposals:      %d (%d dropped)\n", rep.Proposals, rep.Dropped)
	fmt.Printf("  submitted:      %d (%d filled)\n", rep.Submitted, rep.Executed)
	fmt.Printf("  stops adjusted: %d\n", rep.StopsAdjusted)
	if rep.ClosedByRisk > 0 {
		fmt.Printf("  closed by risk: %d\n", rep.ClosedByRisk)
	}
	if rep.Note != "" {
		fmt.Printf("  note:           %s\n", rep.Note)
	}
	return nil
}
