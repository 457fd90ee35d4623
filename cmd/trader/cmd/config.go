package cmd

import (
	"fmt"

	"github.com/fxcycle/trader/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage configuration files for the bot.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  trader config init -o my-config.yaml
  trader config validate -f my-config.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	RunE:  runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "trader.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("✓ Created default configuration: %s\n", configInitOutput)
	fmt.Println("\nEdit the file and run with:")
	fmt.Printf("  trader run -f %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("✓ Configuration valid: %s\n", configValidatePath)
	fmt.Printf("  Engine: risk %.1f%%/trade, quota %d/cycle, interval %s\n",
		cfg.Engine.RiskFraction*100, cfg.Engine.MaxTradesPerCycle, cfg.Engine.CycleInterval)
	fmt.Printf("  Risk: %.0f%% drawdown cap, %d position ceiling, close %s %02d:00\n",
		cfg.Risk.MaxDrawdownPct, cfg.Risk.MaxPositions, cfg.Risk.CloseWeekday, cfg.Risk.CloseHour)
	for _, s := range cfg.Strategies {
		fmt.Printf("  Strategy: %s %v\n", s.Name, s.Symbols)
	}
	fmt.Printf("  Journal: %s\n", cfg.Journal.Type)
	return nil
}
