package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/fxcycle/trader/broker"
	"github.com/fxcycle/trader/broker/sim"
	"github.com/fxcycle/trader/config"
	"github.com/fxcycle/trader/engine"
	"github.com/fxcycle/trader/journal"
	"github.com/fxcycle/trader/market"
	"github.com/fxcycle/trader/perf"
	"github.com/fxcycle/trader/risk"
	"github.com/fxcycle/trader/strategies"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the trading bot until interrupted",
	Long: `Run the trading cycle on its configured interval against the simulated
broker terminal, seeded from the configuration file.

The bot stops cleanly on SIGINT or SIGTERM; shutdown is honored between
cycles so an order in flight always completes.

Example:
  trader run -f examples/configs/basic.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON); defaults when omitted")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := buildBot(ctx, cfg)
	if err != nil {
		return err
	}
	defer bot.journal.Close()

	fmt.Printf("trading %d strategies, cycle every %s, quota %d trades/cycle\n",
		len(bot.strategies), bot.engineCfg.CycleInterval, bot.engineCfg.MaxTradesPerCycle)

	err = bot.engine.Run(ctx)
	if errors.Is(err, context.Canceled) {
		fmt.Println("shutdown requested, stopping after current cycle")
		return nil
	}
	return err
}

func loadConfig() (*config.Config, error) {
	if runConfigPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

type bot struct {
	engine     *engine.Engine
	terminal   *sim.Terminal
	journal    journal.Journal
	strategies []strategies.Strategy
	engineCfg  engine.Config
}

// buildBot wires the full stack from a validated config: journal,
// seeded terminal, candle store, strategy roster, risk policy, engine.
func buildBot(ctx context.Context, cfg *config.Config) (*bot, error) {
	var (
		jrnl    journal.Journal
		metrics journal.MetricsStore
		err     error
	)
	if cfg.Journal.Type == "csv" {
		jrnl, err = journal.NewCSV(cfg.Journal.OrdersFile, cfg.Journal.EquityFile)
	} else {
		sq, serr := journal.NewSQLite(cfg.Journal.DBPath)
		jrnl, metrics, err = sq, sq, serr
	}
	if err != nil {
		return nil, fmt.Errorf("create journal: %w", err)
	}

	term := sim.NewTerminal(broker.Account{
		Currency: cfg.Simulation.Currency,
		Balance:  cfg.Simulation.Balance,
		Equity:   cfg.Simulation.Balance,
	})
	for _, tk := range cfg.Simulation.Ticks {
		term.SetTick(market.Tick{Symbol: tk.Symbol, Bid: tk.Bid, Ask: tk.Ask, Time: time.Now()})
	}

	candles := market.NewCandleStore()
	for _, cf := range cfg.Simulation.Candles {
		tf, ok := market.ParseTimeframe(cf.Timeframe)
		if !ok {
			return nil, fmt.Errorf("candles for %s: unknown timeframe %q", cf.Symbol, cf.Timeframe)
		}
		series, err := market.LoadCandlesCSV(cf.Path)
		if err != nil {
			return nil, fmt.Errorf("candles for %s: %w", cf.Symbol, err)
		}
		candles.Set(cf.Symbol, tf, series)
	}

	creds, err := config.LoadCredentials()
	if err != nil {
		return nil, err
	}
	if creds.Server != "" {
		fmt.Printf("broker credentials present for %s (login %s); using simulated terminal\n",
			creds.Server, creds.Login)
	}

	gw, err := broker.Connect(ctx, func(ctx context.Context) (broker.Gateway, error) {
		return term, nil
	}, 3, time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect terminal: %w", err)
	}

	var strats []strategies.Strategy
	for _, sc := range cfg.Strategies {
		s, err := strategies.New(sc.Name, sc.Symbols)
		if err != nil {
			return nil, err
		}
		strats = append(strats, s)
	}

	policy := risk.DefaultPolicy()
	policy.MaxDrawdownPct = cfg.Risk.MaxDrawdownPct
	policy.MaxPositions = cfg.Risk.MaxPositions
	policy.CloseHour = cfg.Risk.CloseHour
	if cfg.Risk.CloseWeekday != "" {
		wd, err := cfg.Risk.ParseWeekday()
		if err != nil {
			return nil, err
		}
		policy.CloseWeekday = wd
	}

	ecfg := engine.DefaultConfig()
	ecfg.RiskFraction = cfg.Engine.RiskFraction
	ecfg.MaxTradesPerCycle = cfg.Engine.MaxTradesPerCycle
	if cfg.Engine.Deviation > 0 {
		ecfg.Deviation = cfg.Engine.Deviation
	}
	if cfg.Engine.TrailActivation > 0 {
		ecfg.TrailActivation = cfg.Engine.TrailActivation
	}
	if cfg.Engine.TrailStopPips > 0 {
		ecfg.TrailStopPips = cfg.Engine.TrailStopPips
	}
	if cfg.Engine.FallbackLot > 0 {
		ecfg.FallbackLot = cfg.Engine.FallbackLot
	}
	if interval, _ := cfg.Engine.ParseInterval(); interval > 0 {
		ecfg.CycleInterval = interval
	}

	e := engine.New(gw, candles, strats, policy, ecfg)
	e.SetJournal(jrnl)

	if metrics != nil {
		tracker, err := perf.NewTracker(metrics)
		if err != nil {
			return nil, fmt.Errorf("restore strategy stats: %w", err)
		}
		e.SetTracker(tracker)
	}

	return &bot{
		engine:     e,
		terminal:   term,
		journal:    jrnl,
		strategies: strats,
		engineCfg:  ecfg,
	}, nil
}
