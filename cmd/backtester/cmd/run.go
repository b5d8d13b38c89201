package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/config"
	"github.com/rustyeddy/backtester/internal/logx"
	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/risk"
	"github.com/rustyeddy/backtester/strategies"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a backtest over a bar CSV",
	Long: `Run replays an OHLCV CSV (time,open,high,low,close,volume) through a
strategy and prints a performance summary.

Example:
  backtester run --bars data/btcusdt_1h.csv --strategy ma-crossover --fast 10 --slow 30`,
	RunE: runBacktest,
}

var (
	runBarsPath   string
	runConfigPath string
	runSymbol     string
	runStrategy   string
	runFast       int
	runSlow       int
	runCapital    float64
	runDBPath     string
	runLogLevel   string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runBarsPath, "bars", "b", "", "path to bar CSV (time,open,high,low,close,volume) (required)")
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "path to YAML config file")
	runCmd.Flags().StringVarP(&runSymbol, "symbol", "i", "", "symbol override")
	runCmd.Flags().StringVarP(&runStrategy, "strategy", "s", "", "strategy name override (noop, ma-crossover)")
	runCmd.Flags().IntVar(&runFast, "fast", 0, "ma-crossover: fast MA period override")
	runCmd.Flags().IntVar(&runSlow, "slow", 0, "ma-crossover: slow MA period override")
	runCmd.Flags().Float64Var(&runCapital, "capital", 0, "initial capital override")
	runCmd.Flags().StringVarP(&runDBPath, "db", "d", "", "SQLite journal path override")
	runCmd.Flags().StringVar(&runLogLevel, "log-level", "", "log level (debug, info, warn, error)")

	runCmd.MarkFlagRequired("bars")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if runConfigPath != "" {
		loaded, err := config.LoadFromFile(runConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	applyOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logx.New(cfg.Log.Level)

	bars, err := market.LoadBarsCSV(runBarsPath, cfg.Backtest.Symbol)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}

	strat, err := strategies.ByName(cfg.Strategy.Name, cfg.Strategy.MACrossover)
	if err != nil {
		return fmt.Errorf("strategy: %w", err)
	}

	j, sqlj, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	if sqlj != nil {
		sqlj.BeginRun()
	}

	engine := backtest.NewEngine(backtest.Config{
		InitialCapital: cfg.Backtest.InitialCapital,
		CommissionRate: cfg.Backtest.CommissionRate,
		SlippageRate:   cfg.Backtest.SlippageRate,
		SizingMethod:   risk.SizingMethod(cfg.Risk.PositionSizingMethod),
		Risk:           cfg.RiskParams(),
		Journal:        j,
		Logger:         log,
	})

	results, err := engine.Run(bars, strat)
	if err != nil {
		return err
	}

	if sqlj != nil {
		err := sqlj.FinishRun(journal.RunRecord{
			Symbol:         cfg.Backtest.Symbol,
			Strategy:       strat.Name(),
			Start:          bars.At(0).Time,
			End:            bars.At(bars.Len() - 1).Time,
			InitialCapital: results.InitialCapital,
			FinalEquity:    results.FinalEquity,
			TotalReturnPct: results.TotalReturnPercent,
			TotalTrades:    results.TotalTrades,
			WinRate:        results.WinRate,
			MaxDrawdown:    results.MaxDrawdown,
			CreatedAt:      time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("record run: %w", err)
		}
	}

	fmt.Print(results.Summary())
	return nil
}

func applyOverrides(cfg *config.Config) {
	if runSymbol != "" {
		cfg.Backtest.Symbol = runSymbol
	}
	if runStrategy != "" {
		cfg.Strategy.Name = runStrategy
	}
	if runFast > 0 {
		cfg.Strategy.MACrossover.FastPeriod = runFast
	}
	if runSlow > 0 {
		cfg.Strategy.MACrossover.SlowPeriod = runSlow
	}
	if runCapital > 0 {
		cfg.Backtest.InitialCapital = runCapital
	}
	if runDBPath != "" {
		cfg.Journal.Type = "sqlite"
		cfg.Journal.DBPath = runDBPath
	}
	if runLogLevel != "" {
		cfg.Log.Level = runLogLevel
	}
}

// openJournal returns the configured sink plus the concrete SQLite
// journal when run summaries can be recorded.
func openJournal(jc config.JournalConfig) (journal.Journal, *journal.SQLiteJournal, error) {
	switch jc.Type {
	case "sqlite":
		sqlj, err := journal.NewSQLite(jc.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return sqlj, sqlj, nil
	case "csv":
		csvj, err := journal.NewCSV(jc.TradesFile, jc.EquityFile)
		if err != nil {
			return nil, nil, err
		}
		return csvj, nil, nil
	default:
		return journal.Nop{}, nil, nil
	}
}
