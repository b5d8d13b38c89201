package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "backtester",
	Short: "A bar-replay backtester for trading strategies",
	Long: `Backtester replays historical OHLCV data through a trading strategy,
simulating fills, fees, slippage and risk-driven exits, and summarises
the result into risk-adjusted performance statistics.

It provides tools for:
  - Backtesting strategies against historical bar data
  - Risk-based position sizing with stop/target/trailing-stop exits
  - Journaling trades and equity curves to SQLite or CSV
  - Reporting on past runs from the journal database`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
