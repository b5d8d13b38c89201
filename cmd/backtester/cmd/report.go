package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/backtester/journal"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report on journaled backtest runs",
	Long: `Report lists past runs from the SQLite journal, or shows the trades
of a single run when --run is given.`,
	RunE: runReport,
}

var (
	reportDBPath string
	reportRunID  string
	reportLimit  int
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportDBPath, "db", "d", "./backtest.sqlite", "SQLite journal path")
	reportCmd.Flags().StringVarP(&reportRunID, "run", "r", "", "show trades for this run ID")
	reportCmd.Flags().IntVarP(&reportLimit, "limit", "n", 20, "max runs to list")
}

func runReport(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(reportDBPath); err != nil {
		return fmt.Errorf("journal database %s: %w", reportDBPath, err)
	}

	j, err := journal.NewSQLite(reportDBPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	if reportRunID != "" {
		return reportTrades(cmd.OutOrStdout(), j, reportRunID)
	}
	return reportRuns(cmd.OutOrStdout(), j)
}

func reportRuns(out io.Writer, j *journal.SQLiteJournal) error {
	runs, err := j.ListRuns(reportLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs recorded")
		return nil
	}

	// WinRate is already a percentage in [0,100].
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSYMBOL\tSTRATEGY\tTRADES\tWIN%\tRETURN%\tMAX DD%\tFINAL EQUITY\tCREATED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f\t%.2f\t%.2f\t%.2f\t%s\n",
			r.RunID, r.Symbol, r.Strategy, r.TotalTrades,
			r.WinRate, r.TotalReturnPct, r.MaxDrawdown,
			r.FinalEquity, r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	return w.Flush()
}

func reportTrades(out io.Writer, j *journal.SQLiteJournal, runID string) error {
	run, err := j.GetRun(runID)
	if err != nil {
		return err
	}

	trades, err := j.ListTradesByRun(runID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Run %s  %s  %s  (%s to %s)\n\n",
		run.RunID, run.Symbol, run.Strategy,
		run.Start.Format("2006-01-02"), run.End.Format("2006-01-02"))

	if len(trades) == 0 {
		fmt.Fprintln(out, "no trades recorded")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TRADE\tENTRY\tEXIT\tQTY\tPNL\tPNL%\tFEES\tEXIT REASON")
	for _, t := range trades {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.6f\t%.2f\t%.2f\t%.4f\t%s\n",
			t.TradeID, t.EntryPrice, t.ExitPrice, t.Quantity,
			t.PnL, t.PnLPercent, t.Fees, t.ExitReason,
		)
	}
	return w.Flush()
}
