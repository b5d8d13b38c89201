package journal

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/backtester/internal/id"
)

// SQLiteJournal stores runs, trades and equity snapshots in SQLite.
// Records written before BeginRun carry an empty run_id.
type SQLiteJournal struct {
	db    *sql.DB
	runID string
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

// BeginRun allocates a run ID and stamps it onto subsequent records.
func (j *SQLiteJournal) BeginRun() string {
	j.runID = id.New()
	return j.runID
}

// FinishRun persists the run summary row.
func (j *SQLiteJournal) FinishRun(r RunRecord) error {
	if r.RunID == "" {
		r.RunID = j.runID
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, symbol, strategy, start_time, end_time, initial_capital, final_equity, total_return_pct, total_trades, win_rate, max_drawdown, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Symbol, r.Strategy, r.Start, r.End, r.InitialCapital,
		r.FinalEquity, r.TotalReturnPct, r.TotalTrades, r.WinRate, r.MaxDrawdown, r.CreatedAt,
	)
	return err
}

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	if t.TradeID == "" {
		t.TradeID = id.New()
	}
	if t.RunID == "" {
		t.RunID = j.runID
	}

	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, run_id, symbol, entry_price, exit_price, quantity, entry_time, exit_time, pnl, pnl_percent, fees, exit_reason, entry_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.RunID, t.Symbol, t.EntryPrice, t.ExitPrice, t.Quantity,
		t.EntryTime, t.ExitTime, t.PnL, t.PnLPercent, t.Fees, t.ExitReason, t.EntryReason,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquitySnapshot) error {
	if e.RunID == "" {
		e.RunID = j.runID
	}

	_, err := j.db.Exec(`
		INSERT INTO equity
		(run_id, time, balance, equity)
		VALUES (?, ?, ?, ?)`,
		e.RunID, e.Time, e.Balance, e.Equity,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
