package journal

import (
	"database/sql"
	"fmt"
)

// GetRun returns a single run summary by ID.
func (j *SQLiteJournal) GetRun(runID string) (RunRecord, error) {
	var rec RunRecord

	row := j.db.QueryRow(`
		SELECT run_id, symbol, strategy, start_time, end_time, initial_capital, final_equity, total_return_pct, total_trades, win_rate, max_drawdown, created_at
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&rec.RunID,
		&rec.Symbol,
		&rec.Strategy,
		&rec.Start,
		&rec.End,
		&rec.InitialCapital,
		&rec.FinalEquity,
		&rec.TotalReturnPct,
		&rec.TotalTrades,
		&rec.WinRate,
		&rec.MaxDrawdown,
		&rec.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}
	return rec, nil
}

// ListRuns returns run summaries, most recent first.
func (j *SQLiteJournal) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.Query(`
		SELECT run_id, symbol, strategy, start_time, end_time, initial_capital, final_equity, total_return_pct, total_trades, win_rate, max_drawdown, created_at
		FROM runs
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Symbol,
			&rec.Strategy,
			&rec.Start,
			&rec.End,
			&rec.InitialCapital,
			&rec.FinalEquity,
			&rec.TotalReturnPct,
			&rec.TotalTrades,
			&rec.WinRate,
			&rec.MaxDrawdown,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTradesByRun returns the closed trades of a run in exit-time order.
func (j *SQLiteJournal) ListTradesByRun(runID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, run_id, symbol, entry_price, exit_price, quantity, entry_time, exit_time, pnl, pnl_percent, fees, exit_reason, entry_reason
		FROM trades
		WHERE run_id = ?
		ORDER BY exit_time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		if err := rows.Scan(
			&rec.TradeID,
			&rec.RunID,
			&rec.Symbol,
			&rec.EntryPrice,
			&rec.ExitPrice,
			&rec.Quantity,
			&rec.EntryTime,
			&rec.ExitTime,
			&rec.PnL,
			&rec.PnLPercent,
			&rec.Fees,
			&rec.ExitReason,
			&rec.EntryReason,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquityByRun returns the persisted equity curve of a run.
func (j *SQLiteJournal) ListEquityByRun(runID string) ([]EquitySnapshot, error) {
	rows, err := j.db.Query(`
		SELECT run_id, time, balance, equity
		FROM equity
		WHERE run_id = ?
		ORDER BY time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var rec EquitySnapshot
		if err := rows.Scan(&rec.RunID, &rec.Time, &rec.Balance, &rec.Equity); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
