// Package backtest replays a bar series through a strategy, simulating
// fills, fees, slippage, and risk-driven exits, and summarises the result
// into performance statistics.
package backtest

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/risk"
)

var (
	ErrNoBars        = errors.New("backtest: empty bar series")
	ErrUnsortedBars  = errors.New("backtest: bars not sorted ascending")
	ErrBadCapital    = errors.New("backtest: initial capital must be positive")
	ErrBadCommission = errors.New("backtest: commission rate must be in [0,1)")
	ErrBadSlippage   = errors.New("backtest: slippage rate must be in [0,1)")
)

// Config holds everything a run needs besides the bars and the strategy.
// Rates are fractions: 0.001 means 0.1%.
type Config struct {
	InitialCapital float64
	CommissionRate float64
	SlippageRate   float64
	SizingMethod   risk.SizingMethod
	Risk           risk.Params

	// Journal receives trades and equity snapshots as the run progresses.
	// Nil disables journaling.
	Journal journal.Journal

	Logger *slog.Logger
}

// Engine owns the bar loop, the account state, and the trade ledger.
// One Engine runs one backtest; it is not safe for concurrent use.
type Engine struct {
	cfg   Config
	log   *slog.Logger
	sizer *risk.Sizer
	rm    *risk.Manager

	symbol    string
	balance   float64
	equity    float64
	positions map[string]*Position
	trades    []Trade
	equityCur []float64
	times     []time.Time
}

func NewEngine(cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	// There is no separate per-trade risk knob: the position cap doubles as
	// the risk percent, so fixed sizing targets the largest allowed position.
	riskPercent := cfg.Risk.MaxPositionSizePercent

	return &Engine{
		cfg:       cfg,
		log:       log,
		sizer:     risk.NewSizer(cfg.SizingMethod, riskPercent, cfg.Risk.MaxPositionSizePercent),
		rm:        risk.NewManager(cfg.Risk, cfg.InitialCapital, log),
		balance:   cfg.InitialCapital,
		equity:    cfg.InitialCapital,
		positions: make(map[string]*Position),
	}
}

// RiskManager exposes the engine's risk state for post-run inspection.
func (e *Engine) RiskManager() *risk.Manager { return e.rm }

// Run replays bars through strat and returns the results record.
//
// Malformed input (empty/unsorted bars, bad capital or rates, unknown
// sizing method) aborts with an error. Business outcomes inside the loop
// (no signal, rejected size, risk-gate rejection, insufficient balance)
// are silent no-ops logged at debug level.
func (e *Engine) Run(bars *market.BarSeries, strat Strategy) (*Results, error) {
	if err := e.validate(bars); err != nil {
		return nil, err
	}
	if _, err := risk.ParseSizingMethod(string(e.cfg.SizingMethod)); err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}

	e.symbol = bars.Symbol
	e.log.Info("starting backtest",
		"symbol", e.symbol,
		"strategy", strat.Name(),
		"bars", bars.Len(),
		"initial_capital", e.cfg.InitialCapital,
	)

	if err := strat.Prepare(bars); err != nil {
		return nil, fmt.Errorf("backtest: prepare strategy: %w", err)
	}

	for i := 0; i < bars.Len(); i++ {
		if err := e.processBar(i, bars, strat); err != nil {
			return nil, err
		}
	}

	// Force-close whatever is still open at the last bar's close.
	last := bars.At(bars.Len() - 1)
	if pos, ok := e.positions[e.symbol]; ok {
		if err := e.closePosition(pos, last, risk.ExitForced); err != nil {
			return nil, err
		}
	}
	e.markToMarket(last.Close)

	e.log.Info("backtest complete", "final_equity", e.equity, "trades", len(e.trades))

	return e.results(), nil
}

func (e *Engine) validate(bars *market.BarSeries) error {
	if bars == nil || bars.Len() == 0 {
		return ErrNoBars
	}
	if err := bars.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnsortedBars, err)
	}
	if e.cfg.InitialCapital <= 0 {
		return ErrBadCapital
	}
	if e.cfg.CommissionRate < 0 || e.cfg.CommissionRate >= 1 {
		return ErrBadCommission
	}
	if e.cfg.SlippageRate < 0 || e.cfg.SlippageRate >= 1 {
		return ErrBadSlippage
	}
	return nil
}

// processBar applies the per-bar lifecycle: mark equity first, then manage
// the open position or look for an entry.
func (e *Engine) processBar(i int, bars *market.BarSeries, strat Strategy) error {
	bar := bars.At(i)

	e.markToMarket(bar.Close)
	e.equityCur = append(e.equityCur, e.equity)
	e.times = append(e.times, bar.Time)

	if e.cfg.Journal != nil {
		err := e.cfg.Journal.RecordEquity(journal.EquitySnapshot{
			Time:    bar.Time,
			Balance: e.balance,
			Equity:  e.equity,
		})
		if err != nil {
			return fmt.Errorf("backtest: record equity: %w", err)
		}
	}

	if i > 0 {
		prev := bars.At(i - 1).Close
		e.rm.CheckCircuitBreaker((bar.Close - prev) / prev * 100)
	}

	if pos, ok := e.positions[e.symbol]; ok {
		return e.managePosition(i, bar, pos, strat)
	}
	return e.checkEntry(i, bar, strat)
}

func (e *Engine) managePosition(i int, bar market.Bar, pos *Position, strat Strategy) error {
	price := bar.Close

	if price > pos.HighestPrice {
		pos.HighestPrice = price
	}
	pos.StopLoss = e.rm.UpdateTrailingStop(price, pos.StopLoss, pos.Side)

	if hit, reason := e.rm.ShouldClose(price, pos.StopLoss, pos.TakeProfit, pos.Side); hit {
		return e.closePosition(pos, bar, reason)
	}

	if strat.ShouldExit(i, pos) {
		e.log.Debug("strategy exit signal", "symbol", e.symbol, "reason", strat.ExitReason(i))
		return e.closePosition(pos, bar, risk.ExitSignal)
	}
	return nil
}

func (e *Engine) checkEntry(i int, bar market.Bar, strat Strategy) error {
	if !strat.ShouldEnter(i) {
		return nil
	}
	if !strat.ValidateSignal(i) {
		e.log.Debug("signal rejected: indicators warming up", "bar", i)
		return nil
	}

	price := bar.Close

	// Planned stop drives volatility sizing; the position's actual stop is
	// recomputed from the slipped entry price below.
	plannedStop := e.rm.StopLoss(price, market.Long)

	size, err := e.sizer.Size(e.balance, price, plannedStop)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}
	if ok, reason := e.sizer.Validate(size, e.balance); !ok {
		e.log.Debug("position size rejected", "reason", reason)
		return nil
	}
	if ok, reason := e.rm.CanOpen(len(e.positions), e.balance, size); !ok {
		e.log.Debug("risk gate rejected entry", "reason", reason)
		return nil
	}

	quantity := size / price
	entryPrice := price * (1 + e.cfg.SlippageRate)
	fees := entryPrice * quantity * e.cfg.CommissionRate
	totalCost := entryPrice*quantity + fees

	if totalCost > e.balance {
		e.log.Debug("insufficient balance for entry", "cost", totalCost, "balance", e.balance)
		return nil
	}

	pos := &Position{
		Symbol:       e.symbol,
		Side:         market.Long,
		EntryPrice:   entryPrice,
		Quantity:     quantity,
		StopLoss:     e.rm.StopLoss(entryPrice, market.Long),
		TakeProfit:   e.rm.TakeProfit(entryPrice, market.Long),
		HighestPrice: entryPrice,
		EntryTime:    bar.Time,
		EntryFees:    fees,
		EntryReason:  strat.EntryReason(i),
	}
	e.positions[e.symbol] = pos
	e.balance -= totalCost

	e.log.Info("entry",
		"symbol", e.symbol,
		"price", entryPrice,
		"quantity", quantity,
		"stop_loss", pos.StopLoss,
		"take_profit", pos.TakeProfit,
	)
	return nil
}

func (e *Engine) closePosition(pos *Position, bar market.Bar, reason risk.ExitReason) error {
	exitPrice := bar.Close * (1 - e.cfg.SlippageRate)

	proceeds := exitPrice * pos.Quantity
	exitFees := proceeds * e.cfg.CommissionRate
	totalFees := pos.EntryFees + exitFees

	pnl := (exitPrice-pos.EntryPrice)*pos.Quantity - totalFees
	cost := pos.EntryPrice * pos.Quantity
	pnlPercent := pnl / cost * 100

	e.balance += proceeds - exitFees

	trade := Trade{
		Symbol:      pos.Symbol,
		EntryPrice:  pos.EntryPrice,
		ExitPrice:   exitPrice,
		Quantity:    pos.Quantity,
		EntryTime:   pos.EntryTime,
		ExitTime:    bar.Time,
		PnL:         pnl,
		PnLPercent:  pnlPercent,
		TotalFees:   totalFees,
		ExitReason:  reason,
		EntryReason: pos.EntryReason,
	}
	e.trades = append(e.trades, trade)
	delete(e.positions, pos.Symbol)

	e.rm.UpdateDailyPnL(bar.Time, pnl)

	e.log.Info("exit",
		"symbol", pos.Symbol,
		"price", exitPrice,
		"pnl", pnl,
		"pnl_percent", pnlPercent,
		"reason", string(reason),
	)

	if e.cfg.Journal != nil {
		err := e.cfg.Journal.RecordTrade(journal.TradeRecord{
			Symbol:      trade.Symbol,
			EntryPrice:  trade.EntryPrice,
			ExitPrice:   trade.ExitPrice,
			Quantity:    trade.Quantity,
			EntryTime:   trade.EntryTime,
			ExitTime:    trade.ExitTime,
			PnL:         trade.PnL,
			PnLPercent:  trade.PnLPercent,
			Fees:        trade.TotalFees,
			ExitReason:  string(trade.ExitReason),
			EntryReason: trade.EntryReason,
		})
		if err != nil {
			return fmt.Errorf("backtest: record trade: %w", err)
		}
	}
	return nil
}

// markToMarket recomputes equity as balance plus the market value of open
// positions at the given price. Entries debit the full notional from the
// balance, so open positions contribute their value, not just pnl.
func (e *Engine) markToMarket(price float64) {
	value := 0.0
	for _, pos := range e.positions {
		value += price * pos.Quantity
	}
	e.equity = e.balance + value
}
