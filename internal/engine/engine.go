// Package engine orchestrates the tick pipeline: history, regime
// classification, edge gating, risk checks, simulated execution and
// accounting.
package engine

import (
	"context"
	"math"
	"time"

	"github.com/yanun0323/logs"
	"golang.org/x/time/rate"

	"main/internal/account"
	"main/internal/broker"
	"main/internal/edge"
	"main/internal/mdg"
	"main/internal/model"
	"main/internal/obs"
	"main/internal/recorder"
	"main/internal/risk"
	"main/internal/store"
	"main/internal/strategy"
)

// Config drives the tick loop.
type Config struct {
	Pair                string
	TakeProfitPct       float64
	StopLossPct         float64
	MaxTicks            int
	LoopSleep           time.Duration
	Warmup              int
	MaxSignalsPerRegime int
	MaxTradesPerDay     int
}

// Components are the engine collaborators. Store and Events may be nil.
type Components struct {
	History  *model.History
	Detector *edge.Detector
	Gate     *edge.Gate
	Strategy strategy.Strategy
	Limits   *risk.DailyLimits
	Sizer    *risk.PositionSizer
	Limiter  *risk.TradeLimiter
	Sim      *broker.Simulator
	Balance  *account.Balance
	Stats    *account.Stats
	Metrics  *obs.Metrics
	Store    *store.Store
	Events   *recorder.Writer
}

// Result reports what one tick evaluation did.
type Result struct {
	Outcome obs.Outcome
	Reason  string
}

// Engine runs the single-position paper trading pipeline. All state is owned
// by the engine goroutine; Step is not safe for concurrent use.
type Engine struct {
	cfg Config

	hist     *model.History
	detector *edge.Detector
	gate     *edge.Gate
	strat    strategy.Strategy
	limits   *risk.DailyLimits
	sizer    *risk.PositionSizer
	limiter  *risk.TradeLimiter
	sim      *broker.Simulator
	balance  *account.Balance
	stats    *account.Stats
	metrics  *obs.Metrics
	store    *store.Store
	events   *recorder.Writer

	stopped bool
}

// New assembles an engine from its components.
func New(cfg Config, c Components) *Engine {
	return &Engine{
		cfg:      cfg,
		hist:     c.History,
		detector: c.Detector,
		gate:     c.Gate,
		strat:    c.Strategy,
		limits:   c.Limits,
		sizer:    c.Sizer,
		limiter:  c.Limiter,
		sim:      c.Sim,
		balance:  c.Balance,
		stats:    c.Stats,
		metrics:  c.Metrics,
		store:    c.Store,
		events:   c.Events,
	}
}

// Step evaluates one candle through the full pipeline.
//
// The order is fixed: validate, record history, regime and gate, daily
// limits, exit check, signal, attempt consumption, gate verdict, limiter
// verdict, position check, sizing, entry. A tripped daily limit ends the
// tick before the exit check,
// so an open position stays open until the next trading day.
func (e *Engine) Step(candle model.Candle) Result {
	started := time.Now()
	defer func() { e.metrics.ObserveStep(time.Since(started)) }()

	if !validCandle(candle) {
		logs.Warnf("drop malformed candle, ts: %s close: %v", candle.Ts, candle.Close)
		return e.done(obs.OutcomeMalformed, "malformed_candle")
	}

	e.hist.Push(candle)
	regime := e.detector.Classify(e.hist)
	decision := e.gate.Evaluate(regime)
	e.stats.MarkEdgeState(decision.IsOn)

	price := candle.Close
	equity := e.balance.Equity(price)
	e.stats.UpdateEquity(equity)

	if ok, reason := e.limits.CanContinue(e.balance.DayStartEquity, equity); !ok {
		if !e.stopped {
			e.stopped = true
			logs.Infof("daily stop, reason: %s equity: %.2f", reason, equity)
			e.record(recorder.Event{Ts: candle.Ts, Kind: recorder.KindStop, Pair: e.cfg.Pair, Reason: reason, Equity: equity})
		}
		return e.done(obs.OutcomeDailyStop, reason)
	}

	if pos, open := e.sim.Position(); open {
		if fill, reason, exited := e.sim.CheckExit(candle.Ts, price); exited {
			e.applyExit(pos, fill, reason)
			return e.done(obs.OutcomeExit, reason)
		}
	}

	if e.hist.Len() < e.cfg.Warmup {
		return e.done(obs.OutcomeNoSignal, "warming_up")
	}

	signal, ok := e.strat.Generate(candle.Ts, e.hist.Closes())
	if !ok {
		return e.done(obs.OutcomeNoSignal, "no_signal")
	}

	// the attempt is consumed up front, even when the gate or the open
	// position ends up denying the entry
	allowed, limitReason := e.limiter.AllowSignal(regime.Key())

	if !decision.IsOn {
		e.record(recorder.Event{Ts: candle.Ts, Kind: recorder.KindSkip, Pair: e.cfg.Pair, Reason: decision.Reason})
		return e.done(obs.OutcomeEdgeOff, decision.Reason)
	}

	if !allowed {
		e.record(recorder.Event{Ts: candle.Ts, Kind: recorder.KindSkip, Pair: e.cfg.Pair, Reason: limitReason})
		return e.done(obs.OutcomeLimited, limitReason)
	}

	if _, open := e.sim.Position(); open {
		return e.done(obs.OutcomePositionOpen, "position_open")
	}

	qty := e.sizer.Size(e.balance.QuoteFree, price)
	if qty <= 0 {
		return e.done(obs.OutcomeInsufficientBalance, "insufficient_balance")
	}

	fill, opened := e.sim.TryOpenLong(candle.Ts, price, qty, e.cfg.Pair, e.cfg.TakeProfitPct, e.cfg.StopLossPct)
	if !opened {
		return e.done(obs.OutcomeEntryRejected, "entry_rejected")
	}

	e.applyEntry(fill, signal)
	return e.done(obs.OutcomeEntry, signal.Reason)
}

// applyEntry commits an entry fill to balances, stats and sinks as one unit.
func (e *Engine) applyEntry(fill broker.Fill, signal strategy.Signal) {
	cost := fill.Price * fill.Qty
	e.balance.QuoteFree -= cost + fill.Fee
	e.balance.BaseFree += fill.Qty

	e.stats.MarkEntry(cost + fill.Fee)
	e.limiter.MarkTrade()

	logs.Infof("entry, pair: %s price: %.4f qty: %.6f fee: %.4f partial: %t reason: %s",
		e.cfg.Pair, fill.Price, fill.Qty, fill.Fee, fill.Partial, signal.Reason)

	e.record(recorder.Event{
		Ts: fill.Ts, Kind: recorder.KindEntry, Pair: e.cfg.Pair, Reason: signal.Reason,
		Price: fill.Price, Qty: fill.Qty, Fee: fill.Fee, Partial: fill.Partial,
		Equity: e.balance.Equity(fill.Price),
	})
	e.persist(broker.SideBuy, "", fill)
}

// applyExit commits an exit fill. The base position is flattened in full even
// when the simulated exit fill is partial.
func (e *Engine) applyExit(pos broker.Position, fill broker.Fill, reason string) {
	proceeds := fill.Price*fill.Qty - fill.Fee
	e.balance.QuoteFree += proceeds
	e.balance.BaseFree -= pos.Qty

	var pnl float64
	if entry, ok := e.stats.PendingEntry(); ok {
		pnl = proceeds - entry
	}
	e.stats.MarkExit(proceeds)

	// equity stats sample only candle closes, never the exit fill itself
	equity := e.balance.Equity(fill.Price)

	logs.Infof("exit, pair: %s reason: %s price: %.4f qty: %.6f pnl: %.4f partial: %t",
		e.cfg.Pair, reason, fill.Price, fill.Qty, pnl, fill.Partial)

	e.record(recorder.Event{
		Ts: fill.Ts, Kind: recorder.KindExit, Pair: e.cfg.Pair, Reason: reason,
		Price: fill.Price, Qty: fill.Qty, Fee: fill.Fee, PnL: pnl,
		Partial: fill.Partial, Equity: equity,
	})
	e.persist(broker.SideSell, reason, fill)
}

// Run drives the engine from the synthetic generator until MaxTicks.
func (e *Engine) Run(ctx context.Context, gen *mdg.Generator) error {
	for _, candle := range gen.Warmup(e.cfg.Warmup) {
		e.hist.Push(candle)
	}

	limiter := e.pacer()
	for i := 0; i < e.cfg.MaxTicks; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		e.Step(gen.Next())
	}
	return nil
}

// StreamFeed supplies candles from a live source.
type StreamFeed interface {
	Next(ctx context.Context) (model.Candle, error)
	Stop()
}

// RunStream drives the engine from a live feed until MaxTicks or feed error.
// The first Warmup candles only seed the history and do not count as ticks.
func (e *Engine) RunStream(ctx context.Context, feed StreamFeed) error {
	defer feed.Stop()

	for e.hist.Len() < e.cfg.Warmup {
		candle, err := feed.Next(ctx)
		if err != nil {
			return err
		}
		e.hist.Push(candle)
	}

	for i := 0; i < e.cfg.MaxTicks; i++ {
		candle, err := feed.Next(ctx)
		if err != nil {
			return err
		}
		e.Step(candle)
	}
	return nil
}

// Summary builds the reporting snapshot at the current mark price.
func (e *Engine) Summary() account.Metrics {
	equity := e.balance.Equity(e.hist.LastClose())
	return account.Summarize(e.stats, e.balance.DayStartEquity, equity)
}

// StartNewDay rolls the daily reference equity and resets daily counters.
// The open position, if any, carries over.
func (e *Engine) StartNewDay() {
	equity := e.balance.Equity(e.hist.LastClose())
	e.balance.StartNewDay(equity)
	e.stats.DailyTradeCount = 0
	e.limiter = risk.NewTradeLimiter(e.cfg.MaxSignalsPerRegime, e.cfg.MaxTradesPerDay)
	e.stopped = false
	logs.Infof("new trading day, start equity: %.2f", equity)
}

// Metrics exposes the outcome counters.
func (e *Engine) Metrics() *obs.Metrics {
	return e.metrics
}

// Close flushes the event log and releases the trade store.
func (e *Engine) Close() error {
	if err := e.events.Close(); err != nil {
		return err
	}
	return e.store.Close()
}

func (e *Engine) done(o obs.Outcome, reason string) Result {
	e.metrics.ObserveOutcome(o)
	return Result{Outcome: o, Reason: reason}
}

func (e *Engine) record(event recorder.Event) {
	if err := e.events.Write(event); err != nil {
		logs.Errorf("write event: %v", err)
	}
}

func (e *Engine) persist(side broker.Side, reason string, fill broker.Fill) {
	if err := e.store.RecordFill(e.cfg.Pair, string(side), reason, fill); err != nil {
		logs.Errorf("persist fill: %v", err)
	}
}

func (e *Engine) pacer() *rate.Limiter {
	if e.cfg.LoopSleep <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(e.cfg.LoopSleep), 1)
}

func validCandle(c model.Candle) bool {
	for _, v := range []float64{c.Open, c.High, c.Low, c.Close} {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return c.High >= c.Low && !c.Ts.IsZero()
}
