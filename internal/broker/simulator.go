// Package broker simulates order execution against a paper account: slippage,
// randomized partial fills, fee accrual, and take-profit/stop-loss exits for a
// single long-only position.
package broker

import (
	"math/rand"
	"time"
)

// Exit trigger reasons.
const (
	ExitTakeProfit = "take_profit"
	ExitStopLoss   = "stop_loss"
)

// Position is the single open long position. Created only by a successful
// entry fill, destroyed only by an exit fill.
type Position struct {
	EntryTs    time.Time
	EntryPrice float64
	Qty        float64
	TPPrice    float64
	SLPrice    float64
	Pair       string
}

// The simulator is an explicit two-variant machine: flat or long.
type posState uint8

const (
	stateFlat posState = iota
	stateLong
)

// Config defines the fill model parameters.
type Config struct {
	FeeRate                float64
	PartialFillProbability float64
	MinPartialFillRatio    float64
	MaxPartialFillRatio    float64
	SlippageBps            float64
	Seed                   int64
}

// Simulator owns the single open position and produces deterministic fills
// for a fixed seed and call sequence.
type Simulator struct {
	cfg   Config
	rng   *rand.Rand
	state posState
	pos   Position
}

// NewSimulator creates a simulator with a seeded fill model.
func NewSimulator(cfg Config) *Simulator {
	return &Simulator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Position returns the open position, if any.
func (s *Simulator) Position() (Position, bool) {
	if s.state != stateLong {
		return Position{}, false
	}
	return s.pos, true
}

// TryOpenLong opens a long position when flat. Returns no fill when a
// position is already open or the quantity is not positive.
func (s *Simulator) TryOpenLong(ts time.Time, price, qty float64, pair string, takeProfitPct, stopLossPct float64) (Fill, bool) {
	if s.state == stateLong || qty <= 0 {
		return Fill{}, false
	}

	fill := s.simulateFill(newOrder(ts, SideBuy, price, qty, pair))
	s.state = stateLong
	s.pos = Position{
		EntryTs:    ts,
		EntryPrice: fill.Price,
		Qty:        fill.Qty,
		TPPrice:    fill.Price * (1.0 + takeProfitPct),
		SLPrice:    fill.Price * (1.0 - stopLossPct),
		Pair:       pair,
	}
	return fill, true
}

// CheckExit closes the position when take-profit or stop-loss is reached.
// The position is cleared in full even when the simulated exit fill is
// partial; exits are always complete.
func (s *Simulator) CheckExit(ts time.Time, marketPrice float64) (Fill, string, bool) {
	if s.state != stateLong {
		return Fill{}, "", false
	}

	var reason string
	switch {
	case marketPrice >= s.pos.TPPrice:
		reason = ExitTakeProfit
	case marketPrice <= s.pos.SLPrice:
		reason = ExitStopLoss
	default:
		return Fill{}, "", false
	}

	fill := s.simulateFill(newOrder(ts, SideSell, marketPrice, s.pos.Qty, s.pos.Pair))
	s.state = stateFlat
	s.pos = Position{}
	return fill, reason, true
}

// simulateFill applies the partial/slippage/fee model. The draw order is
// fixed: one draw for the partial decision, one more for the ratio only when
// partial.
func (s *Simulator) simulateFill(o Order) Fill {
	partial := s.rng.Float64() < s.cfg.PartialFillProbability
	ratio := 1.0
	if partial {
		span := s.cfg.MaxPartialFillRatio - s.cfg.MinPartialFillRatio
		ratio = s.cfg.MinPartialFillRatio + s.rng.Float64()*span
	}
	qty := o.Qty * ratio

	slip := s.cfg.SlippageBps / 10000.0
	price := o.Price * (1.0 + slip)
	if o.Side == SideSell {
		price = o.Price * (1.0 - slip)
	}
	fee := price * qty * s.cfg.FeeRate

	return Fill{
		OrderID: o.ID,
		Ts:      o.Ts,
		Price:   price,
		Qty:     qty,
		Fee:     fee,
		Partial: partial,
	}
}
