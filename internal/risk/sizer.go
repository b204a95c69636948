package risk

import "math"

// qtyScale truncates sized quantities to 6 decimal places.
const qtyScale = 1e6

// PositionSizer converts available quote balance into base quantity using a
// fixed per-trade risk budget.
type PositionSizer struct {
	riskPerTradePct float64
	minNotional     float64
}

// NewPositionSizer creates a sizer with static risk parameters.
func NewPositionSizer(riskPerTradePct, minNotional float64) *PositionSizer {
	return &PositionSizer{riskPerTradePct: riskPerTradePct, minNotional: minNotional}
}

// Size returns the base quantity to buy; 0 means skip due to insufficient
// capital. The result is truncated, never rounded up.
func (s *PositionSizer) Size(availableQuote, price float64) float64 {
	if availableQuote <= 0 || price <= 0 {
		return 0
	}
	notional := availableQuote * s.riskPerTradePct
	if notional < s.minNotional {
		notional = s.minNotional
	}
	if notional > availableQuote {
		return 0
	}
	return math.Floor(notional/price*qtyScale) / qtyScale
}
