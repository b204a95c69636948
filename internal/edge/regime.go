// Package edge classifies market regimes and decides whether current
// conditions permit trading.
package edge

import (
	"fmt"

	"main/internal/indicator"
	"main/internal/model"
)

// RegimeState is a point-in-time market regime snapshot. It is recomputed
// fresh every tick from trailing history and never persisted.
type RegimeState struct {
	IsRangeBound  bool
	Volatility    float64
	TrendStrength float64
	RangeRatio    float64
}

// Key buckets the regime for attempt counting. Rounding to four decimals
// keeps near-identical regimes in the same bucket.
func (r RegimeState) Key() string {
	return fmt.Sprintf("range=%t|vol=%.4f|trend=%.4f", r.IsRangeBound, r.Volatility, r.TrendStrength)
}

// DetectorConfig defines the lookback windows and the range threshold.
type DetectorConfig struct {
	VolatilityWindow    int
	TrendWindow         int
	RangeRatioThreshold float64
}

// Detector classifies trailing price history into range/trend buckets.
type Detector struct {
	cfg DetectorConfig
}

// NewDetector creates a detector with static windows.
func NewDetector(cfg DetectorConfig) *Detector {
	return &Detector{cfg: cfg}
}

// Classify computes the regime snapshot used by the gate.
func (d *Detector) Classify(hist *model.History) RegimeState {
	closes := hist.Closes()
	highs := hist.Highs()
	lows := hist.Lows()

	vol := indicator.RealizedVolatility(closes, d.cfg.VolatilityWindow)
	trend := indicator.TrendStrength(closes, d.cfg.TrendWindow)
	w := d.cfg.TrendWindow
	ratio := indicator.RangeBoundRatio(tail(highs, w), tail(lows, w), tail(closes, w))

	return RegimeState{
		IsRangeBound:  ratio <= d.cfg.RangeRatioThreshold,
		Volatility:    vol,
		TrendStrength: trend,
		RangeRatio:    ratio,
	}
}

func tail(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
