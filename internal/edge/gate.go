package edge

import "fmt"

// Decision is the trade-permission verdict produced by the gate. It carries
// no memory of past decisions.
type Decision struct {
	IsOn       bool
	Confidence float64
	Reason     string
}

// GateConfig defines the gate thresholds.
type GateConfig struct {
	VolatilityThreshold    float64
	TrendStrengthThreshold float64
	MinConfidence          float64
}

// Gate is the central edge ON/OFF evaluator with confidence scoring.
type Gate struct {
	cfg GateConfig
}

// NewGate creates a gate with static thresholds.
func NewGate(cfg GateConfig) *Gate {
	return &Gate{cfg: cfg}
}

// Evaluate reports whether the current regime supports mean reversion
// entries. The edge is on only when all three sub-checks hold and the
// resulting confidence clears the configured minimum.
func (g *Gate) Evaluate(regime RegimeState) Decision {
	volOK := regime.Volatility <= g.cfg.VolatilityThreshold
	trendOK := regime.TrendStrength <= g.cfg.TrendStrengthThreshold
	rangeOK := regime.IsRangeBound

	passed := 0
	for _, ok := range []bool{volOK, trendOK, rangeOK} {
		if ok {
			passed++
		}
	}
	confidence := float64(passed) / 3.0
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	isOn := volOK && trendOK && rangeOK && confidence >= g.cfg.MinConfidence
	reason := "edge_on"
	if !isOn {
		reason = fmt.Sprintf("edge_off(vol_ok=%t,trend_ok=%t,range_ok=%t)", volOK, trendOK, rangeOK)
	}
	return Decision{IsOn: isOn, Confidence: confidence, Reason: reason}
}
