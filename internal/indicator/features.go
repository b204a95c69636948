package indicator

import "main/internal/model"

// Bucket boundaries for discretized regime features.
const (
	volMediumFloor   = 0.001
	volHighFloor     = 0.003
	trendWeakFloor   = 0.001
	trendStrongFloor = 0.003
)

// VolatilityBucket discretizes volatility into low/medium/high.
func VolatilityBucket(vol float64) string {
	switch {
	case vol < volMediumFloor:
		return "low"
	case vol < volHighFloor:
		return "medium"
	default:
		return "high"
	}
}

// TrendBucket discretizes trend strength into flat/weak/strong.
func TrendBucket(trend float64) string {
	switch {
	case trend < trendWeakFloor:
		return "flat"
	case trend < trendStrongFloor:
		return "weak"
	default:
		return "strong"
	}
}

// FeatureConfig holds lookback periods for ComputeFeatures. Zero values are
// replaced with the defaults below.
type FeatureConfig struct {
	EMAPeriod   int
	RSIPeriod   int
	ATRPeriod   int
	BBPeriod    int
	ZPeriod     int
	VolWindow   int
	TrendWindow int
}

func (c FeatureConfig) withDefaults() FeatureConfig {
	if c.EMAPeriod <= 0 {
		c.EMAPeriod = 20
	}
	if c.RSIPeriod <= 0 {
		c.RSIPeriod = 14
	}
	if c.ATRPeriod <= 0 {
		c.ATRPeriod = 14
	}
	if c.BBPeriod <= 0 {
		c.BBPeriod = 20
	}
	if c.ZPeriod <= 0 {
		c.ZPeriod = 20
	}
	if c.VolWindow <= 0 {
		c.VolWindow = 30
	}
	if c.TrendWindow <= 0 {
		c.TrendWindow = 50
	}
	return c
}

// Features is a full indicator snapshot with discrete buckets.
type Features struct {
	EMA         float64
	RSI         float64
	ATR         float64
	BBLower     float64
	BBMid       float64
	BBUpper     float64
	ZScore      float64
	Volatility  float64
	Trend       float64
	VolBucket   string
	TrendBucket string
}

// ComputeFeatures evaluates the indicator set over the given candles.
func ComputeFeatures(candles []model.Candle, cfg FeatureConfig) Features {
	if len(candles) == 0 {
		return Features{RSI: 50.0, VolBucket: "low", TrendBucket: "flat"}
	}
	cfg = cfg.withDefaults()

	closes := make([]float64, len(candles))
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
	}

	emaWindow := closes
	emaPeriod := cfg.EMAPeriod
	if len(closes) >= cfg.EMAPeriod {
		emaWindow = closes[len(closes)-cfg.EMAPeriod:]
	} else if emaPeriod > len(closes) {
		emaPeriod = len(closes)
	}

	lower, mid, upper := Bollinger(closes, cfg.BBPeriod, 2.0)
	vol := RealizedVolatility(closes, cfg.VolWindow)
	trend := TrendStrength(closes, cfg.TrendWindow)

	return Features{
		EMA:         EMA(emaWindow, emaPeriod),
		RSI:         RSI(closes, cfg.RSIPeriod),
		ATR:         ATR(highs, lows, closes, cfg.ATRPeriod),
		BBLower:     lower,
		BBMid:       mid,
		BBUpper:     upper,
		ZScore:      ZScore(closes, cfg.ZPeriod),
		Volatility:  vol,
		Trend:       trend,
		VolBucket:   VolatilityBucket(vol),
		TrendBucket: TrendBucket(trend),
	}
}
