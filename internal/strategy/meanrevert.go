package strategy

import (
	"fmt"
	"math"
	"time"

	"main/internal/indicator"
)

// MeanReversionConfig tunes the deviation based entry rule.
type MeanReversionConfig struct {
	EMAPeriod         int
	EntryDeviationPct float64
}

// MeanReversion buys when price deviates below its EMA baseline by at least
// the configured percentage. It never emits exit signals; exits are handled by
// bracket orders.
type MeanReversion struct {
	cfg MeanReversionConfig
}

// NewMeanReversion creates a mean-reversion strategy.
func NewMeanReversion(cfg MeanReversionConfig) *MeanReversion {
	if cfg.EMAPeriod <= 0 {
		cfg.EMAPeriod = 20
	}
	return &MeanReversion{cfg: cfg}
}

// Generate returns a BUY/ENTER signal when the last close sits far enough
// below the EMA of the trailing window. Requires at least EMAPeriod closes.
func (s *MeanReversion) Generate(ts time.Time, closes []float64) (Signal, bool) {
	if len(closes) < s.cfg.EMAPeriod {
		return Signal{}, false
	}

	window := closes[len(closes)-s.cfg.EMAPeriod:]
	baseline := indicator.EMA(window, s.cfg.EMAPeriod)
	if baseline == 0 {
		return Signal{}, false
	}

	last := closes[len(closes)-1]
	deviation := (last - baseline) / baseline
	threshold := math.Abs(s.cfg.EntryDeviationPct)
	if deviation > -threshold {
		return Signal{}, false
	}

	confidence := math.Min(1, math.Abs(deviation)/math.Max(threshold, 1e-9))
	return Signal{
		Ts:         ts,
		Side:       SideBuy,
		Action:     ActionEnter,
		Confidence: confidence,
		Reason:     fmt.Sprintf("mean_revert_deviation=%.5f", deviation),
		RefPrice:   last,
	}, true
}
