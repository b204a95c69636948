package risk

import "math"

// DailyLimits enforces mandatory daily profit/loss stop conditions.
type DailyLimits struct {
	profitCapPct float64
	lossCapPct   float64
}

// NewDailyLimits creates daily caps expressed as fractions of day-start equity.
func NewDailyLimits(profitCapPct, lossCapPct float64) *DailyLimits {
	return &DailyLimits{profitCapPct: profitCapPct, lossCapPct: lossCapPct}
}

// CanContinue reports whether trading may continue given the daily
// realized+unrealized equity move. The day-start reference equity is never
// reset here; day rollover is the caller's concern.
func (l *DailyLimits) CanContinue(startEquity, currentEquity float64) (bool, string) {
	if startEquity <= 0 {
		return false, ReasonInvalidStart
	}
	pnlPct := (currentEquity - startEquity) / startEquity
	if pnlPct >= l.profitCapPct {
		return false, ReasonProfitCapHit
	}
	if pnlPct <= -math.Abs(l.lossCapPct) {
		return false, ReasonLossCapHit
	}
	return true, ReasonOK
}
