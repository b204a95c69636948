package risk

// TradeLimiter throttles signal attempts per regime and total trades per day.
// An allowed call consumes one regime attempt even when no trade follows.
type TradeLimiter struct {
	maxSignalsPerRegime int
	maxTradesPerDay     int

	regimeKey      string
	regimeAttempts int
	tradeCount     int
}

// NewTradeLimiter creates a limiter with static caps.
func NewTradeLimiter(maxSignalsPerRegime, maxTradesPerDay int) *TradeLimiter {
	return &TradeLimiter{
		maxSignalsPerRegime: maxSignalsPerRegime,
		maxTradesPerDay:     maxTradesPerDay,
	}
}

// AllowSignal gates a signal under the current regime key. A key change
// resets the per-regime attempt counter before the caps are applied.
func (l *TradeLimiter) AllowSignal(regimeKey string) (bool, string) {
	if l.regimeKey != regimeKey {
		l.regimeKey = regimeKey
		l.regimeAttempts = 0
	}
	if l.regimeAttempts >= l.maxSignalsPerRegime {
		return false, ReasonRegimeAttemptCap
	}
	if l.tradeCount >= l.maxTradesPerDay {
		return false, ReasonDailyTradeCap
	}
	l.regimeAttempts++
	return true, ReasonOK
}

// MarkTrade records a completed entry fill.
func (l *TradeLimiter) MarkTrade() {
	l.tradeCount++
}

// TradeCount returns the number of completed entry fills.
func (l *TradeLimiter) TradeCount() int {
	return l.tradeCount
}
