// Package risk holds the three independent risk sub-policies: the hard daily
// stop, the position sizer, and the overtrading limiter.
package risk

// Reasons surfaced through the (allowed, reason) channel. Invalid state is a
// risk-stop condition, not a fault.
const (
	ReasonOK               = "ok"
	ReasonInvalidStart     = "invalid_start_balance"
	ReasonProfitCapHit     = "daily_profit_cap_hit"
	ReasonLossCapHit       = "daily_loss_cap_hit"
	ReasonRegimeAttemptCap = "regime_attempt_limit"
	ReasonDailyTradeCap    = "daily_trade_limit"
)
