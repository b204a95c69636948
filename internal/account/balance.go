// Package account tracks paper balances, realized performance statistics, and
// the reporting snapshot derived from them.
package account

// Balance tracks quote/base free balances plus the start-of-day reference
// equity. It is mutated exclusively by applying fills.
type Balance struct {
	QuoteFree      float64
	BaseFree       float64
	DayStartEquity float64
}

// NewBalance creates a balance holding only quote currency; the day-start
// reference equals the initial deposit.
func NewBalance(initialQuote float64) *Balance {
	return &Balance{QuoteFree: initialQuote, DayStartEquity: initialQuote}
}

// Equity returns total equity marked to the given price.
func (b *Balance) Equity(markPrice float64) float64 {
	return b.QuoteFree + b.BaseFree*markPrice
}

// StartNewDay resets the day-start reference equity. Rollover is driven by
// the caller, never from inside the pipeline.
func (b *Balance) StartNewDay(equity float64) {
	b.DayStartEquity = equity
}
