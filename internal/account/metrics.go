package account

// Metrics is the reporting snapshot produced at the end of a run: the headline
// figures plus the raw stats fields.
type Metrics struct {
	DailyPnL     float64 `json:"daily_pnl"`
	WinRate      float64 `json:"win_rate"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	TradesPerDay float64 `json:"trades_per_day"`
	EdgeOffRatio float64 `json:"edge_off_ratio"`

	RealizedPnL     float64 `json:"realized_pnl"`
	Wins            int     `json:"wins"`
	Losses          int     `json:"losses"`
	PeakEquity      float64 `json:"peak_equity"`
	TradesClosed    int     `json:"trades_closed"`
	EdgeOffTicks    int     `json:"edge_off_ticks"`
	TotalTicks      int     `json:"total_ticks"`
	DailyTradeCount int     `json:"daily_trade_count"`
}

// Summarize builds the metrics snapshot for reporting.
func Summarize(stats *Stats, dayStartEquity, currentEquity float64) Metrics {
	return Metrics{
		DailyPnL:     currentEquity - dayStartEquity,
		WinRate:      stats.WinRate(),
		MaxDrawdown:  stats.MaxDrawdown,
		TradesPerDay: float64(stats.DailyTradeCount),
		EdgeOffRatio: stats.EdgeOffRatio(),

		RealizedPnL:     stats.RealizedPnL,
		Wins:            stats.Wins,
		Losses:          stats.Losses,
		PeakEquity:      stats.PeakEquity,
		TradesClosed:    stats.TradesClosed,
		EdgeOffTicks:    stats.EdgeOffTicks,
		TotalTicks:      stats.TotalTicks,
		DailyTradeCount: stats.DailyTradeCount,
	}
}
