package account

// Stats accumulates realized P&L, win/loss counts, drawdown, and edge
// duty-cycle statistics. The pending entry slot holds at most one value,
// pairing an open fill with its eventual close fill.
type Stats struct {
	RealizedPnL     float64
	Wins            int
	Losses          int
	PeakEquity      float64
	MaxDrawdown     float64
	TradesClosed    int
	EdgeOffTicks    int
	TotalTicks      int
	DailyTradeCount int

	entryValue float64
	hasEntry   bool
}

// NewStats creates stats seeded with the starting peak equity.
func NewStats(peakEquity float64) *Stats {
	return &Stats{PeakEquity: peakEquity}
}

// MarkEntry stores the gross entry cost for the next close calculation. Any
// stale value is overwritten; the single-position invariant guarantees no
// overlapping entries.
func (s *Stats) MarkEntry(grossCost float64) {
	s.entryValue = grossCost
	s.hasEntry = true
}

// MarkExit finalizes round-trip P&L and win/loss stats. No-op when no entry
// is pending.
func (s *Stats) MarkExit(grossProceeds float64) {
	if !s.hasEntry {
		return
	}
	pnl := grossProceeds - s.entryValue
	s.RealizedPnL += pnl
	s.TradesClosed++
	s.DailyTradeCount++
	if pnl >= 0 {
		s.Wins++
	} else {
		s.Losses++
	}
	s.entryValue = 0
	s.hasEntry = false
}

// PendingEntry returns the stored gross entry cost, if one is pending.
func (s *Stats) PendingEntry() (float64, bool) {
	return s.entryValue, s.hasEntry
}

// UpdateEquity advances the high-water mark and the monotone max drawdown.
func (s *Stats) UpdateEquity(equity float64) {
	if equity > s.PeakEquity {
		s.PeakEquity = equity
	}
	if s.PeakEquity > 0 {
		dd := (s.PeakEquity - equity) / s.PeakEquity
		if dd > s.MaxDrawdown {
			s.MaxDrawdown = dd
		}
	}
}

// MarkEdgeState accumulates the edge ON/OFF duty cycle.
func (s *Stats) MarkEdgeState(isOn bool) {
	s.TotalTicks++
	if !isOn {
		s.EdgeOffTicks++
	}
}

// WinRate returns the win ratio over closed trades, 0 when none closed.
func (s *Stats) WinRate() float64 {
	if s.TradesClosed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.TradesClosed)
}

// EdgeOffRatio returns the fraction of ticks with the edge off, 0 when no
// ticks were recorded.
func (s *Stats) EdgeOffRatio() float64 {
	if s.TotalTicks == 0 {
		return 0
	}
	return float64(s.EdgeOffTicks) / float64(s.TotalTicks)
}
