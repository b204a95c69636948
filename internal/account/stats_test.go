package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceEquity(t *testing.T) {
	b := NewBalance(10000)
	assert.Equal(t, 10000.0, b.Equity(50000))

	b.QuoteFree = 4000
	b.BaseFree = 0.1
	assert.InDelta(t, 4000+0.1*50000, b.Equity(50000), 1e-9)
}

func TestMarkExitWithoutEntryIsNoop(t *testing.T) {
	s := NewStats(10000)
	before := *s

	s.MarkExit(1234)

	assert.Equal(t, before.RealizedPnL, s.RealizedPnL)
	assert.Equal(t, before.Wins, s.Wins)
	assert.Equal(t, before.Losses, s.Losses)
	assert.Equal(t, before.TradesClosed, s.TradesClosed)
	assert.Equal(t, before.DailyTradeCount, s.DailyTradeCount)
}

func TestMarkEntryExitRoundTrip(t *testing.T) {
	s := NewStats(10000)

	s.MarkEntry(1000)
	pending, ok := s.PendingEntry()
	require.True(t, ok)
	assert.Equal(t, 1000.0, pending)

	s.MarkExit(1050)
	assert.InDelta(t, 50.0, s.RealizedPnL, 1e-9)
	assert.Equal(t, 1, s.TradesClosed)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 0, s.Losses)
	assert.Equal(t, 1, s.DailyTradeCount)
	if _, ok := s.PendingEntry(); ok {
		t.Fatal("pending entry should be cleared after exit")
	}

	// losing round trip
	s.MarkEntry(1000)
	s.MarkExit(900)
	assert.InDelta(t, -50.0, s.RealizedPnL, 1e-9)
	assert.Equal(t, 1, s.Losses)

	// break-even counts as a win
	s.MarkEntry(500)
	s.MarkExit(500)
	assert.Equal(t, 2, s.Wins)
}

func TestDrawdownIsMonotone(t *testing.T) {
	s := NewStats(10000)

	equities := []float64{10000, 9000, 9500, 11000, 10500, 9800, 12000, 11000}
	prev := 0.0
	for _, eq := range equities {
		s.UpdateEquity(eq)
		require.GreaterOrEqual(t, s.MaxDrawdown, prev, "drawdown decreased at equity %v", eq)
		prev = s.MaxDrawdown
	}
	// deepest swing: peak 11000 -> 9800
	assert.InDelta(t, (11000.0-9800.0)/11000.0, s.MaxDrawdown, 1e-9)
}

func TestEdgeOffRatio(t *testing.T) {
	s := NewStats(0)
	assert.Equal(t, 0.0, s.EdgeOffRatio())

	s.MarkEdgeState(true)
	s.MarkEdgeState(false)
	s.MarkEdgeState(false)
	s.MarkEdgeState(true)

	assert.Equal(t, 4, s.TotalTicks)
	assert.Equal(t, 2, s.EdgeOffTicks)
	assert.InDelta(t, 0.5, s.EdgeOffRatio(), 1e-9)
}

func TestWinRateEmpty(t *testing.T) {
	s := NewStats(0)
	assert.Equal(t, 0.0, s.WinRate())
}

func TestSummarize(t *testing.T) {
	s := NewStats(10000)
	s.MarkEntry(1000)
	s.MarkExit(1100)
	s.MarkEdgeState(false)
	s.UpdateEquity(10100)

	m := Summarize(s, 10000, 10100)

	assert.InDelta(t, 100.0, m.DailyPnL, 1e-9)
	assert.Equal(t, 1.0, m.WinRate)
	assert.Equal(t, 1.0, m.TradesPerDay)
	assert.Equal(t, 1.0, m.EdgeOffRatio)
	assert.InDelta(t, 100.0, m.RealizedPnL, 1e-9)
	assert.Equal(t, 1, m.TradesClosed)
	assert.Equal(t, 10100.0, m.PeakEquity)
	assert.Equal(t, 1, m.TotalTicks)
}
