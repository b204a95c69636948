package recorder

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterReadDayRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	w, err := NewWriter(path)
	require.NoError(t, err)

	day1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	require.NoError(t, w.Write(Event{Ts: day1, Kind: KindEntry, Pair: "BTC/USDT", Price: 100, Qty: 1, Fee: 0.1}))
	require.NoError(t, w.Write(Event{Ts: day1.Add(time.Hour), Kind: KindExit, Pair: "BTC/USDT", Reason: "take_profit", PnL: 5, Fee: 0.1}))
	require.NoError(t, w.Write(Event{Ts: day2, Kind: KindSkip, Pair: "BTC/USDT", Reason: "edge_off"}))
	require.NoError(t, w.Close())

	events, err := ReadDay(path, day1)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, KindEntry, events[0].Kind)
	assert.Equal(t, KindExit, events[1].Kind)
	assert.Equal(t, "take_profit", events[1].Reason)

	events, err = ReadDay(path, day2)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, KindSkip, events[0].Kind)
}

func TestReadDaySkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	body := `{"ts":"2025-06-01T10:00:00Z","kind":"entry","pair":"BTC/USDT"}
not json
{"ts":"2025-06-01T11:00:00Z","kind":"exit","pair":"BTC/USDT","pnl":-2}
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	events, err := ReadDay(path, day)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestSummarize(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	events := []Event{
		{Ts: day, Kind: KindEntry, Fee: 0.5},
		{Ts: day, Kind: KindExit, PnL: 10, Fee: 0.5},
		{Ts: day, Kind: KindEntry, Fee: 0.4},
		{Ts: day, Kind: KindExit, PnL: -4, Fee: 0.4},
		{Ts: day, Kind: KindSkip},
	}

	s := Summarize(day, events)
	assert.Equal(t, 2, s.Entries)
	assert.Equal(t, 2, s.Exits)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.InDelta(t, 6.0, s.PnL, 1e-9)
	assert.InDelta(t, 1.8, s.Fees, 1e-9)
	assert.Contains(t, s.String(), "pnl=6.00")
}
