package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/bus"
)

func tradeAt(ts time.Time, price, qty string) BinanceTrade {
	raw := fmt.Sprintf(`{"e":"trade","s":"BTCUSDT","p":%q,"q":%q,"T":%d}`,
		price, qty, ts.UnixMilli())

	var trade BinanceTrade
	if err := json.Unmarshal([]byte(raw), &trade); err != nil {
		panic(err)
	}
	return trade
}

func TestAggregatorBucketsByMinute(t *testing.T) {
	queue := bus.NewCandleQueue(8)
	agg := NewAggregator(queue)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	agg.OnTrade(tradeAt(base.Add(5*time.Second), "100.0", "1.0"))
	agg.OnTrade(tradeAt(base.Add(20*time.Second), "103.0", "0.5"))
	agg.OnTrade(tradeAt(base.Add(40*time.Second), "99.0", "2.0"))
	agg.OnTrade(tradeAt(base.Add(50*time.Second), "101.0", "0.5"))

	// candle is not complete until the next minute opens
	assert.Equal(t, 0, queue.Len())

	agg.OnTrade(tradeAt(base.Add(65*time.Second), "102.0", "1.0"))

	require.Equal(t, 1, queue.Len())
	c, err := queue.Next(context.Background())
	require.NoError(t, err)

	assert.Equal(t, base, c.Ts)
	assert.Equal(t, 100.0, c.Open)
	assert.Equal(t, 103.0, c.High)
	assert.Equal(t, 99.0, c.Low)
	assert.Equal(t, 101.0, c.Close)
	assert.InDelta(t, 4.0, c.Volume, 1e-9)
}

func TestAggregatorSkipsDegenerateTrades(t *testing.T) {
	queue := bus.NewCandleQueue(8)
	agg := NewAggregator(queue)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	agg.OnTrade(tradeAt(base, "-5", "1.0"))
	agg.OnTrade(tradeAt(base, "100.0", "0"))

	agg.Flush()
	assert.Equal(t, 0, queue.Len())
}

func TestAggregatorFlushPublishesOpenCandle(t *testing.T) {
	queue := bus.NewCandleQueue(8)
	agg := NewAggregator(queue)

	base := time.Date(2025, 6, 1, 12, 0, 30, 0, time.UTC)
	agg.OnTrade(tradeAt(base, "100.0", "1.5"))
	agg.Flush()

	require.Equal(t, 1, queue.Len())
	c, err := queue.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, base.Truncate(time.Minute), c.Ts)
	assert.Equal(t, 100.0, c.Open)
	assert.Equal(t, 1.5, c.Volume)
}
