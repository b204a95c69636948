package ingest

import (
	"strconv"
	"sync"
	"time"

	"github.com/yanun0323/logs"

	"main/internal/bus"
	"main/internal/model"
)

// Aggregator buckets raw trades into one-minute candles and publishes each
// completed candle to the queue. A candle closes when the first trade of the
// next minute arrives.
type Aggregator struct {
	mu      sync.Mutex
	queue   *bus.CandleQueue
	current model.Candle
	open    bool
}

// NewAggregator creates an aggregator that publishes to queue.
func NewAggregator(queue *bus.CandleQueue) *Aggregator {
	return &Aggregator{queue: queue}
}

// OnTrade folds one exchange trade into the current candle. Malformed trades
// are logged and skipped.
func (a *Aggregator) OnTrade(t BinanceTrade) {
	price, err := strconv.ParseFloat(t.Price.String(), 64)
	if err != nil {
		logs.Warnf("skip trade, bad price %v: %v", t.Price, err)
		return
	}
	qty, err := strconv.ParseFloat(t.Quantity.String(), 64)
	if err != nil {
		logs.Warnf("skip trade, bad quantity %v: %v", t.Quantity, err)
		return
	}
	if price <= 0 || qty <= 0 {
		return
	}

	ts := time.UnixMilli(t.TradeTime).UTC()
	bucket := ts.Truncate(time.Minute)

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.open {
		a.current = newCandle(bucket, price, qty)
		a.open = true
		return
	}

	if bucket.After(a.current.Ts) {
		a.publishLocked()
		a.current = newCandle(bucket, price, qty)
		return
	}

	c := &a.current
	if price > c.High {
		c.High = price
	}
	if price < c.Low {
		c.Low = price
	}
	c.Close = price
	c.Volume += qty
}

// Flush publishes the in-progress candle, if any.
func (a *Aggregator) Flush() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.open {
		a.publishLocked()
		a.open = false
	}
}

func (a *Aggregator) publishLocked() {
	if err := a.queue.Publish(a.current); err != nil {
		logs.Warnf("publish candle: %v", err)
	}
}

func newCandle(ts time.Time, price, qty float64) model.Candle {
	return model.Candle{
		Ts:     ts,
		Open:   price,
		High:   price,
		Low:    price,
		Close:  price,
		Volume: qty,
	}
}
