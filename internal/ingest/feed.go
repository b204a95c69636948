package ingest

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"main/internal/bus"
	"main/internal/model"
)

// LiveFeed streams one-minute candles built from a Binance trade stream.
type LiveFeed struct {
	symbol string
	queue  *bus.CandleQueue
	agg    *Aggregator

	cancel context.CancelFunc
	done   chan struct{}
}

// NewLiveFeed creates a feed for one symbol, e.g. "BTCUSDT".
func NewLiveFeed(symbol string, queueCapacity int) *LiveFeed {
	queue := bus.NewCandleQueue(queueCapacity)
	return &LiveFeed{
		symbol: symbol,
		queue:  queue,
		agg:    NewAggregator(queue),
		done:   make(chan struct{}),
	}
}

// Start connects, subscribes and begins aggregating in the background.
// Connection attempts retry with exponential backoff until ctx is done.
func (f *LiveFeed) Start(ctx context.Context) error {
	ctx, f.cancel = context.WithCancel(ctx)

	pub := NewBinancePub(ctx)

	connect := func() error {
		if err := pub.StartWebsocket(ctx); err != nil {
			logs.Warnf("connect %s stream: %v", f.symbol, err)
			return err
		}
		if err := pub.SubscribeTrade(ctx, f.symbol); err != nil {
			logs.Warnf("subscribe %s trades: %v", f.symbol, err)
			return err
		}
		return nil
	}

	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.MaxInterval = 30 * time.Second
	backoffStrategy.MaxElapsedTime = 0

	if err := backoff.Retry(connect, backoff.WithContext(backoffStrategy, ctx)); err != nil {
		f.cancel()
		close(f.done)
		return errors.Wrap(err, "start live feed").With("symbol", f.symbol)
	}

	unsubscribe := pub.ObserveTrade(ctx, f.agg.OnTrade)

	go func() {
		defer close(f.done)
		<-ctx.Done()
		unsubscribe()
		f.agg.Flush()

		// give in-flight frames a moment to drain before forcing the close
		closed := false
		for i := 0; i < 10 && !closed; i++ {
			if closed = pub.CloseWhenEmpty(); !closed {
				time.Sleep(100 * time.Millisecond)
			}
		}
		if !closed {
			pub.Close()
		}
		f.queue.Close()
	}()

	logs.Infof("live feed started, symbol: %s", f.symbol)
	return nil
}

// Next blocks until the next completed candle.
func (f *LiveFeed) Next(ctx context.Context) (model.Candle, error) {
	return f.queue.Next(ctx)
}

// Stop tears the feed down and waits for the background goroutine to exit.
func (f *LiveFeed) Stop() {
	if f.cancel != nil {
		f.cancel()
	}
	<-f.done
}

// Drops reports candles evicted by backpressure.
func (f *LiveFeed) Drops() uint64 {
	return f.queue.Drops()
}
