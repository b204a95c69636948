// Package bus carries candles from feeds to the engine through a bounded
// in-memory queue.
package bus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"main/internal/model"
)

var ErrQueueClosed = errors.New("candle queue closed")

// CandleQueue is a bounded queue that drops the oldest candle when full.
// A slow consumer sees fresh data instead of an ever-growing backlog.
type CandleQueue struct {
	mu     sync.Mutex
	ch     chan model.Candle
	closed uint32
	drops  uint64
}

// NewCandleQueue allocates a queue with the given capacity.
func NewCandleQueue(capacity int) *CandleQueue {
	if capacity <= 0 {
		capacity = 1
	}
	return &CandleQueue{ch: make(chan model.Candle, capacity)}
}

// Publish enqueues a candle, evicting the oldest entry when the buffer is
// full. Returns ErrQueueClosed after Close.
func (q *CandleQueue) Publish(c model.Candle) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if atomic.LoadUint32(&q.closed) != 0 {
		return ErrQueueClosed
	}
	for {
		select {
		case q.ch <- c:
			return nil
		default:
			select {
			case <-q.ch:
				atomic.AddUint64(&q.drops, 1)
			default:
			}
		}
	}
}

// Next blocks until a candle is available, the context is done, or the queue
// is closed and drained.
func (q *CandleQueue) Next(ctx context.Context) (model.Candle, error) {
	select {
	case <-ctx.Done():
		return model.Candle{}, ctx.Err()
	case c, ok := <-q.ch:
		if !ok {
			return model.Candle{}, ErrQueueClosed
		}
		return c, nil
	}
}

// Close stops the queue from accepting new candles. Buffered candles remain
// readable until drained.
func (q *CandleQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if atomic.CompareAndSwapUint32(&q.closed, 0, 1) {
		close(q.ch)
	}
}

// Drops reports how many candles were evicted by backpressure.
func (q *CandleQueue) Drops() uint64 {
	return atomic.LoadUint64(&q.drops)
}

// Len reports the number of buffered candles.
func (q *CandleQueue) Len() int {
	return len(q.ch)
}
