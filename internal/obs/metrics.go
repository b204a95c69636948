// Package obs collects lightweight counters for engine decisions.
package obs

import (
	"sync/atomic"
	"time"
)

// Outcome classifies what a single tick evaluation resulted in.
type Outcome uint8

const (
	OutcomeMalformed Outcome = iota
	OutcomeDailyStop
	OutcomeExit
	OutcomePositionOpen
	OutcomeNoSignal
	OutcomeEdgeOff
	OutcomeLimited
	OutcomeInsufficientBalance
	OutcomeEntryRejected
	OutcomeEntry
	outcomeCount
)

// String names the outcome for logs and summaries.
func (o Outcome) String() string {
	switch o {
	case OutcomeMalformed:
		return "malformed"
	case OutcomeDailyStop:
		return "daily_stop"
	case OutcomeExit:
		return "exit"
	case OutcomePositionOpen:
		return "position_open"
	case OutcomeNoSignal:
		return "no_signal"
	case OutcomeEdgeOff:
		return "edge_off"
	case OutcomeLimited:
		return "limited"
	case OutcomeInsufficientBalance:
		return "insufficient_balance"
	case OutcomeEntryRejected:
		return "entry_rejected"
	case OutcomeEntry:
		return "entry"
	default:
		return "unknown"
	}
}

// Metrics collects per-outcome counters and step latency stats.
type Metrics struct {
	outcomeCounts [outcomeCount]uint64
	ticks         uint64

	stepLatency LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	Ticks         uint64
	OutcomeCounts map[Outcome]uint64
	StepLatency   LatencySnapshot
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ObserveOutcome counts one tick evaluation result.
func (m *Metrics) ObserveOutcome(o Outcome) {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.ticks, 1)
	idx := int(o)
	if idx >= 0 && idx < len(m.outcomeCounts) {
		atomic.AddUint64(&m.outcomeCounts[idx], 1)
	}
}

// ObserveStep measures how long one tick evaluation took.
func (m *Metrics) ObserveStep(d time.Duration) {
	if m == nil {
		return
	}
	m.stepLatency.Observe(d)
}

// Count returns the current counter value for one outcome.
func (m *Metrics) Count(o Outcome) uint64 {
	if m == nil {
		return 0
	}
	idx := int(o)
	if idx < 0 || idx >= len(m.outcomeCounts) {
		return 0
	}
	return atomic.LoadUint64(&m.outcomeCounts[idx])
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	outcomes := make(map[Outcome]uint64)
	for i := range m.outcomeCounts {
		if v := atomic.LoadUint64(&m.outcomeCounts[i]); v > 0 {
			outcomes[Outcome(i)] = v
		}
	}
	return Snapshot{
		Ticks:         atomic.LoadUint64(&m.ticks),
		OutcomeCounts: outcomes,
		StepLatency:   m.stepLatency.Snapshot(),
	}
}

// Observe records a duration sample.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	for {
		min := atomic.LoadUint64(&l.min)
		if min != 0 && nanos >= min {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, min, nanos) {
			break
		}
	}

	for {
		max := atomic.LoadUint64(&l.max)
		if nanos <= max {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, max, nanos) {
			break
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	sum := atomic.LoadUint64(&l.sum)
	min := atomic.LoadUint64(&l.min)
	max := atomic.LoadUint64(&l.max)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(min),
		Max:   time.Duration(max),
		Avg:   time.Duration(sum / count),
	}
}
