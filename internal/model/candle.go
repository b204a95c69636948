package model

import "time"

// Candle is one OHLCV summary for a fixed time bucket. Candles are immutable
// once produced and are the source of truth for all downstream computation.
type Candle struct {
	Ts     time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}
