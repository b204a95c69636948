// Package mdg creates synthetic candle streams for paper trading runs.
package mdg

import (
	"math"
	"math/rand"
	"time"

	"main/internal/model"
)

// Config tunes the synthetic walk. Zero values fall back to defaults.
type Config struct {
	Seed       int64
	StartPrice float64
	StartTime  time.Time
}

// Generator produces a deterministic candle sequence: a slow sine wave with
// uniform noise on top. The same seed always yields the same series.
type Generator struct {
	rng   *rand.Rand
	price float64
	ts    time.Time
}

// NewGenerator creates a seeded candle generator.
func NewGenerator(cfg Config) *Generator {
	if cfg.StartPrice <= 0 {
		cfg.StartPrice = 50000
	}
	if cfg.StartTime.IsZero() {
		cfg.StartTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &Generator{
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		price: cfg.StartPrice,
		ts:    cfg.StartTime,
	}
}

// Next creates the next one-minute candle in sequence.
func (g *Generator) Next() model.Candle {
	open := g.price
	wave := math.Sin(float64(g.ts.Unix())/2400) * 0.0008
	noise := g.uniform(-0.0015, 0.0015)
	close := math.Max(1, open*(1+wave+noise))

	high := math.Max(open, close) * (1 + g.uniform(0, 0.0008))
	low := math.Min(open, close) * (1 - g.uniform(0, 0.0008))
	volume := g.uniform(0.1, 5)

	candle := model.Candle{
		Ts:     g.ts,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: volume,
	}

	g.price = close
	g.ts = g.ts.Add(time.Minute)
	return candle
}

// Warmup produces n candles at once, oldest first.
func (g *Generator) Warmup(n int) []model.Candle {
	out := make([]model.Candle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.Next())
	}
	return out
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}
