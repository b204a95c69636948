package mdg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorDeterministic(t *testing.T) {
	a := NewGenerator(Config{Seed: 42})
	b := NewGenerator(Config{Seed: 42})

	for i := 0; i < 100; i++ {
		ca, cb := a.Next(), b.Next()
		require.Equal(t, ca, cb, "candle %d diverged", i)
	}
}

func TestGeneratorSeedsDiffer(t *testing.T) {
	a := NewGenerator(Config{Seed: 1})
	b := NewGenerator(Config{Seed: 2})

	same := true
	for i := 0; i < 10; i++ {
		if a.Next().Close != b.Next().Close {
			same = false
		}
	}
	assert.False(t, same)
}

func TestGeneratorCandleShape(t *testing.T) {
	g := NewGenerator(Config{Seed: 7, StartPrice: 100, StartTime: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)})

	prev := g.Next()
	assert.Equal(t, 100.0, prev.Open)

	for i := 0; i < 500; i++ {
		c := g.Next()
		assert.Equal(t, prev.Close, c.Open, "candles must chain")
		assert.Equal(t, prev.Ts.Add(time.Minute), c.Ts)
		assert.GreaterOrEqual(t, c.High, c.Open)
		assert.GreaterOrEqual(t, c.High, c.Close)
		assert.LessOrEqual(t, c.Low, c.Open)
		assert.LessOrEqual(t, c.Low, c.Close)
		assert.Greater(t, c.Volume, 0.0)
		prev = c
	}
}

func TestGeneratorWarmup(t *testing.T) {
	g := NewGenerator(Config{Seed: 42})
	candles := g.Warmup(30)

	require.Len(t, candles, 30)
	for i := 1; i < len(candles); i++ {
		assert.True(t, candles[i].Ts.After(candles[i-1].Ts))
	}
}
