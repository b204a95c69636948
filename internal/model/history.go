package model

// History holds the trailing candle highs, lows and closes in a fixed-capacity
// ring buffer. Pushing past capacity overwrites the oldest entry, so memory
// stays bounded regardless of run length.
type History struct {
	highs  []float64
	lows   []float64
	closes []float64
	head   int
	size   int
}

// NewHistory allocates a history ring with the given capacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = 1
	}
	return &History{
		highs:  make([]float64, capacity),
		lows:   make([]float64, capacity),
		closes: make([]float64, capacity),
	}
}

// Push appends one candle, evicting the oldest entry when full.
func (h *History) Push(c Candle) {
	idx := (h.head + h.size) % len(h.closes)
	if h.size == len(h.closes) {
		idx = h.head
		h.head = (h.head + 1) % len(h.closes)
	} else {
		h.size++
	}
	h.highs[idx] = c.High
	h.lows[idx] = c.Low
	h.closes[idx] = c.Close
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	return h.size
}

// Cap returns the ring capacity.
func (h *History) Cap() int {
	return len(h.closes)
}

// Close returns the i-th close, oldest first.
func (h *History) Close(i int) float64 {
	return h.closes[h.index(i)]
}

// High returns the i-th high, oldest first.
func (h *History) High(i int) float64 {
	return h.highs[h.index(i)]
}

// Low returns the i-th low, oldest first.
func (h *History) Low(i int) float64 {
	return h.lows[h.index(i)]
}

// LastClose returns the most recent close, or 0 when empty.
func (h *History) LastClose() float64 {
	if h.size == 0 {
		return 0
	}
	return h.Close(h.size - 1)
}

// Closes returns an oldest-first copy of the stored closes.
func (h *History) Closes() []float64 {
	return h.copyOut(h.closes)
}

// Highs returns an oldest-first copy of the stored highs.
func (h *History) Highs() []float64 {
	return h.copyOut(h.highs)
}

// Lows returns an oldest-first copy of the stored lows.
func (h *History) Lows() []float64 {
	return h.copyOut(h.lows)
}

func (h *History) index(i int) int {
	return (h.head + i) % len(h.closes)
}

func (h *History) copyOut(src []float64) []float64 {
	out := make([]float64, h.size)
	for i := 0; i < h.size; i++ {
		out[i] = src[h.index(i)]
	}
	return out
}
