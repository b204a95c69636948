// Package indicator provides stateless numeric helpers shared by the strategy
// and edge modules. Arithmetic edge cases resolve to neutral defaults instead
// of returning errors.
package indicator

import "math"

// EMA returns the exponential moving average over the full series, seeded from
// the first value. Returns 0 for an empty series or non-positive period.
func EMA(values []float64, period int) float64 {
	if period <= 0 || len(values) == 0 {
		return 0
	}
	k := 2.0 / (float64(period) + 1.0)
	acc := values[0]
	for _, v := range values[1:] {
		acc = v*k + acc*(1.0-k)
	}
	return acc
}

// PctChange returns the relative change from old to new, 0 when old is 0.
func PctChange(newValue, oldValue float64) float64 {
	if oldValue == 0 {
		return 0
	}
	return (newValue - oldValue) / oldValue
}

// RealizedVolatility returns the mean absolute per-tick return over the
// trailing window, or 0 when history is insufficient.
func RealizedVolatility(closes []float64, window int) float64 {
	if window <= 0 || len(closes) < window+1 {
		return 0
	}
	sum := 0.0
	for i := len(closes) - window; i < len(closes); i++ {
		sum += math.Abs(PctChange(closes[i], closes[i-1]))
	}
	return sum / float64(window)
}

// TrendStrength returns the magnitude of the net relative move over the
// trailing window, or 0 when history is insufficient.
func TrendStrength(closes []float64, window int) float64 {
	if window <= 0 || len(closes) < window {
		return 0
	}
	return math.Abs(PctChange(closes[len(closes)-1], closes[len(closes)-window]))
}

// RangeBoundRatio returns net move divided by total high-low range over the
// given window. Lower values imply more sideways behavior. Returns 1.0 for
// empty input or a non-positive range.
func RangeBoundRatio(highs, lows, closes []float64) float64 {
	if len(highs) == 0 || len(lows) == 0 || len(closes) == 0 {
		return 1.0
	}
	maxHigh := highs[0]
	for _, v := range highs[1:] {
		if v > maxHigh {
			maxHigh = v
		}
	}
	minLow := lows[0]
	for _, v := range lows[1:] {
		if v < minLow {
			minLow = v
		}
	}
	priceRange := maxHigh - minLow
	if priceRange <= 0 {
		return 1.0
	}
	return math.Abs(closes[len(closes)-1]-closes[0]) / priceRange
}

// RSI computes the relative strength index using simple average gains and
// losses. Returns 50 when history is insufficient, 100 when there are no
// losses in the window.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return 50.0
	}
	gains := 0.0
	losses := 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta >= 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}

// ATR computes the average true range with a simple average. Returns 0 when
// history is insufficient.
func ATR(highs, lows, closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return 0
	}
	sum := 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		prevClose := closes[i-1]
		tr := highs[i] - lows[i]
		if v := math.Abs(highs[i] - prevClose); v > tr {
			tr = v
		}
		if v := math.Abs(lows[i] - prevClose); v > tr {
			tr = v
		}
		sum += tr
	}
	return sum / float64(period)
}

// Bollinger returns (lower, middle, upper) bands over the trailing period.
// With insufficient history all three collapse to the last close.
func Bollinger(closes []float64, period int, stddevs float64) (lower, mid, upper float64) {
	if period <= 0 || len(closes) < period {
		last := 0.0
		if len(closes) > 0 {
			last = closes[len(closes)-1]
		}
		return last, last, last
	}
	window := closes[len(closes)-period:]
	mid = mean(window)
	std := pstdev(window, mid)
	return mid - stddevs*std, mid, mid + stddevs*std
}

// ZScore returns the z-score of the latest close over the trailing window, 0
// when history is insufficient or the window has zero deviation.
func ZScore(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period {
		return 0
	}
	window := closes[len(closes)-period:]
	m := mean(window)
	std := pstdev(window, m)
	if std == 0 {
		return 0
	}
	return (closes[len(closes)-1] - m) / std
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// pstdev is the population standard deviation around the given mean.
func pstdev(values []float64, m float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
