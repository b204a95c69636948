// Package strategy defines the signal contract between strategies and the
// engine, plus the default mean-reversion implementation.
package strategy

import "time"

// Signal actions and sides.
const (
	SideBuy     = "BUY"
	ActionEnter = "ENTER"
)

// Signal is a trading signal emitted by a strategy. It is consumed once and
// never mutated.
type Signal struct {
	Ts         time.Time
	Side       string
	Action     string
	Confidence float64
	Reason     string
	RefPrice   float64
}

// Strategy generates entry signals from trailing close history. The second
// return value is false when no signal is emitted.
type Strategy interface {
	Generate(ts time.Time, closes []float64) (Signal, bool)
}
