// Package recorder writes engine decisions to a JSON-line event log and
// summarizes them per day.
package recorder

import "time"

// Event kinds.
const (
	KindEntry = "entry"
	KindExit  = "exit"
	KindSkip  = "skip"
	KindStop  = "stop"
)

// Event is one logged engine decision.
type Event struct {
	Ts      time.Time `json:"ts"`
	Kind    string    `json:"kind"`
	Pair    string    `json:"pair"`
	Reason  string    `json:"reason,omitempty"`
	Price   float64   `json:"price,omitempty"`
	Qty     float64   `json:"qty,omitempty"`
	Fee     float64   `json:"fee,omitempty"`
	PnL     float64   `json:"pnl,omitempty"`
	Partial bool      `json:"partial,omitempty"`
	Equity  float64   `json:"equity,omitempty"`
}
