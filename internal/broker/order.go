package broker

import (
	"time"

	"github.com/google/uuid"
)

// Side is the order direction.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Order is an ephemeral fill request. Only its fill survives, as balance and
// position deltas.
type Order struct {
	ID    string
	Ts    time.Time
	Side  Side
	Price float64
	Qty   float64
	Pair  string
}

// Fill is the simulated realization of an order, possibly partial.
type Fill struct {
	OrderID string
	Ts      time.Time
	Price   float64
	Qty     float64
	Fee     float64
	Partial bool
}

func newOrder(ts time.Time, side Side, price, qty float64, pair string) Order {
	return Order{
		ID:    uuid.NewString(),
		Ts:    ts,
		Side:  side,
		Price: price,
		Qty:   qty,
		Pair:  pair,
	}
}
