package market

import "errors"

// ErrNotFound is returned when a symbol has no resolvable market metadata.
var ErrNotFound = errors.New("market not found")

// Metadata describes the per-symbol trading constraints. Immutable once
// set for a symbol; replaced wholesale when the exchange changes it.
type Metadata struct {
	MarketID       int     // asset index used by the wire protocol
	TickSize       float64 // minimum price increment, > 0
	SizePrecision  int     // decimal places for order size
	PricePrecision int     // decimal places for order price
}

type Level struct {
	Price float64
	Size  float64
}

// Book is a point-in-time orderbook snapshot. Bids are sorted best-first
// (descending), asks best-first (ascending).
type Book struct {
	Bids []Level
	Asks []Level
}

func (b *Book) BestBid() (float64, bool) {
	if b == nil || len(b.Bids) == 0 {
		return 0, false
	}
	return b.Bids[0].Price, true
}

func (b *Book) BestAsk() (float64, bool) {
	if b == nil || len(b.Asks) == 0 {
		return 0, false
	}
	return b.Asks[0].Price, true
}
