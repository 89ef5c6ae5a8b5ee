package quote

import (
	"math"

	"quotebot/market"
)

// Config holds the spread parameters for quote generation. All values are
// positive except CloseThresholdUSD which may be zero.
type Config struct {
	SpreadBps         float64
	TakeProfitBps     float64
	CloseThresholdUSD float64
	OrderSizeUSD      float64
}

// Quote is one two-sided pricing decision. A price or size of 0 means "do
// not quote that side". Recomputed from scratch on every tick.
type Quote struct {
	BidPrice    float64
	AskPrice    float64
	BidSize     float64
	AskSize     float64
	FairPrice   float64
	SpreadBps   float64
	IsCloseMode bool
}

// tick-ratio tolerance for float noise so that an already-aligned price
// stays put instead of dropping a whole tick
const alignEps = 1e-9

// GenerateQuote derives a two-sided quote around fair. positionNotional is
// the signed USD value of the current position. A nil book skips the
// post-only safety clamps; nil meta skips tick and size rounding. fair must
// be > 0; the caller validates it.
func GenerateQuote(fair, positionNotional float64, book *market.Book, meta *market.Metadata, cfg Config) Quote {
	closeMode := math.Abs(positionNotional) > cfg.CloseThresholdUSD

	spread := cfg.SpreadBps
	if closeMode {
		spread = cfg.TakeProfitBps
	}

	bid := fair * (1 - spread/10000)
	ask := fair * (1 + spread/10000)
	if bid < 0 {
		bid = 0
	}
	if ask < 0 {
		ask = 0
	}

	if meta != nil {
		// conservative rounding: bid down, ask up, so the spread only widens
		bid = floorToTick(bid, meta.TickSize)
		ask = ceilToTick(ask, meta.TickSize)

		// post-only safety: never touch or cross the top of book, which a
		// maker-only order would reject or fill against
		if book != nil {
			if bestAsk, ok := book.BestAsk(); ok && bid >= bestAsk {
				bid = bestAsk - meta.TickSize
			}
			if bestBid, ok := book.BestBid(); ok && ask <= bestBid {
				ask = bestBid + meta.TickSize
			}
		}
	}

	// size against the rounded resting price, not the fair price: the
	// notional target has to be met by the order actually placed
	var bidSize, askSize float64
	if bid > 0 {
		bidSize = cfg.OrderSizeUSD / bid
	}
	if ask > 0 {
		askSize = cfg.OrderSizeUSD / ask
	}

	if closeMode {
		// only reduce: suppress the side that would grow the position
		if positionNotional > 0 {
			bidSize = 0
		} else {
			askSize = 0
		}
	}

	if meta != nil {
		if bidSize > 0 {
			bidSize = ceilToPrecision(bidSize, meta.SizePrecision)
		}
		if askSize > 0 {
			askSize = ceilToPrecision(askSize, meta.SizePrecision)
		}
	}

	return Quote{
		BidPrice:    bid,
		AskPrice:    ask,
		BidSize:     bidSize,
		AskSize:     askSize,
		FairPrice:   fair,
		SpreadBps:   spread,
		IsCloseMode: closeMode,
	}
}

func floorToTick(price, tick float64) float64 {
	if tick <= 0 {
		return price
	}
	return math.Floor(price/tick+alignEps) * tick
}

func ceilToTick(price, tick float64) float64 {
	if tick <= 0 {
		return price
	}
	return math.Ceil(price/tick-alignEps) * tick
}

// ceilToPrecision rounds up at the given number of decimals so that the
// minimum-notional constraint survives float truncation.
func ceilToPrecision(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Ceil(v*pow-alignEps) / pow
}
