package quote

import (
	"math"
	"testing"

	"quotebot/market"
)

var baseCfg = Config{
	SpreadBps:         10,
	TakeProfitBps:     5,
	CloseThresholdUSD: 500,
	OrderSizeUSD:      100,
}

func TestGenerateQuote_NoMetadataNoBook(t *testing.T) {
	q := GenerateQuote(100, 0, nil, nil, baseCfg)

	if math.Abs(q.BidPrice-99.9) > 1e-9 {
		t.Errorf("BidPrice = %v, want 99.9", q.BidPrice)
	}
	if math.Abs(q.AskPrice-100.1) > 1e-9 {
		t.Errorf("AskPrice = %v, want 100.1", q.AskPrice)
	}
	if q.FairPrice != 100 {
		t.Errorf("FairPrice = %v, want 100", q.FairPrice)
	}
	if q.SpreadBps != 10 {
		t.Errorf("SpreadBps = %v, want 10", q.SpreadBps)
	}
	if q.IsCloseMode {
		t.Error("IsCloseMode = true, want false")
	}
}

func TestGenerateQuote_SpreadStraddlesFair(t *testing.T) {
	fairs := []float64{0.5, 1, 42.1337, 100, 65000}
	for _, fair := range fairs {
		q := GenerateQuote(fair, 0, nil, nil, baseCfg)
		if !(q.BidPrice < fair && fair < q.AskPrice) {
			t.Errorf("fair %v: bid %v / ask %v do not straddle fair", fair, q.BidPrice, q.AskPrice)
		}
	}
}

func TestGenerateQuote_SpreadProportionalToBps(t *testing.T) {
	narrow := GenerateQuote(100, 0, nil, nil, Config{SpreadBps: 10, TakeProfitBps: 5, CloseThresholdUSD: 500, OrderSizeUSD: 100})
	wide := GenerateQuote(100, 0, nil, nil, Config{SpreadBps: 20, TakeProfitBps: 5, CloseThresholdUSD: 500, OrderSizeUSD: 100})

	ratio := (wide.AskPrice - wide.BidPrice) / (narrow.AskPrice - narrow.BidPrice)
	if math.Abs(ratio-2) > 1e-9 {
		t.Errorf("doubling spread bps gave width ratio %v, want 2", ratio)
	}
}

func TestGenerateQuote_CloseModeThreshold(t *testing.T) {
	tests := []struct {
		name      string
		notional  float64
		closeMode bool
	}{
		{"flat", 0, false},
		{"below threshold long", 499, false},
		{"exactly threshold", 500, false},
		{"exactly negative threshold", -500, false},
		{"above threshold long", 500.01, true},
		{"above threshold short", -501, true},
		{"far above", 10000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := GenerateQuote(100, tt.notional, nil, nil, baseCfg)
			if q.IsCloseMode != tt.closeMode {
				t.Errorf("notional %v: IsCloseMode = %v, want %v", tt.notional, q.IsCloseMode, tt.closeMode)
			}
		})
	}
}

func TestGenerateQuote_CloseModeSuppressesGrowingSide(t *testing.T) {
	long := GenerateQuote(100, 600, nil, nil, baseCfg)
	if !long.IsCloseMode {
		t.Fatal("expected close mode for notional 600")
	}
	if long.BidSize != 0 {
		t.Errorf("long position: BidSize = %v, want 0", long.BidSize)
	}
	if long.AskSize == 0 {
		t.Error("long position: AskSize suppressed, want nonzero")
	}

	short := GenerateQuote(100, -600, nil, nil, baseCfg)
	if short.AskSize != 0 {
		t.Errorf("short position: AskSize = %v, want 0", short.AskSize)
	}
	if short.BidSize == 0 {
		t.Error("short position: BidSize suppressed, want nonzero")
	}
}

func TestGenerateQuote_CloseModeUsesTakeProfitSpread(t *testing.T) {
	q := GenerateQuote(100, 600, nil, nil, baseCfg)
	if q.SpreadBps != baseCfg.TakeProfitBps {
		t.Errorf("SpreadBps = %v, want take profit spread %v", q.SpreadBps, baseCfg.TakeProfitBps)
	}
}

func TestGenerateQuote_TickRounding(t *testing.T) {
	meta := &market.Metadata{MarketID: 0, TickSize: 0.5, SizePrecision: 3, PricePrecision: 1}

	q := GenerateQuote(100, 0, nil, meta, baseCfg)

	// raw bid 99.9 floors to 99.5, raw ask 100.1 ceils to 100.5
	if math.Abs(q.BidPrice-99.5) > 1e-9 {
		t.Errorf("BidPrice = %v, want 99.5", q.BidPrice)
	}
	if math.Abs(q.AskPrice-100.5) > 1e-9 {
		t.Errorf("AskPrice = %v, want 100.5", q.AskPrice)
	}
}

func TestGenerateQuote_BidAlwaysTickMultiple(t *testing.T) {
	meta := &market.Metadata{MarketID: 0, TickSize: 0.1, SizePrecision: 4, PricePrecision: 1}
	fairs := []float64{0.37, 1.01, 99.99, 12345.678}

	for _, fair := range fairs {
		q := GenerateQuote(fair, 0, nil, meta, baseCfg)
		ticks := q.BidPrice / meta.TickSize
		if math.Abs(ticks-math.Round(ticks)) > 1e-6 {
			t.Errorf("fair %v: BidPrice %v is not a tick multiple", fair, q.BidPrice)
		}
		if q.BidPrice < 0 {
			t.Errorf("fair %v: negative BidPrice %v", fair, q.BidPrice)
		}
	}
}

func TestFloorToTick_Idempotent(t *testing.T) {
	tests := []struct {
		price float64
		tick  float64
	}{
		{99.9, 0.1},
		{100.0, 0.5},
		{0.001, 0.001},
		{12345.0, 1.0},
	}

	for _, tt := range tests {
		if got := floorToTick(tt.price, tt.tick); math.Abs(got-tt.price) > 1e-9 {
			t.Errorf("floorToTick(%v, %v) = %v, want unchanged", tt.price, tt.tick, got)
		}
		if got := ceilToTick(tt.price, tt.tick); math.Abs(got-tt.price) > 1e-9 {
			t.Errorf("ceilToTick(%v, %v) = %v, want unchanged", tt.price, tt.tick, got)
		}
	}
}

func TestGenerateQuote_PostOnlySafety(t *testing.T) {
	meta := &market.Metadata{MarketID: 0, TickSize: 0.5, SizePrecision: 3, PricePrecision: 1}

	// book tighter than the configured spread: both sides would cross
	book := &market.Book{
		Bids: []market.Level{{Price: 100.5, Size: 1}},
		Asks: []market.Level{{Price: 99.0, Size: 1}},
	}

	q := GenerateQuote(100, 0, book, meta, baseCfg)

	if q.BidPrice >= 99.0 {
		t.Errorf("BidPrice %v touches or crosses best ask 99.0", q.BidPrice)
	}
	if math.Abs(q.BidPrice-98.5) > 1e-9 {
		t.Errorf("BidPrice = %v, want 98.5 (bestAsk - tick)", q.BidPrice)
	}
	if q.AskPrice <= 100.5 {
		t.Errorf("AskPrice %v touches or crosses best bid 100.5", q.AskPrice)
	}
	if math.Abs(q.AskPrice-101.0) > 1e-9 {
		t.Errorf("AskPrice = %v, want 101.0 (bestBid + tick)", q.AskPrice)
	}
}

func TestGenerateQuote_PostOnlySafetySkippedWithoutBook(t *testing.T) {
	meta := &market.Metadata{MarketID: 0, TickSize: 0.5, SizePrecision: 3, PricePrecision: 1}

	q := GenerateQuote(100, 0, nil, meta, baseCfg)
	if math.Abs(q.BidPrice-99.5) > 1e-9 {
		t.Errorf("BidPrice = %v, want 99.5 with no book", q.BidPrice)
	}
}

func TestGenerateQuote_NotionalSufficiency(t *testing.T) {
	meta := &market.Metadata{MarketID: 0, TickSize: 0.1, SizePrecision: 3, PricePrecision: 1}
	fairs := []float64{0.9, 37.4, 100, 64321.7}

	for _, fair := range fairs {
		q := GenerateQuote(fair, 0, nil, meta, baseCfg)
		if q.BidPrice > 0 && q.BidSize*q.BidPrice < baseCfg.OrderSizeUSD-1e-6 {
			t.Errorf("fair %v: bid notional %v below %v", fair, q.BidSize*q.BidPrice, baseCfg.OrderSizeUSD)
		}
		if q.AskPrice > 0 && q.AskSize*q.AskPrice < baseCfg.OrderSizeUSD-1e-6 {
			t.Errorf("fair %v: ask notional %v below %v", fair, q.AskSize*q.AskPrice, baseCfg.OrderSizeUSD)
		}
	}
}

func TestGenerateQuote_SizesUseRoundedPrice(t *testing.T) {
	// tick 0.5 pulls the bid from 99.9 down to 99.5; sizing against the
	// fair price instead of the resting price would underfund the order
	meta := &market.Metadata{MarketID: 0, TickSize: 0.5, SizePrecision: 6, PricePrecision: 1}

	q := GenerateQuote(100, 0, nil, meta, baseCfg)

	want := baseCfg.OrderSizeUSD / 99.5
	if math.Abs(q.BidSize-want) > 1e-5 {
		t.Errorf("BidSize = %v, want ~%v (sized at rounded price)", q.BidSize, want)
	}
}

func TestGenerateQuote_SizeRoundedUpAtPrecision(t *testing.T) {
	meta := &market.Metadata{MarketID: 0, TickSize: 0.1, SizePrecision: 2, PricePrecision: 1}

	q := GenerateQuote(100, 0, nil, meta, baseCfg)

	// 100 / 99.9 = 1.001001... must round UP to 1.01, not to nearest
	if math.Abs(q.BidSize-1.01) > 1e-9 {
		t.Errorf("BidSize = %v, want 1.01", q.BidSize)
	}
	scaled := q.BidSize * 100
	if math.Abs(scaled-math.Round(scaled)) > 1e-6 {
		t.Errorf("BidSize %v has more than 2 decimals", q.BidSize)
	}
}

func TestGenerateQuote_ZeroPriceMeansZeroSize(t *testing.T) {
	// huge spread drives the raw bid negative, which clamps to 0
	cfg := Config{SpreadBps: 20000, TakeProfitBps: 5, CloseThresholdUSD: 500, OrderSizeUSD: 100}

	q := GenerateQuote(100, 0, nil, nil, cfg)
	if q.BidPrice != 0 {
		t.Errorf("BidPrice = %v, want 0", q.BidPrice)
	}
	if q.BidSize != 0 {
		t.Errorf("BidSize = %v, want 0", q.BidSize)
	}
	if q.AskPrice <= 0 || q.AskSize <= 0 {
		t.Errorf("ask side should survive: price %v size %v", q.AskPrice, q.AskSize)
	}
}

func TestGenerateQuote_SpecExample(t *testing.T) {
	q := GenerateQuote(100, 600, nil, nil, Config{
		SpreadBps:         10,
		TakeProfitBps:     5,
		CloseThresholdUSD: 500,
		OrderSizeUSD:      100,
	})
	if !q.IsCloseMode {
		t.Error("IsCloseMode = false, want true")
	}
	if q.BidSize != 0 {
		t.Errorf("BidSize = %v, want 0", q.BidSize)
	}
}
