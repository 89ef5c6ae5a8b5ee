package engine

import (
	"testing"

	"quotebot/quote"
)

func TestQuoteToOrders_BothSides(t *testing.T) {
	q := quote.Quote{
		BidPrice: 99.9,
		AskPrice: 100.1,
		BidSize:  1.5,
		AskSize:  1.4,
	}

	orders := QuoteToOrders(q, "BTC", false)
	if len(orders) != 2 {
		t.Fatalf("got %d orders, want 2", len(orders))
	}

	// emission order is stable: bid first
	if orders[0].Side != Buy || orders[1].Side != Sell {
		t.Errorf("order sides = %v, %v, want buy then sell", orders[0].Side, orders[1].Side)
	}
	if orders[0].Price != 99.9 || orders[0].Size != 1.5 {
		t.Errorf("bid order = %+v", orders[0])
	}
	if orders[1].Price != 100.1 || orders[1].Size != 1.4 {
		t.Errorf("ask order = %+v", orders[1])
	}
	for _, o := range orders {
		if !o.PostOnly {
			t.Errorf("%s order not post-only", o.Side)
		}
		if o.ReduceOnly {
			t.Errorf("%s order reduce-only without close mode or override", o.Side)
		}
		if o.Symbol != "BTC" {
			t.Errorf("%s order symbol = %q", o.Side, o.Symbol)
		}
	}
}

func TestQuoteToOrders_ZeroSizesEmitNothing(t *testing.T) {
	orders := QuoteToOrders(quote.Quote{BidPrice: 99.9, AskPrice: 100.1}, "BTC", false)
	if len(orders) != 0 {
		t.Fatalf("got %d orders, want 0", len(orders))
	}
}

func TestQuoteToOrders_SingleSide(t *testing.T) {
	q := quote.Quote{AskPrice: 100.1, AskSize: 2, IsCloseMode: true}

	orders := QuoteToOrders(q, "ETH", false)
	if len(orders) != 1 {
		t.Fatalf("got %d orders, want 1", len(orders))
	}
	if orders[0].Side != Sell {
		t.Errorf("side = %v, want sell", orders[0].Side)
	}
	if !orders[0].ReduceOnly {
		t.Error("close mode quote must force reduce-only")
	}
}

func TestQuoteToOrders_ReduceOnlyOverride(t *testing.T) {
	q := quote.Quote{BidPrice: 99.9, BidSize: 1, AskPrice: 100.1, AskSize: 1}

	for _, o := range QuoteToOrders(q, "BTC", true) {
		if !o.ReduceOnly {
			t.Errorf("%s order not reduce-only despite override", o.Side)
		}
	}
}

func TestQuoteToOrders_CloseModeIgnoresOverrideFalse(t *testing.T) {
	q := quote.Quote{BidPrice: 99.9, AskPrice: 100.1, AskSize: 1, IsCloseMode: true}

	for _, o := range QuoteToOrders(q, "BTC", false) {
		if !o.ReduceOnly {
			t.Errorf("%s order not reduce-only in close mode", o.Side)
		}
	}
}
