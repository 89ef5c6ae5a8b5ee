package engine

import "quotebot/quote"

// QuoteToOrders converts a quote into zero, one, or two maker order
// requests, bid first. Sides with zero size are dropped. Every emitted
// order is post-only; reduce-only is forced whenever the quote was
// generated in close mode.
func QuoteToOrders(q quote.Quote, symbol string, reduceOnlyOverride bool) []OrderRequest {
	reduceOnly := reduceOnlyOverride || q.IsCloseMode

	orders := make([]OrderRequest, 0, 2)
	if q.BidSize > 0 {
		orders = append(orders, OrderRequest{
			Symbol:     symbol,
			Side:       Buy,
			Price:      q.BidPrice,
			Size:       q.BidSize,
			PostOnly:   true,
			ReduceOnly: reduceOnly,
		})
	}
	if q.AskSize > 0 {
		orders = append(orders, OrderRequest{
			Symbol:     symbol,
			Side:       Sell,
			Price:      q.AskPrice,
			Size:       q.AskSize,
			PostOnly:   true,
			ReduceOnly: reduceOnly,
		})
	}
	return orders
}
