package client

import (
	"context"
	"math"

	"quotebot/market"
)

// InfoClient reads public and account state from the /info endpoint.
type InfoClient struct {
	*Client
	account string
}

func NewInfoClient(baseUrl, account string) *InfoClient {
	return &InfoClient{
		Client:  NewClient(baseUrl),
		account: account,
	}
}

func (c *InfoClient) Meta(ctx context.Context) (*MetaResponse, error) {
	payload := map[string]string{"type": "meta"}

	response := &MetaResponse{}
	if err := c.post(ctx, "/info", payload, response); err != nil {
		return nil, err
	}
	return response, nil
}

// FetchMetadata derives the per-symbol trading constraints from the asset
// universe. Prices carry at most 6 - szDecimals decimals, which fixes both
// the tick size and the wire precision.
func (c *InfoClient) FetchMetadata(ctx context.Context) (map[string]market.Metadata, error) {
	meta, err := c.Meta(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]market.Metadata, len(meta.Universe))
	for i, asset := range meta.Universe {
		pricePrecision := 6 - asset.SzDecimals
		out[asset.Name] = market.Metadata{
			MarketID:       i,
			TickSize:       math.Pow(10, -float64(pricePrecision)),
			SizePrecision:  asset.SzDecimals,
			PricePrecision: pricePrecision,
		}
	}
	return out, nil
}

func (c *InfoClient) OpenOrders(ctx context.Context) ([]OpenOrder, error) {
	payload := map[string]string{"type": "openOrders", "user": c.account}

	var response []OpenOrder
	if err := c.post(ctx, "/info", payload, &response); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *InfoClient) L2Book(ctx context.Context, coin string) (*market.Book, error) {
	payload := map[string]string{"type": "l2Book", "coin": coin}

	response := &L2BookResponse{}
	if err := c.post(ctx, "/info", payload, response); err != nil {
		return nil, err
	}

	book := &market.Book{}
	if len(response.Levels) >= 1 {
		book.Bids = toLevels(response.Levels[0])
	}
	if len(response.Levels) >= 2 {
		book.Asks = toLevels(response.Levels[1])
	}
	return book, nil
}

func (c *InfoClient) AllMids(ctx context.Context) (map[string]float64, error) {
	payload := map[string]string{"type": "allMids"}

	var response map[string]StringFloat64
	if err := c.post(ctx, "/info", payload, &response); err != nil {
		return nil, err
	}

	mids := make(map[string]float64, len(response))
	for coin, px := range response {
		mids[coin] = float64(px)
	}
	return mids, nil
}

// PositionNotional returns the signed USD value of the account's position in
// coin: positive long, negative short, zero when flat.
func (c *InfoClient) PositionNotional(ctx context.Context, coin string) (float64, error) {
	payload := map[string]string{"type": "clearinghouseState", "user": c.account}

	response := &AccountStateResponse{}
	if err := c.post(ctx, "/info", payload, response); err != nil {
		return 0, err
	}

	for _, ap := range response.AssetPositions {
		if ap.Position.Coin != coin {
			continue
		}
		notional := float64(ap.Position.PositionValue)
		if float64(ap.Position.Szi) < 0 {
			notional = -notional
		}
		return notional, nil
	}
	return 0, nil
}

func toLevels(wire []BookLevel) []market.Level {
	levels := make([]market.Level, 0, len(wire))
	for _, l := range wire {
		levels = append(levels, market.Level{Price: float64(l.Px), Size: float64(l.Sz)})
	}
	return levels
}
