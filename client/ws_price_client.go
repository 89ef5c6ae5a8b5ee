package client

import (
	"context"
	"encoding/json"
	"time"

	"quotebot/logger"
)

// WSPriceClient streams mid prices for a single coin and delivers them to a
// callback. Cadence is whatever the exchange pushes; no regularity is
// guaranteed.
type WSPriceClient struct {
	*WSClient
	coin    string
	onPrice func(price float64, ts time.Time)
}

func NewWSPriceClient(url, coin string, onPrice func(price float64, ts time.Time), log *logger.Logger) *WSPriceClient {
	return &WSPriceClient{
		WSClient: NewWSClient(url, log),
		coin:     coin,
		onPrice:  onPrice,
	}
}

func (ws *WSPriceClient) Subscribe() error {
	msg := WSSubscribeMessage{
		Method:       "subscribe",
		Subscription: WSSubscription{Type: "allMids"},
	}
	if err := ws.WriteJSON(msg); err != nil {
		return err
	}
	ws.logger.Info("subscribed", "channel", "allMids", "coin", ws.coin)
	return nil
}

func (ws *WSPriceClient) Listen(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			_, message, err := ws.ReadMessage()
			if err != nil {
				return err
			}
			ws.dispatchOne(message)
		}
	}
}

func (ws *WSPriceClient) dispatchOne(message []byte) {
	var msg WSMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return
	}
	if msg.Channel != "allMids" || ws.onPrice == nil {
		return
	}

	var data AllMidsData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		return
	}
	if px, ok := data.Mids[ws.coin]; ok {
		ws.onPrice(float64(px), time.Now())
	}
}
