package client

import (
	"context"
	"errors"
	"time"
)

// ExchangeClient submits signed actions to the /exchange endpoint. A non-nil
// *ExchangeResponse is returned whenever the transport round-trip succeeded,
// even when Status is "err": partial batch failures come back on that path
// and the caller classifies them.
type ExchangeClient struct {
	*Client
	signer *Signer
}

func NewExchangeClient(baseUrl string, signer *Signer) *ExchangeClient {
	return &ExchangeClient{
		Client: NewClient(baseUrl),
		signer: signer,
	}
}

func (c *ExchangeClient) PlaceOrders(ctx context.Context, orders []OrderWire) (*ExchangeResponse, error) {
	if len(orders) == 0 {
		return nil, errors.New("no orders provided")
	}

	action := orderAction{
		Type:     "order",
		Orders:   orders,
		Grouping: "na",
	}
	return c.submitAction(ctx, action)
}

func (c *ExchangeClient) CancelOrders(ctx context.Context, cancels []CancelWire) (*ExchangeResponse, error) {
	if len(cancels) == 0 {
		return nil, errors.New("no cancels provided")
	}

	action := cancelAction{
		Type:    "cancel",
		Cancels: cancels,
	}
	return c.submitAction(ctx, action)
}

func (c *ExchangeClient) submitAction(ctx context.Context, action interface{}) (*ExchangeResponse, error) {
	if c.signer == nil {
		return nil, errors.New("auth required: missing signing key")
	}

	nonce := time.Now().UnixMilli()
	sig, err := c.signer.SignAction(action, nonce)
	if err != nil {
		return nil, err
	}

	req := exchangeRequest{
		Action:       action,
		Nonce:        nonce,
		Signature:    sig,
		VaultAddress: nil,
	}

	response := &ExchangeResponse{}
	if err := c.post(ctx, "/exchange", req, response); err != nil {
		return nil, err
	}
	return response, nil
}
