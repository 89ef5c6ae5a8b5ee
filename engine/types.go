package engine

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"
)

type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderRejected    = errors.New("order rejected by exchange")
	ErrUnexpectedStatus = errors.New("unexpected order status")
	ErrCancelFailed     = errors.New("cancel failed")
)

// OrderRequest is one limit order to be placed. Produced fresh per tick,
// never mutated after creation.
type OrderRequest struct {
	Symbol     string
	Side       Side
	Price      float64
	Size       float64
	PostOnly   bool
	ReduceOnly bool
	ClientID   string
}

type OrderStatus string

const (
	StatusOpen   OrderStatus = "open"
	StatusClosed OrderStatus = "closed"
)

// OrderResult is the outcome of a single successful submission.
type OrderResult struct {
	OrderID   int64
	ClientID  string
	Status    OrderStatus
	Timestamp time.Time
	Raw       json.RawMessage
}

// Order is a currently-resting order as reported by the exchange. Observed,
// never owned: fills and cancels mutate it externally.
type Order struct {
	ID         int64
	ClientID   string
	Symbol     string
	Side       Side
	Price      float64
	Size       float64
	Filled     float64
	Remaining  float64
	Status     string
	Timestamp  time.Time
	ReduceOnly bool
	PostOnly   bool
}

// NewClientID returns a random 16-byte hex client order id.
func NewClientID() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return "0x" + hex.EncodeToString(bytes)
}
