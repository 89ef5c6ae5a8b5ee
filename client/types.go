package client

import (
	"encoding/json"
	"strconv"
	"strings"
)

type StringFloat64 float64

// =============================
// Info Endpoint Types
// =============================

type AssetInfo struct {
	Name         string `json:"name"`
	SzDecimals   int    `json:"szDecimals"`
	MaxLeverage  int    `json:"maxLeverage"`
	OnlyIsolated bool   `json:"onlyIsolated,omitempty"`
}

type MetaResponse struct {
	Universe []AssetInfo `json:"universe"`
}

type BookLevel struct {
	Px StringFloat64 `json:"px"`
	Sz StringFloat64 `json:"sz"`
	N  int           `json:"n"`
}

type L2BookResponse struct {
	Coin   string        `json:"coin"`
	Time   int64         `json:"time"`
	Levels [][]BookLevel `json:"levels"` // [bids, asks], best first
}

type OpenOrder struct {
	Coin       string        `json:"coin"`
	Side       string        `json:"side"` // "B" bid, "A" ask
	LimitPx    StringFloat64 `json:"limitPx"`
	Sz         StringFloat64 `json:"sz"`     // remaining size
	OrigSz     StringFloat64 `json:"origSz"` // size at placement
	OID        int64         `json:"oid"`
	ClientID   string        `json:"cloid,omitempty"`
	Timestamp  int64         `json:"timestamp"` // ms
	ReduceOnly bool          `json:"reduceOnly,omitempty"`
}

type AssetPosition struct {
	Position struct {
		Coin          string        `json:"coin"`
		Szi           StringFloat64 `json:"szi"` // signed size
		PositionValue StringFloat64 `json:"positionValue"`
		EntryPx       StringFloat64 `json:"entryPx"`
	} `json:"position"`
}

type AccountStateResponse struct {
	AssetPositions []AssetPosition `json:"assetPositions"`
}

// =============================
// Exchange Endpoint Types
// =============================

const (
	TifAlo = "Alo" // add-liquidity-only (post-only maker)
	TifGtc = "Gtc" // good-til-cancel
)

// OrderWire is one order entry inside an order action. Field order matters:
// the action hash covers the msgpack encoding in declaration order.
type OrderWire struct {
	Asset      int       `msgpack:"a" json:"a"`
	IsBuy      bool      `msgpack:"b" json:"b"`
	Price      string    `msgpack:"p" json:"p"`
	Size       string    `msgpack:"s" json:"s"`
	ReduceOnly bool      `msgpack:"r" json:"r"`
	Type       OrderType `msgpack:"t" json:"t"`
	ClientID   string    `msgpack:"c,omitempty" json:"c,omitempty"`
}

type OrderType struct {
	Limit *LimitOrderType `msgpack:"limit,omitempty" json:"limit,omitempty"`
}

type LimitOrderType struct {
	Tif string `msgpack:"tif" json:"tif"`
}

type CancelWire struct {
	Asset   int   `msgpack:"a" json:"a"`
	OrderID int64 `msgpack:"o" json:"o"`
}

type orderAction struct {
	Type     string      `msgpack:"type" json:"type"`
	Orders   []OrderWire `msgpack:"orders" json:"orders"`
	Grouping string      `msgpack:"grouping" json:"grouping"`
}

type cancelAction struct {
	Type    string       `msgpack:"type" json:"type"`
	Cancels []CancelWire `msgpack:"cancels" json:"cancels"`
}

type exchangeRequest struct {
	Action       interface{} `json:"action"`
	Nonce        int64       `json:"nonce"`
	Signature    Signature   `json:"signature"`
	VaultAddress *string     `json:"vaultAddress"`
}

// ExchangeResponse is the raw outcome of a signed action. Status is "ok" or
// "err"; Response is either the typed inner payload or a bare error string.
// The exchange sometimes wraps a partially failed batch in an "err" response
// that still carries the per-order statuses, so both paths keep the raw
// payload around for Statuses to unwrap.
type ExchangeResponse struct {
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response"`
}

type innerResponse struct {
	Type string `json:"type"`
	Data struct {
		Statuses []OrderStatusWire `json:"statuses"`
	} `json:"data"`
}

// Statuses extracts the per-order status array regardless of whether the
// response came back as a success or as an error wrapper.
func (r *ExchangeResponse) Statuses() ([]OrderStatusWire, bool) {
	if len(r.Response) == 0 {
		return nil, false
	}
	var inner innerResponse
	if err := json.Unmarshal(r.Response, &inner); err == nil && len(inner.Data.Statuses) > 0 {
		return inner.Data.Statuses, true
	}
	return nil, false
}

// ErrorMessage renders the response payload as a human-readable message for
// the "err" path.
func (r *ExchangeResponse) ErrorMessage() string {
	var msg string
	if err := json.Unmarshal(r.Response, &msg); err == nil {
		return msg
	}
	return string(r.Response)
}

const StatusSuccess = "success"

// RestingOrder is the payload of a resting status entry.
type RestingOrder struct {
	OID      int64  `json:"oid"`
	ClientID string `json:"cloid,omitempty"`
}

// FilledOrder is the payload of an immediately filled status entry.
type FilledOrder struct {
	OID      int64         `json:"oid"`
	TotalSz  StringFloat64 `json:"totalSz"`
	AvgPx    StringFloat64 `json:"avgPx"`
	ClientID string        `json:"cloid,omitempty"`
}

// OrderStatusWire is one element of a status array. On the wire it is
// either a bare string sentinel ("success", "waitingForFill", ...) or an
// object carrying exactly one of resting/filled/error.
type OrderStatusWire struct {
	Sentinel string
	Resting  *RestingOrder
	Filled   *FilledOrder
	Error    string
}

func (s *OrderStatusWire) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		s.Sentinel = str
		return nil
	}

	var obj struct {
		Resting *RestingOrder `json:"resting"`
		Filled  *FilledOrder  `json:"filled"`
		Error   string        `json:"error"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	s.Resting = obj.Resting
	s.Filled = obj.Filled
	s.Error = obj.Error
	return nil
}

// =============================
// WebSocket Types
// =============================

type WSSubscribeMessage struct {
	Method       string         `json:"method"`
	Subscription WSSubscription `json:"subscription"`
}

type WSSubscription struct {
	Type string `json:"type"`
	Coin string `json:"coin,omitempty"`
}

type WSMessage struct {
	Channel string          `json:"channel"`
	Data    json.RawMessage `json:"data"`
}

type AllMidsData struct {
	Mids map[string]StringFloat64 `json:"mids"`
}

// =============================
// JSON Unmarshal Methods
// =============================

func (sf *StringFloat64) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*sf = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*sf = StringFloat64(f)
	return nil
}
