package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"quotebot/client"
	"quotebot/logger"
	"quotebot/market"
)

// Gateway submits signed order actions to the exchange.
type Gateway interface {
	PlaceOrders(ctx context.Context, orders []client.OrderWire) (*client.ExchangeResponse, error)
	CancelOrders(ctx context.Context, cancels []client.CancelWire) (*client.ExchangeResponse, error)
}

// OrderSource lists the account's currently resting orders.
type OrderSource interface {
	OpenOrders(ctx context.Context) ([]client.OpenOrder, error)
}

// MetadataResolver maps symbols to market metadata.
type MetadataResolver interface {
	Resolve(ctx context.Context, symbol string) (market.Metadata, error)
	Known(symbol string) bool
}

// Manager owns the order lifecycle: it submits requests, normalizes the
// exchange's heterogeneous response shapes, and cancels single orders or
// whole batches. Callers serialize operations per symbol; the manager holds
// no internal locks.
type Manager struct {
	gateway  Gateway
	orders   OrderSource
	resolver MetadataResolver
	log      *logger.Logger
}

func NewManager(gateway Gateway, orders OrderSource, resolver MetadataResolver, log *logger.Logger) *Manager {
	return &Manager{
		gateway:  gateway,
		orders:   orders,
		resolver: resolver,
		log:      log,
	}
}

// Submit places one limit order and classifies the response. Resting orders
// come back with StatusOpen, immediately filled ones with StatusClosed.
// Anything outside the known response taxonomy is ErrUnexpectedStatus.
func (m *Manager) Submit(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	meta, err := m.resolver.Resolve(ctx, req.Symbol)
	if err != nil {
		return nil, err
	}

	tif := client.TifGtc
	if req.PostOnly {
		tif = client.TifAlo
	}

	wire := client.OrderWire{
		Asset:      meta.MarketID,
		IsBuy:      req.Side == Buy,
		Price:      formatDecimal(req.Price, meta.PricePrecision),
		Size:       formatDecimal(req.Size, meta.SizePrecision),
		ReduceOnly: req.ReduceOnly,
		Type:       client.OrderType{Limit: &client.LimitOrderType{Tif: tif}},
		ClientID:   req.ClientID,
	}

	resp, err := m.gateway.PlaceOrders(ctx, []client.OrderWire{wire})
	if err != nil {
		return nil, err
	}

	statuses, ok := resp.Statuses()
	if !ok {
		if resp.Status != "ok" {
			return nil, fmt.Errorf("%w: %s", ErrOrderRejected, resp.ErrorMessage())
		}
		return nil, fmt.Errorf("%w: no statuses in response", ErrUnexpectedStatus)
	}

	st := statuses[0]
	switch {
	case st.Error != "":
		return nil, fmt.Errorf("%w: %s", ErrOrderRejected, st.Error)

	case st.Resting != nil:
		m.log.Info("order_resting",
			"symbol", req.Symbol,
			"side", string(req.Side),
			"price", wire.Price,
			"size", wire.Size,
			"oid", st.Resting.OID)
		return &OrderResult{
			OrderID:   st.Resting.OID,
			ClientID:  firstNonEmpty(st.Resting.ClientID, req.ClientID),
			Status:    StatusOpen,
			Timestamp: time.Now(),
			Raw:       resp.Response,
		}, nil

	case st.Filled != nil:
		// avg fill price/size is observability only, not part of the result
		m.log.Info("order_filled",
			"symbol", req.Symbol,
			"side", string(req.Side),
			"oid", st.Filled.OID,
			"avg_px", float64(st.Filled.AvgPx),
			"total_sz", float64(st.Filled.TotalSz))
		return &OrderResult{
			OrderID:   st.Filled.OID,
			ClientID:  firstNonEmpty(st.Filled.ClientID, req.ClientID),
			Status:    StatusClosed,
			Timestamp: time.Now(),
			Raw:       resp.Response,
		}, nil

	case st.Sentinel != "":
		// waitingForFill / waitingForTrigger are not reachable for a limit
		// order that either rests or fills; protocol mismatch
		return nil, fmt.Errorf("%w: %q", ErrUnexpectedStatus, st.Sentinel)

	default:
		return nil, fmt.Errorf("%w: empty status entry", ErrUnexpectedStatus)
	}
}

// CancelOrder cancels a single order. When symbol is empty the order's
// market is discovered from the open-order listing first.
func (m *Manager) CancelOrder(ctx context.Context, orderID int64, symbol string) error {
	if symbol == "" {
		open, err := m.orders.OpenOrders(ctx)
		if err != nil {
			return err
		}
		for _, o := range open {
			if o.OID == orderID {
				symbol = o.Coin
				break
			}
		}
		if symbol == "" {
			return fmt.Errorf("%w: %d", ErrOrderNotFound, orderID)
		}
	}

	meta, err := m.resolver.Resolve(ctx, symbol)
	if err != nil {
		return err
	}

	resp, err := m.gateway.CancelOrders(ctx, []client.CancelWire{{Asset: meta.MarketID, OrderID: orderID}})
	if err != nil {
		return err
	}

	statuses, ok := resp.Statuses()
	if !ok || len(statuses) == 0 {
		return fmt.Errorf("%w: %s", ErrCancelFailed, resp.ErrorMessage())
	}

	st := statuses[0]
	if st.Sentinel == client.StatusSuccess {
		m.log.Info("order_cancelled", "oid", orderID, "symbol", symbol)
		return nil
	}
	if isAlreadyResolved(st.Error) {
		m.log.Info("order_already_resolved", "oid", orderID, "msg", st.Error)
		return nil
	}

	msg := st.Error
	if msg == "" {
		msg = st.Sentinel
	}
	return fmt.Errorf("%w: oid %d: %s", ErrCancelFailed, orderID, msg)
}

// CancelSummary counts the per-order outcomes of a bulk cancel.
type CancelSummary struct {
	Succeeded int
	Failed    int
}

// CancelAll cancels every open order, optionally filtered by symbol, in one
// batched request. Individual failures are logged and counted, never
// escalated: a best-effort sweep must not be blocked by one stuck order.
// Orders already cancelled or filled by a concurrent race count as success.
// It errors only when open orders cannot be fetched or a market id cannot
// be resolved.
func (m *Manager) CancelAll(ctx context.Context, symbol string) (CancelSummary, error) {
	open, err := m.orders.OpenOrders(ctx)
	if err != nil {
		return CancelSummary{}, err
	}

	cancels := make([]client.CancelWire, 0, len(open))
	oids := make([]int64, 0, len(open))
	for _, o := range open {
		if symbol != "" && o.Coin != symbol {
			continue
		}
		// unresolved metadata here is a data-consistency bug, not a
		// transient exchange condition; fail the whole batch
		meta, err := m.resolver.Resolve(ctx, o.Coin)
		if err != nil {
			return CancelSummary{}, err
		}
		cancels = append(cancels, client.CancelWire{Asset: meta.MarketID, OrderID: o.OID})
		oids = append(oids, o.OID)
	}

	if len(cancels) == 0 {
		return CancelSummary{}, nil
	}

	resp, err := m.gateway.CancelOrders(ctx, cancels)
	if err != nil {
		return CancelSummary{}, err
	}

	// partial failures may arrive as a normal response or wrapped in an
	// error response; both carry the same per-order status array
	statuses, ok := resp.Statuses()
	if !ok {
		return CancelSummary{}, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.ErrorMessage())
	}

	var summary CancelSummary
	for i, st := range statuses {
		var oid int64
		if i < len(oids) {
			oid = oids[i]
		}
		switch {
		case st.Sentinel == client.StatusSuccess:
			summary.Succeeded++
		case isAlreadyResolved(st.Error):
			summary.Succeeded++
		case st.Error != "":
			summary.Failed++
			m.log.Warn("cancel_failed", "oid", oid, "msg", st.Error)
		default:
			summary.Failed++
			m.log.Warn("cancel_failed", "oid", oid, "msg", st.Sentinel)
		}
	}

	m.log.Info("cancel_all_done",
		"symbol", symbol,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed)
	return summary, nil
}

// OpenOrders maps the exchange's native order records into normalized
// Orders. Coins without resolvable metadata get a synthetic symbol label so
// that one unknown asset cannot hide the rest of the listing.
func (m *Manager) OpenOrders(ctx context.Context) ([]Order, error) {
	native, err := m.orders.OpenOrders(ctx)
	if err != nil {
		return nil, err
	}

	orders := make([]Order, 0, len(native))
	for _, o := range native {
		symbol := o.Coin
		if !m.resolver.Known(o.Coin) {
			symbol = "unknown:" + o.Coin
		}

		side := Sell
		if o.Side == "B" {
			side = Buy
		}

		origSz := float64(o.OrigSz)
		remaining := float64(o.Sz)
		orders = append(orders, Order{
			ID:         o.OID,
			ClientID:   o.ClientID,
			Symbol:     symbol,
			Side:       side,
			Price:      float64(o.LimitPx),
			Size:       origSz,
			Filled:     origSz - remaining,
			Remaining:  remaining,
			Status:     "open",
			Timestamp:  time.UnixMilli(o.Timestamp),
			ReduceOnly: o.ReduceOnly,
		})
	}
	return orders, nil
}

// isAlreadyResolved matches cancel errors caused by a race against a
// concurrent fill or cancel, which are not failures of this system.
func isAlreadyResolved(msg string) bool {
	if msg == "" {
		return false
	}
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "already canceled") ||
		strings.Contains(lower, "already cancelled") ||
		strings.Contains(lower, "filled")
}

// formatDecimal renders v as a fixed-decimal string with trailing zeros
// stripped, keeping binary float artifacts off the wire.
func formatDecimal(v float64, decimals int) string {
	return decimal.NewFromFloat(v).Round(int32(decimals)).String()
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
