package bot

import (
	"context"
	"sync"
	"time"

	"quotebot/client"
	"quotebot/config"
	"quotebot/engine"
	"quotebot/logger"
	"quotebot/market"
	"quotebot/quote"
)

// Bot is the control loop: it consumes the price feed, regenerates the
// quote on every refresh tick, and replaces resting orders whenever they go
// stale or the position flips the quoting mode. All lifecycle operations
// for the symbol run on this single loop, which is what the manager's
// concurrency contract expects.
type Bot struct {
	cfg      config.Config
	quoteCfg quote.Config
	manager  *engine.Manager
	info     *client.InfoClient
	cache    *market.Cache
	feed     *client.WSPriceClient
	log      *logger.Logger

	mu        sync.RWMutex
	fairPrice float64
	fairAt    time.Time
}

func New(cfg config.Config, manager *engine.Manager, info *client.InfoClient, cache *market.Cache, log *logger.Logger) *Bot {
	b := &Bot{
		cfg: cfg,
		quoteCfg: quote.Config{
			SpreadBps:         cfg.SpreadBps,
			TakeProfitBps:     cfg.TakeProfitBps,
			CloseThresholdUSD: cfg.CloseThresholdUSD,
			OrderSizeUSD:      cfg.OrderSizeUSD,
		},
		manager: manager,
		info:    info,
		cache:   cache,
		log:     log,
	}

	b.feed = client.NewWSPriceClient(cfg.WSURL, cfg.Symbol, b.onPrice, log)

	return b
}

func (b *Bot) onPrice(price float64, ts time.Time) {
	if price <= 0 {
		// quote generation requires a positive fair price; drop the tick
		b.log.Warn("invalid_price_dropped", "price", price)
		return
	}

	b.mu.Lock()
	b.fairPrice = price
	b.fairAt = ts
	b.mu.Unlock()
}

func (b *Bot) lastFair() (float64, time.Time) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.fairPrice, b.fairAt
}

func (b *Bot) Run(ctx context.Context) error {
	meta, err := b.cache.Resolve(ctx, b.cfg.Symbol)
	if err != nil {
		b.log.Error("metadata_preload_failed", "symbol", b.cfg.Symbol, "err", err)
		return err
	}
	b.log.Info("metadata_loaded",
		"symbol", b.cfg.Symbol,
		"market_id", meta.MarketID,
		"tick_size", meta.TickSize,
		"size_precision", meta.SizePrecision)

	if err := b.feed.Connect(); err != nil {
		b.log.Error("price_feed_connect_failed", "err", err)
		return err
	}
	defer b.feed.Close()

	if err := b.feed.Subscribe(); err != nil {
		return err
	}

	feedErr := make(chan error, 1)
	go func() {
		feedErr <- b.feed.Listen(ctx)
	}()

	ticker := time.NewTicker(b.cfg.RefreshInterval)
	defer ticker.Stop()

	// leave nothing resting when the loop exits
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := b.manager.CancelAll(shutdownCtx, b.cfg.Symbol); err != nil {
			b.log.Error("shutdown_cancel_failed", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-feedErr:
			b.log.Error("price_feed_stopped", "err", err)
			return err
		case <-ticker.C:
			if err := b.tick(ctx); err != nil {
				b.log.Error("tick_failed", "err", err)
			}
		}
	}
}

func (b *Bot) tick(ctx context.Context) error {
	fair, at := b.lastFair()
	if fair <= 0 {
		b.log.Debug("no_price_yet")
		return nil
	}
	if time.Since(at) > 3*b.cfg.RefreshInterval {
		b.log.Warn("price_feed_stale", "age", time.Since(at))
		return nil
	}

	position, err := b.info.PositionNotional(ctx, b.cfg.Symbol)
	if err != nil {
		return err
	}

	meta, err := b.cache.Resolve(ctx, b.cfg.Symbol)
	if err != nil {
		return err
	}

	// a missing book only disables the post-only clamps, so keep quoting
	book, err := b.info.L2Book(ctx, b.cfg.Symbol)
	if err != nil {
		b.log.Warn("book_fetch_failed", "err", err)
		book = nil
	}

	q := quote.GenerateQuote(fair, position, book, &meta, b.quoteCfg)

	open, err := b.manager.OpenOrders(ctx)
	if err != nil {
		return err
	}
	resting := make([]engine.Order, 0, 2)
	for _, o := range open {
		if o.Symbol == b.cfg.Symbol {
			resting = append(resting, o)
		}
	}

	if !b.needsRequote(q, fair, resting) {
		return nil
	}

	if len(resting) > 0 {
		summary, err := b.manager.CancelAll(ctx, b.cfg.Symbol)
		if err != nil {
			return err
		}
		b.log.Info("requote_cancelled",
			"succeeded", summary.Succeeded,
			"failed", summary.Failed)
	}

	for _, req := range engine.QuoteToOrders(q, b.cfg.Symbol, false) {
		req.ClientID = engine.NewClientID()
		result, err := b.manager.Submit(ctx, req)
		if err != nil {
			b.log.Error("submit_failed",
				"side", string(req.Side),
				"price", req.Price,
				"err", err)
			continue
		}
		b.log.Info("quoted",
			"side", string(req.Side),
			"price", req.Price,
			"size", req.Size,
			"oid", result.OrderID,
			"status", string(result.Status),
			"close_mode", q.IsCloseMode)
	}

	return nil
}

// needsRequote decides whether the resting orders still represent the
// current quote. Triggers: wrong number of sides resting, price drift past
// the deviation limit, or a mode flip (close mode forces reduce-only).
func (b *Bot) needsRequote(q quote.Quote, fair float64, resting []engine.Order) bool {
	wanted := 0
	if q.BidSize > 0 {
		wanted++
	}
	if q.AskSize > 0 {
		wanted++
	}

	if len(resting) != wanted {
		return true
	}
	for _, o := range resting {
		if quote.IsStale(o.Price, fair, b.cfg.MaxDeviationBps) {
			return true
		}
		if o.ReduceOnly != q.IsCloseMode {
			return true
		}
	}
	return false
}
