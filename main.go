package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"quotebot/bot"
	"quotebot/client"
	"quotebot/config"
	"quotebot/engine"
	"quotebot/logger"
	"quotebot/market"
)

func main() {
	log := logger.NewLogger()

	// Load .env file if it exists (optional)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid_config", "err", err)
		return
	}

	signer, err := client.NewSigner(cfg.PrivateKey, cfg.Mainnet)
	if err != nil {
		log.Error("invalid_private_key", "err", err)
		return
	}

	account := cfg.AccountAddress
	if account == "" {
		account = signer.Address().Hex()
	}

	info := client.NewInfoClient(cfg.APIURL, account)
	exchange := client.NewExchangeClient(cfg.APIURL, signer)
	cache := market.NewCache(info, log)
	manager := engine.NewManager(exchange, info, cache, log)

	log.Info("starting",
		"symbol", cfg.Symbol,
		"account", account,
		"spread_bps", cfg.SpreadBps,
		"order_size_usd", cfg.OrderSizeUSD)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	b := bot.New(cfg, manager, info, cache, log)
	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("bot_stopped", "err", err)
	}
}
