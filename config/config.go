package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Symbol            string
	SpreadBps         float64
	TakeProfitBps     float64
	CloseThresholdUSD float64
	OrderSizeUSD      float64
	MaxDeviationBps   float64
	RefreshInterval   time.Duration

	APIURL         string
	WSURL          string
	PrivateKey     string
	AccountAddress string
	Mainnet        bool
}

func Load() Config {
	return Config{
		Symbol:            getEnvString("SYMBOL", "BTC"),
		SpreadBps:         getEnvFloat("SPREAD_BPS", 10),
		TakeProfitBps:     getEnvFloat("TAKE_PROFIT_BPS", 5),
		CloseThresholdUSD: getEnvFloat("CLOSE_THRESHOLD_USD", 500),
		OrderSizeUSD:      getEnvFloat("ORDER_SIZE_USD", 100),
		MaxDeviationBps:   getEnvFloat("MAX_DEVIATION_BPS", 50),
		RefreshInterval:   time.Duration(getEnvInt("REFRESH_SECONDS", 5)) * time.Second,

		APIURL:         getEnvString("API_URL", "https://api.hyperliquid.xyz"),
		WSURL:          getEnvString("WS_URL", "wss://api.hyperliquid.xyz/ws"),
		PrivateKey:     os.Getenv("PRIVATE_KEY"),
		AccountAddress: os.Getenv("ACCOUNT_ADDRESS"),
		Mainnet:        getEnvBool("MAINNET", true),
	}
}

func (c Config) Validate() error {
	if c.Symbol == "" {
		return errors.New("symbol is required")
	}
	if c.SpreadBps <= 0 {
		return fmt.Errorf("spread bps must be positive, got %v", c.SpreadBps)
	}
	if c.TakeProfitBps <= 0 {
		return fmt.Errorf("take profit bps must be positive, got %v", c.TakeProfitBps)
	}
	if c.CloseThresholdUSD < 0 {
		return fmt.Errorf("close threshold must be >= 0, got %v", c.CloseThresholdUSD)
	}
	if c.OrderSizeUSD <= 0 {
		return fmt.Errorf("order size must be positive, got %v", c.OrderSizeUSD)
	}
	if c.MaxDeviationBps <= 0 {
		return fmt.Errorf("max deviation bps must be positive, got %v", c.MaxDeviationBps)
	}
	if c.RefreshInterval <= 0 {
		return errors.New("refresh interval must be positive")
	}
	if c.PrivateKey == "" {
		return errors.New("PRIVATE_KEY environment variable is required")
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}
