package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Helius
	HeliusAPIKey string

	// Market data
	DexScreenerAPI string

	// KOL reference list (JSON file; built-in list when empty)
	KOLsFile string

	// Scan tuning
	ScanInterval          time.Duration
	MarketRefreshInterval time.Duration
	ShallowScanLimit      int           // txs per wallet on a shallow pass
	ScanBatchSize         int           // wallets per concurrent group
	ScanBatchDelay        time.Duration // pause between groups
	DeepPageSize          int           // txs per history page
	DeepMaxPagesMain      int           // page budget for a KOL's main wallet
	DeepMaxPagesSide      int           // page budget for side wallets
	BackfillDays          int           // default deep-backfill cutoff

	// DB
	DBPath string

	// Dashboard
	Port int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HeliusAPIKey:   os.Getenv("HELIUS_API_KEY"),
		DexScreenerAPI: envOr("DEXSCREENER_API", "https://api.dexscreener.com"),
		KOLsFile:       os.Getenv("KOLS_FILE"),

		ScanInterval:          time.Duration(envInt("SCAN_INTERVAL", 300)) * time.Second,
		MarketRefreshInterval: time.Duration(envInt("MARKET_REFRESH_INTERVAL", 120)) * time.Second,
		ShallowScanLimit:      envInt("SHALLOW_SCAN_LIMIT", 20),
		ScanBatchSize:         envInt("SCAN_BATCH_SIZE", 5),
		ScanBatchDelay:        time.Duration(envInt("SCAN_BATCH_DELAY_MS", 500)) * time.Millisecond,
		DeepPageSize:          envInt("DEEP_PAGE_SIZE", 100),
		DeepMaxPagesMain:      envInt("DEEP_MAX_PAGES_MAIN", 20),
		DeepMaxPagesSide:      envInt("DEEP_MAX_PAGES_SIDE", 5),
		BackfillDays:          envInt("BACKFILL_DAYS", 30),

		DBPath: envOr("DB_PATH", "kol_feed.db"),
		Port:   envInt("PORT", 8080),
	}

	return cfg, nil
}

// helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
