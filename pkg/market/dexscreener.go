package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kol-feed/pkg/db"
)

// DexScreener caps token batch lookups at 30 addresses per call.
const batchLimit = 30

const wrappedSolMint = "So11111111111111111111111111111111111111112"

type Client struct {
	baseURL string
	client  *http.Client

	solMu      sync.RWMutex
	solPrice   float64
	solFetched time.Time
}

func New(baseURL string) *Client {
	return &Client{baseURL: baseURL, client: &http.Client{Timeout: 30 * time.Second}}
}

type pair struct {
	ChainID   string  `json:"chainId"`
	PriceUSD  string  `json:"priceUsd"`
	MarketCap float64 `json:"marketCap"`
	BaseToken struct {
		Address string `json:"address"`
		Name    string `json:"name"`
		Symbol  string `json:"symbol"`
	} `json:"baseToken"`
	Liquidity struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
	PriceChange struct {
		H24 float64 `json:"h24"`
	} `json:"priceChange"`
	Info struct {
		ImageURL string `json:"imageUrl"`
	} `json:"info"`
}

// TokenBatch looks up market data for up to 30 mints per call. When a
// mint trades in multiple pairs, the pair with the highest liquidity is
// authoritative. A failed chunk is skipped, never fatal.
func (c *Client) TokenBatch(ctx context.Context, mints []string) map[string]db.TokenCacheEntry {
	result := make(map[string]db.TokenCacheEntry)

	for start := 0; start < len(mints); start += batchLimit {
		end := start + batchLimit
		if end > len(mints) {
			end = len(mints)
		}
		chunk := mints[start:end]

		pairs, err := c.fetchPairs(ctx, chunk)
		if err != nil {
			log.Warn().Err(err).Int("mints", len(chunk)).Msg("market data chunk failed")
			continue
		}

		best := make(map[string]float64) // mint -> liquidity of chosen pair
		for _, p := range pairs {
			mint := p.BaseToken.Address
			if mint == "" {
				continue
			}
			if liq, seen := best[mint]; seen && p.Liquidity.USD <= liq {
				continue
			}
			best[mint] = p.Liquidity.USD
			result[mint] = db.TokenCacheEntry{
				Mint:           mint,
				Name:           p.BaseToken.Name,
				Symbol:         p.BaseToken.Symbol,
				Image:          p.Info.ImageURL,
				MarketCap:      p.MarketCap,
				PriceUsd:       parseFloat(p.PriceUSD),
				PriceChange24h: p.PriceChange.H24,
				UpdatedAt:      time.Now().Unix(),
			}
		}
	}
	return result
}

func (c *Client) fetchPairs(ctx context.Context, mints []string) ([]pair, error) {
	u := fmt.Sprintf("%s/latest/dex/tokens/%s", c.baseURL, strings.Join(mints, ","))
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("HTTP %d from dexscreener", resp.StatusCode)
	}

	var result struct {
		Pairs []pair `json:"pairs"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&result); err != nil {
		return nil, err
	}
	return result.Pairs, nil
}

// SolPrice returns the current SOL/USD price, cached for 60 seconds.
func (c *Client) SolPrice(ctx context.Context) float64 {
	c.solMu.RLock()
	if c.solPrice > 0 && time.Since(c.solFetched) < 60*time.Second {
		defer c.solMu.RUnlock()
		return c.solPrice
	}
	c.solMu.RUnlock()

	entries := c.TokenBatch(ctx, []string{wrappedSolMint})
	if e, ok := entries[wrappedSolMint]; ok && e.PriceUsd > 0 {
		c.solMu.Lock()
		c.solPrice = e.PriceUsd
		c.solFetched = time.Now()
		c.solMu.Unlock()
		return e.PriceUsd
	}

	c.solMu.RLock()
	defer c.solMu.RUnlock()
	if c.solPrice > 0 {
		return c.solPrice // stale beats zero
	}
	return 0
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
