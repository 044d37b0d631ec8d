package market

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pairTmpl = `{"chainId":"solana","priceUsd":"%s","marketCap":%f,
"baseToken":{"address":"%s","name":"%s","symbol":"%s"},
"liquidity":{"usd":%f},"priceChange":{"h24":1.5},"info":{"imageUrl":"img.png"}}`

func TestTokenBatchPicksHighestLiquidityPair(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.URL.Path, "/latest/dex/tokens/"))
		// two pairs for the same mint, the deeper pool must win
		fmt.Fprintf(w, `{"pairs":[%s,%s]}`,
			fmt.Sprintf(pairTmpl, "0.10", 1e6, "mint-a", "Foo", "FOO", 5000.0),
			fmt.Sprintf(pairTmpl, "0.25", 2e6, "mint-a", "Foo", "FOO", 90000.0))
	}))
	defer srv.Close()

	c := New(srv.URL)
	entries := c.TokenBatch(context.Background(), []string{"mint-a"})

	require.Contains(t, entries, "mint-a")
	e := entries["mint-a"]
	assert.InDelta(t, 0.25, e.PriceUsd, 1e-9)
	assert.InDelta(t, 2e6, e.MarketCap, 1e-3)
	assert.Equal(t, "FOO", e.Symbol)
	assert.Equal(t, "img.png", e.Image)
	assert.InDelta(t, 1.5, e.PriceChange24h, 1e-9)
}

func TestTokenBatchChunksRequests(t *testing.T) {
	var calls int
	var perCall []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		mints := strings.Split(strings.TrimPrefix(r.URL.Path, "/latest/dex/tokens/"), ",")
		perCall = append(perCall, len(mints))
		fmt.Fprint(w, `{"pairs":[]}`)
	}))
	defer srv.Close()

	mints := make([]string, 45)
	for i := range mints {
		mints[i] = fmt.Sprintf("mint-%02d", i)
	}
	New(srv.URL).TokenBatch(context.Background(), mints)

	assert.Equal(t, 2, calls)
	assert.Equal(t, []int{30, 15}, perCall)
}

func TestTokenBatchToleratesServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", 429)
	}))
	defer srv.Close()

	entries := New(srv.URL).TokenBatch(context.Background(), []string{"mint-a"})
	assert.Empty(t, entries)
}

func TestSolPriceCachesAndServesStale(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			http.Error(w, "down", 500)
			return
		}
		fmt.Fprintf(w, `{"pairs":[%s]}`,
			fmt.Sprintf(pairTmpl, "150.0", 0.0, wrappedSolMint, "Wrapped SOL", "SOL", 1e9))
	}))
	defer srv.Close()

	c := New(srv.URL)
	assert.InDelta(t, 150.0, c.SolPrice(context.Background()), 1e-9)
	// cached, no second call
	assert.InDelta(t, 150.0, c.SolPrice(context.Background()), 1e-9)
	assert.Equal(t, 1, calls)

	// expire the cache, upstream now failing: stale price survives
	c.solFetched = c.solFetched.Add(-2 * time.Minute)
	assert.InDelta(t, 150.0, c.SolPrice(context.Background()), 1e-9)
	assert.Equal(t, 2, calls)
}
