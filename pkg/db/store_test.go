package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleTrade(sig string, blockTime int64) Trade {
	return Trade{
		Wallet:      "CyaE1VxvBrahnPWkqm5VsdCvyS2QmNht2UFrKJHga54o",
		KOLName:     "Cented",
		KOLAvatar:   "ava.png",
		Action:      "Buy",
		TokenSymbol: "WIF",
		TokenMint:   "EKpQGSJtjMFqKZ9KQanSqYXRcF8fBopzLHYxdM65zcjm",
		TokenAmount: 1000,
		AmountSol:   1.5,
		Signature:   sig,
		BlockTime:   blockTime,
	}
}

func TestInsertTradeDeduplicatesBySignature(t *testing.T) {
	s := newTestStore(t)

	ok, err := s.InsertTrade(sampleTrade("sig-a", 100))
	require.NoError(t, err)
	assert.True(t, ok)

	// same signature again, even with different fields
	dup := sampleTrade("sig-a", 200)
	dup.AmountSol = 99
	ok, err = s.InsertTrade(dup)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := s.CountTrades()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// the original row survives untouched
	trades, err := s.GetRecentTrades(10)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.InDelta(t, 1.5, trades[0].AmountSol, 1e-9)
	assert.Equal(t, int64(100), trades[0].BlockTime)
}

func TestGetTradesSinceOrdersNewestFirst(t *testing.T) {
	s := newTestStore(t)
	for i, bt := range []int64{100, 300, 200} {
		tr := sampleTrade(string(rune('a'+i)), bt)
		_, err := s.InsertTrade(tr)
		require.NoError(t, err)
	}

	trades, err := s.GetTradesSince(150)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, int64(300), trades[0].BlockTime)
	assert.Equal(t, int64(200), trades[1].BlockTime)
}

func TestDeleteAllTrades(t *testing.T) {
	s := newTestStore(t)
	_, err := s.InsertTrade(sampleTrade("sig-a", 100))
	require.NoError(t, err)

	require.NoError(t, s.DeleteAllTrades())
	n, err := s.CountTrades()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTokenCacheMergePreservesIdentity(t *testing.T) {
	s := newTestStore(t)
	mint := "EKpQGSJtjMFqKZ9KQanSqYXRcF8fBopzLHYxdM65zcjm"

	require.NoError(t, s.UpsertTokenMeta(mint, "dogwifhat", "WIF", "wif.png"))

	// market refresh with no identity fields must not blank them
	require.NoError(t, s.UpsertTokenMarket(TokenCacheEntry{
		Mint:     mint,
		PriceUsd: 2.5, MarketCap: 2_500_000_000, PriceChange24h: -3.2,
	}))

	e, err := s.GetTokenCache(mint)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "dogwifhat", e.Name)
	assert.Equal(t, "WIF", e.Symbol)
	assert.Equal(t, "wif.png", e.Image)
	assert.InDelta(t, 2.5, e.PriceUsd, 1e-9)
	assert.InDelta(t, -3.2, e.PriceChange24h, 1e-9)
}

func TestTokenCacheMetaNeverClobbersWithEmpty(t *testing.T) {
	s := newTestStore(t)
	mint := "mint-x"

	require.NoError(t, s.UpsertTokenMeta(mint, "Foo", "FOO", "foo.png"))
	require.NoError(t, s.UpsertTokenMeta(mint, "", "", ""))

	e, err := s.GetTokenCache(mint)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "Foo", e.Name)
	assert.Equal(t, "FOO", e.Symbol)
}

func TestGetTokenCacheMissingReturnsNil(t *testing.T) {
	s := newTestStore(t)
	e, err := s.GetTokenCache("nope")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestCachedSymbol(t *testing.T) {
	s := newTestStore(t)
	assert.Empty(t, s.CachedSymbol("nope"))

	require.NoError(t, s.UpsertTokenMeta("mint-y", "Bar", "BAR", ""))
	assert.Equal(t, "BAR", s.CachedSymbol("mint-y"))
}

func TestRecentMints(t *testing.T) {
	s := newTestStore(t)

	a := sampleTrade("sig-1", 100)
	a.TokenMint = "mint-a"
	b := sampleTrade("sig-2", 300)
	b.TokenMint = "mint-b"
	c := sampleTrade("sig-3", 200)
	c.TokenMint = "" // unresolved mint never refreshed
	for _, tr := range []Trade{a, b, c} {
		_, err := s.InsertTrade(tr)
		require.NoError(t, err)
	}

	mints, err := s.RecentMints(10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"mint-a", "mint-b"}, mints)
}
