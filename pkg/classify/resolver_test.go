package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kol-feed/pkg/helius"
)

func TestResolveWrappedSolShortCircuits(t *testing.T) {
	r := NewResolver(nil)
	assert.Equal(t, "SOL", r.Resolve(WrappedSolMint, nil, ""))
}

func TestResolvePrefersBatchMetadata(t *testing.T) {
	r := NewResolver(mapSource{testMint: "CACHED"})
	meta := map[string]helius.TokenMeta{testMint: {Symbol: "FRESH"}}
	assert.Equal(t, "FRESH", r.Resolve(testMint, meta, ""))
}

func TestResolveFallsBackToCache(t *testing.T) {
	r := NewResolver(mapSource{testMint: "CACHED"})
	assert.Equal(t, "CACHED", r.Resolve(testMint, nil, ""))
}

func TestResolveFallsBackToDescription(t *testing.T) {
	r := NewResolver(nil)
	desc := "abc swapped 1 SOL for 500 PONKE"
	assert.Equal(t, "PONKE", r.Resolve(testMint, nil, desc))
}

func TestResolveRejectsOversizedMetadataSymbol(t *testing.T) {
	r := NewResolver(mapSource{testMint: "OK"})
	meta := map[string]helius.TokenMeta{testMint: {Symbol: "THISSYMBOLISWAYTOOLONG"}}
	assert.Equal(t, "OK", r.Resolve(testMint, meta, ""))
}

func TestSymbolFromDescriptionTokenToToken(t *testing.T) {
	assert.Empty(t, symbolFromDescription("abc swapped 100 USDC for 500 WIF"))
	assert.Empty(t, symbolFromDescription("not a swap at all"))
}
