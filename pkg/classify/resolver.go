package classify

import (
	"regexp"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/kol-feed/pkg/helius"
)

// WrappedSolMint is the native wrapped-SOL mint. SOL legs are never
// resolved as memecoins.
var WrappedSolMint = solana.WrappedSol.String()

// Symbols longer than this are almost always mint addresses or junk
// metadata leaking through.
const maxSymbolLen = 15

// SymbolSource is the persistent token-cache lookup the resolver falls
// back to after batch metadata.
type SymbolSource interface {
	CachedSymbol(mint string) string
}

type Resolver struct {
	cache SymbolSource
}

func NewResolver(cache SymbolSource) *Resolver {
	return &Resolver{cache: cache}
}

// Resolve maps a mint to a display symbol. Layered: native SOL short
// circuit, batch metadata, persistent cache, then description text.
// Returns "" when nothing usable is found.
func (r *Resolver) Resolve(mint string, meta map[string]helius.TokenMeta, description string) string {
	if mint == WrappedSolMint {
		return "SOL"
	}

	if m, ok := meta[mint]; ok {
		sym := strings.TrimSpace(m.Symbol)
		if sym != "" && len(sym) <= maxSymbolLen {
			return sym
		}
	}

	if r.cache != nil && mint != "" {
		if sym := r.cache.CachedSymbol(mint); sym != "" {
			return sym
		}
	}

	return symbolFromDescription(description)
}

// "swapped 1.5 SOL for 1000000 WIF"; amounts may carry thousands
// separators.
var swapDescRe = regexp.MustCompile(`(?i)swapped\s+([0-9][0-9,.]*)\s+(\S+)\s+for\s+([0-9][0-9,.]*)\s+(\S+)`)

// symbolFromDescription extracts the non-SOL token symbol from a swap
// description, or "" when the text doesn't match.
func symbolFromDescription(description string) string {
	m := swapDescRe.FindStringSubmatch(description)
	if m == nil {
		return ""
	}
	tok1, tok2 := m[2], m[4]
	if strings.EqualFold(tok1, "SOL") {
		return cleanSymbol(tok2)
	}
	if strings.EqualFold(tok2, "SOL") {
		return cleanSymbol(tok1)
	}
	return ""
}

func cleanSymbol(s string) string {
	s = strings.TrimRight(s, ".,")
	if len(s) > maxSymbolLen {
		return ""
	}
	return s
}
