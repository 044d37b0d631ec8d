package classify

import (
	"regexp"
	"strings"

	"github.com/kol-feed/pkg/config"
	"github.com/kol-feed/pkg/db"
)

// Six or more bare hex characters is a mint address fragment leaking
// through as a "symbol", not a real ticker.
var hexSymbolRe = regexp.MustCompile(`^[0-9a-fA-F]{6,}$`)

// Filter is the last gate before persistence, and is re-applied at
// read time in feed queries so stale rows predating a deny-list update
// are still screened out.
type Filter struct {
	SkipTokens map[string]bool
	SkipMints  map[string]bool
}

func NewFilter() *Filter {
	return &Filter{SkipTokens: config.SkipTokens, SkipMints: config.SkipMints}
}

// IsValid reports whether t is a genuine memecoin trade worth keeping.
func (f *Filter) IsValid(t *db.Trade) bool {
	if t == nil {
		return false
	}
	if t.Action != ActionBuy && t.Action != ActionSell {
		return false
	}
	if t.TokenSymbol == "" || len(t.TokenSymbol) > maxSymbolLen {
		return false
	}
	if hexSymbolRe.MatchString(t.TokenSymbol) {
		return false
	}
	if t.AmountSol <= 0 {
		return false
	}
	if f.SkipTokens[strings.ToUpper(t.TokenSymbol)] {
		return false
	}
	if f.SkipMints[t.TokenMint] {
		return false
	}
	return true
}
