package classify

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/kol-feed/pkg/db"
	"github.com/kol-feed/pkg/helius"
)

const (
	ActionBuy  = "Buy"
	ActionSell = "Sell"
)

// Net SOL movement below this is fees/rent noise, not a trade.
const dustThresholdSol = 0.001

// Declared transaction types that are never trades.
var nonTradeTypes = map[string]bool{
	"TRANSFER":            true,
	"BURN":                true,
	"BURN_NFT":            true,
	"NFT_SALE":            true,
	"NFT_BID":             true,
	"NFT_MINT":            true,
	"NFT_LISTING":         true,
	"NFT_CANCEL_LISTING":  true,
	"STAKE_TOKEN":         true,
	"UNSTAKE_TOKEN":       true,
	"STAKE_SOL":           true,
	"UNSTAKE_SOL":         true,
	"DEPOSIT":             true,
	"WITHDRAW":            true,
	"COMPRESSED_NFT_MINT": true,
}

type Classifier struct {
	resolver *Resolver
}

func NewClassifier(cache SymbolSource) *Classifier {
	return &Classifier{resolver: NewResolver(cache)}
}

// Classify decides whether tx is a memecoin Buy or Sell by wallet and
// extracts the amounts. Strategies are tried in order and the first
// conclusive result wins; nil means the transaction is not a tracked
// trade. The KOL identity is caller-supplied context, never derived
// from the transaction itself.
func (c *Classifier) Classify(tx helius.Transaction, kolName, kolAvatar, wallet string, meta map[string]helius.TokenMeta) *db.Trade {
	if nonTradeTypes[tx.Type] {
		return nil
	}

	desc := strings.ToLower(tx.Description)
	if strings.Contains(desc, "transferred") && !strings.Contains(desc, "swap") {
		return nil
	}
	for _, prefix := range []string{"burned", "close", "staked"} {
		if strings.HasPrefix(desc, prefix) {
			return nil
		}
	}

	base := db.Trade{
		Wallet:     wallet,
		KOLName:    kolName,
		KOLAvatar:  kolAvatar,
		Signature:  tx.Signature,
		BlockTime:  tx.Timestamp,
		IngestedAt: time.Now().Unix(),
	}

	if t := c.fromSwapEvent(tx, base, meta); conclusive(t) {
		return t
	}
	if t := c.fromDescription(tx, base, meta); conclusive(t) {
		return t
	}
	if t := c.fromNetBalance(tx, base, wallet, meta); conclusive(t) {
		return t
	}
	return nil
}

func conclusive(t *db.Trade) bool {
	return t != nil &&
		(t.Action == ActionBuy || t.Action == ActionSell) &&
		t.AmountSol > 0 &&
		t.TokenSymbol != ""
}

// ── Strategy 0: structured swap event ───────────────────────

func (c *Classifier) fromSwapEvent(tx helius.Transaction, t db.Trade, meta map[string]helius.TokenMeta) *db.Trade {
	ev := tx.Events.Swap
	if ev == nil {
		return nil
	}

	nativeIn := lamportsStr(ev.NativeInput.Amount)
	nativeOut := lamportsStr(ev.NativeOutput.Amount)

	switch {
	case nativeIn > 0 && len(ev.TokenOutputs) > 0:
		// SOL in, token out: a buy of the paired token.
		leg := ev.TokenOutputs[0]
		t.Action = ActionBuy
		t.AmountSol = nativeIn
		t.TokenMint = leg.Mint
		t.TokenAmount = rawToDecimal(leg.RawTokenAmount.TokenAmount, leg.RawTokenAmount.Decimals)
	case nativeOut > 0 && len(ev.TokenInputs) > 0:
		leg := ev.TokenInputs[0]
		t.Action = ActionSell
		t.AmountSol = nativeOut
		t.TokenMint = leg.Mint
		t.TokenAmount = rawToDecimal(leg.RawTokenAmount.TokenAmount, leg.RawTokenAmount.Decimals)
	default:
		return nil
	}

	t.TokenSymbol = c.resolver.Resolve(t.TokenMint, meta, tx.Description)
	return &t
}

// ── Strategy 1: description pattern match ───────────────────

func (c *Classifier) fromDescription(tx helius.Transaction, t db.Trade, meta map[string]helius.TokenMeta) *db.Trade {
	m := swapDescRe.FindStringSubmatch(tx.Description)
	if m == nil {
		return nil
	}

	amt1, tok1 := parseAmount(m[1]), m[2]
	amt2, tok2 := parseAmount(m[3]), m[4]

	switch {
	case strings.EqualFold(tok1, "SOL"):
		t.Action = ActionBuy
		t.AmountSol = amt1
		t.TokenSymbol = cleanSymbol(tok2)
		t.TokenAmount = amt2
	case strings.EqualFold(tok2, "SOL"):
		t.Action = ActionSell
		t.AmountSol = amt2
		t.TokenSymbol = cleanSymbol(tok1)
		t.TokenAmount = amt1
	default:
		// token-to-token swap, not SOL-denominated
		return nil
	}

	t.TokenMint = c.inferMint(tx, t.Action, t.TokenSymbol, t.Wallet, meta)
	return &t
}

// inferMint finds the mint for a parsed symbol: first from the token
// transfer matching the trade direction for the classified wallet
// (which need not be the fee payer when a relayer pays), then by
// symbol match in the metadata map.
func (c *Classifier) inferMint(tx helius.Transaction, action, symbol, wallet string, meta map[string]helius.TokenMeta) string {
	for _, tt := range tx.TokenTransfers {
		if tt.Mint == "" || tt.Mint == WrappedSolMint {
			continue
		}
		if action == ActionBuy && tt.ToUserAccount == wallet {
			return tt.Mint
		}
		if action == ActionSell && tt.FromUserAccount == wallet {
			return tt.Mint
		}
	}
	for mint, m := range meta {
		if strings.EqualFold(m.Symbol, symbol) {
			return mint
		}
	}
	return ""
}

// ── Strategy 2: net balance inference ───────────────────────

func (c *Classifier) fromNetBalance(tx helius.Transaction, t db.Trade, wallet string, meta map[string]helius.TokenMeta) *db.Trade {
	var netLamports int64
	for _, nt := range tx.NativeTransfers {
		if nt.ToUserAccount == wallet {
			netLamports += nt.Amount
		}
		if nt.FromUserAccount == wallet {
			netLamports -= nt.Amount
		}
	}
	netSol := float64(netLamports) / 1e9

	// Largest-magnitude token movement each way, SOL legs excluded.
	var tokenIn, tokenOut *helius.TokenTransfer
	for i := range tx.TokenTransfers {
		tt := &tx.TokenTransfers[i]
		if tt.Mint == "" || tt.Mint == WrappedSolMint {
			continue
		}
		if tt.ToUserAccount == wallet {
			if tokenIn == nil || math.Abs(tt.TokenAmount) > math.Abs(tokenIn.TokenAmount) {
				tokenIn = tt
			}
		} else if tt.FromUserAccount == wallet {
			if tokenOut == nil || math.Abs(tt.TokenAmount) > math.Abs(tokenOut.TokenAmount) {
				tokenOut = tt
			}
		}
	}

	switch {
	case -netSol > dustThresholdSol && tokenIn != nil && tokenOut == nil:
		t.Action = ActionBuy
		t.AmountSol = -netSol
		t.TokenMint = tokenIn.Mint
		t.TokenAmount = tokenIn.TokenAmount
	case netSol > dustThresholdSol && tokenOut != nil && tokenIn == nil:
		t.Action = ActionSell
		t.AmountSol = netSol
		t.TokenMint = tokenOut.Mint
		t.TokenAmount = tokenOut.TokenAmount
	default:
		return nil
	}

	t.TokenSymbol = c.resolver.Resolve(t.TokenMint, meta, tx.Description)
	if t.TokenSymbol == "" {
		// unresolved symbol: discard rather than persist a mint address
		return nil
	}
	return &t
}

// ── numeric helpers ─────────────────────────────────────────

// lamportsStr converts a lamport string amount to SOL.
func lamportsStr(amount string) float64 {
	return rawToDecimal(amount, 9)
}

// rawToDecimal scales a raw integer amount string by its decimals.
func rawToDecimal(amount string, decimals int) float64 {
	if amount == "" || amount == "0" {
		return 0
	}
	v, ok := new(big.Float).SetString(amount)
	if !ok {
		return 0
	}
	divisor := new(big.Float).SetFloat64(math.Pow10(decimals))
	res, _ := new(big.Float).Quo(v, divisor).Float64()
	return res
}

// parseAmount parses a description amount, stripping thousands
// separators.
func parseAmount(s string) float64 {
	f, _ := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return f
}
