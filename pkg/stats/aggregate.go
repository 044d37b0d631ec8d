package stats

import (
	"sort"

	"github.com/kol-feed/pkg/db"
	"github.com/kol-feed/pkg/kol"
)

// LeaderboardRow is one KOL's aggregate over a time window.
type LeaderboardRow struct {
	KOLName    string  `json:"kol_name"`
	Avatar     string  `json:"avatar"`
	TradeCount int     `json:"trade_count"`
	BuyCount   int     `json:"buy_count"`
	SellCount  int     `json:"sell_count"`
	PnlSol     float64 `json:"pnl_sol"`
	WinRate    float64 `json:"win_rate"`
}

// Leaderboard groups in-window trades by KOL. PnL is SOL received from
// sells minus SOL spent on buys. KOLs from the reference list with no
// trades in the window still appear, zeroed, after all active KOLs;
// active KOLs sort by descending PnL, inactive by name.
func Leaderboard(trades []db.Trade, kols []kol.KOL) []LeaderboardRow {
	byName := make(map[string]*LeaderboardRow)
	var active []*LeaderboardRow

	for _, t := range trades {
		row, ok := byName[t.KOLName]
		if !ok {
			row = &LeaderboardRow{KOLName: t.KOLName, Avatar: t.KOLAvatar}
			byName[t.KOLName] = row
			active = append(active, row)
		}
		row.TradeCount++
		switch t.Action {
		case "Buy":
			row.BuyCount++
			row.PnlSol -= t.AmountSol
		case "Sell":
			row.SellCount++
			row.PnlSol += t.AmountSol
		}
	}

	for _, row := range active {
		wins := 0
		for _, t := range trades {
			if t.KOLName == row.KOLName && t.Action == "Sell" && t.AmountSol > 0 {
				wins++
			}
		}
		if row.TradeCount > 0 {
			row.WinRate = float64(wins) / float64(row.TradeCount) * 100
		}
	}

	sort.SliceStable(active, func(i, j int) bool { return active[i].PnlSol > active[j].PnlSol })

	var inactive []*LeaderboardRow
	for _, k := range kols {
		if _, seen := byName[k.Name]; !seen {
			inactive = append(inactive, &LeaderboardRow{KOLName: k.Name, Avatar: k.Avatar})
		}
	}
	sort.SliceStable(inactive, func(i, j int) bool { return inactive[i].KOLName < inactive[j].KOLName })

	out := make([]LeaderboardRow, 0, len(active)+len(inactive))
	for _, r := range active {
		out = append(out, *r)
	}
	for _, r := range inactive {
		out = append(out, *r)
	}
	return out
}

// DiversityCap walks trades newest-first and keeps each trade unless
// its KOL already has perKOL kept trades, stopping at limit.
func DiversityCap(trades []db.Trade, perKOL, limit int) []db.Trade {
	kept := make([]db.Trade, 0, limit)
	counts := make(map[string]int)
	for _, t := range trades {
		if counts[t.KOLName] >= perKOL {
			continue
		}
		counts[t.KOLName]++
		kept = append(kept, t)
		if len(kept) >= limit {
			break
		}
	}
	return kept
}

// Position is one wallet's aggregate activity in a single token.
type Position struct {
	Wallet       string  `json:"wallet"`
	KOLName      string  `json:"kol_name"`
	KOLAvatar    string  `json:"kol_avatar"`
	BoughtSol    float64 `json:"bought_sol"`
	SoldSol      float64 `json:"sold_sol"`
	BoughtTokens float64 `json:"bought_tokens"`
	SoldTokens   float64 `json:"sold_tokens"`
	LastTrade    int64   `json:"last_trade"`
}

// TokenPositions aggregates trades of one mint per wallet, most recent
// activity first.
func TokenPositions(trades []db.Trade) []Position {
	byWallet := make(map[string]*Position)
	var order []*Position

	for _, t := range trades {
		p, ok := byWallet[t.Wallet]
		if !ok {
			p = &Position{Wallet: t.Wallet, KOLName: t.KOLName, KOLAvatar: t.KOLAvatar}
			byWallet[t.Wallet] = p
			order = append(order, p)
		}
		switch t.Action {
		case "Buy":
			p.BoughtSol += t.AmountSol
			p.BoughtTokens += t.TokenAmount
		case "Sell":
			p.SoldSol += t.AmountSol
			p.SoldTokens += t.TokenAmount
		}
		if t.BlockTime > p.LastTrade {
			p.LastTrade = t.BlockTime
		}
	}

	sort.SliceStable(order, func(i, j int) bool { return order[i].LastTrade > order[j].LastTrade })

	out := make([]Position, 0, len(order))
	for _, p := range order {
		out = append(out, *p)
	}
	return out
}

// PriceSource resolves a mint to its cached market data.
type PriceSource interface {
	GetTokenCache(mint string) (*db.TokenCacheEntry, error)
}

// TokenPnL is a KOL's realized and estimated result for one token.
type TokenPnL struct {
	Mint            string  `json:"mint"`
	Symbol          string  `json:"symbol"`
	BoughtSol       float64 `json:"bought_sol"`
	SoldSol         float64 `json:"sold_sol"`
	BoughtTokens    float64 `json:"bought_tokens"`
	SoldTokens      float64 `json:"sold_tokens"`
	RealizedSol     float64 `json:"realized_sol"`
	HoldingValueSol float64 `json:"holding_value_sol"`
	TotalPnlSol     float64 `json:"total_pnl_sol"`
	ROI             float64 `json:"roi"`
}

// KOLTokenPnL computes per-token totals for one KOL's trades. Holding
// value prices the remaining balance with the cached USD price at the
// current SOL/USD rate; both default to zero when unavailable.
func KOLTokenPnL(trades []db.Trade, prices PriceSource, solUsd float64) []TokenPnL {
	byMint := make(map[string]*TokenPnL)
	var order []*TokenPnL

	for _, t := range trades {
		key := t.TokenMint
		if key == "" {
			key = t.TokenSymbol
		}
		p, ok := byMint[key]
		if !ok {
			p = &TokenPnL{Mint: t.TokenMint, Symbol: t.TokenSymbol}
			byMint[key] = p
			order = append(order, p)
		}
		switch t.Action {
		case "Buy":
			p.BoughtSol += t.AmountSol
			p.BoughtTokens += t.TokenAmount
		case "Sell":
			p.SoldSol += t.AmountSol
			p.SoldTokens += t.TokenAmount
		}
	}

	for _, p := range order {
		p.RealizedSol = p.SoldSol - p.BoughtSol

		remaining := p.BoughtTokens - p.SoldTokens
		if remaining > 0 && p.Mint != "" && prices != nil && solUsd > 0 {
			if entry, err := prices.GetTokenCache(p.Mint); err == nil && entry != nil && entry.PriceUsd > 0 {
				p.HoldingValueSol = remaining * entry.PriceUsd / solUsd
			}
		}

		p.TotalPnlSol = p.RealizedSol + p.HoldingValueSol
		if p.BoughtSol > 0 {
			p.ROI = (p.SoldSol + p.HoldingValueSol - p.BoughtSol) / p.BoughtSol
		}
	}

	sort.SliceStable(order, func(i, j int) bool { return order[i].TotalPnlSol > order[j].TotalPnlSol })

	out := make([]TokenPnL, 0, len(order))
	for _, p := range order {
		out = append(out, *p)
	}
	return out
}
