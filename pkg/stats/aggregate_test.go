package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kol-feed/pkg/db"
	"github.com/kol-feed/pkg/kol"
)

func trade(kolName, action, mint string, sol, tokens float64, blockTime int64) db.Trade {
	return db.Trade{
		KOLName:     kolName,
		Wallet:      "w-" + kolName,
		Action:      action,
		TokenSymbol: "TOK",
		TokenMint:   mint,
		AmountSol:   sol,
		TokenAmount: tokens,
		BlockTime:   blockTime,
	}
}

func TestLeaderboardPnlAndWinRate(t *testing.T) {
	trades := []db.Trade{
		trade("Cented", "Buy", "m1", 2.0, 100, 10),
		trade("Cented", "Sell", "m1", 3.0, 100, 20),
		trade("Kreo", "Buy", "m1", 5.0, 50, 30),
	}
	kols := []kol.KOL{{Name: "Cented"}, {Name: "Kreo"}}

	rows := Leaderboard(trades, kols)
	require.Len(t, rows, 2)

	// Cented: sold 3, bought 2 => +1.0, one winning sell of two trades
	assert.Equal(t, "Cented", rows[0].KOLName)
	assert.InDelta(t, 1.0, rows[0].PnlSol, 1e-9)
	assert.Equal(t, 2, rows[0].TradeCount)
	assert.InDelta(t, 50.0, rows[0].WinRate, 1e-9)

	// Kreo: pure buy, negative PnL sorts below
	assert.Equal(t, "Kreo", rows[1].KOLName)
	assert.InDelta(t, -5.0, rows[1].PnlSol, 1e-9)
	assert.Zero(t, rows[1].WinRate)
}

func TestLeaderboardZeroTradeKOLsAppendedByName(t *testing.T) {
	trades := []db.Trade{trade("Waddles", "Sell", "m1", 1.0, 10, 10)}
	kols := []kol.KOL{
		{Name: "Waddles"},
		{Name: "Lynk", Avatar: "lynk.png"},
		{Name: "Cented"},
	}

	rows := Leaderboard(trades, kols)
	require.Len(t, rows, 3)
	assert.Equal(t, "Waddles", rows[0].KOLName)
	// inactive sorted alphabetically after all active
	assert.Equal(t, "Cented", rows[1].KOLName)
	assert.Equal(t, "Lynk", rows[2].KOLName)
	assert.Zero(t, rows[2].TradeCount)
	assert.Equal(t, "lynk.png", rows[2].Avatar)
}

func TestDiversityCapLimitsPerKOL(t *testing.T) {
	// newest-first input, Cented dominating the top
	trades := []db.Trade{
		trade("Cented", "Buy", "m1", 1, 1, 60),
		trade("Cented", "Buy", "m2", 1, 1, 50),
		trade("Cented", "Buy", "m3", 1, 1, 40),
		trade("Kreo", "Buy", "m1", 1, 1, 30),
		trade("Cented", "Buy", "m4", 1, 1, 20),
		trade("Kreo", "Sell", "m1", 1, 1, 10),
	}

	feed := DiversityCap(trades, 2, 10)
	require.Len(t, feed, 4)
	assert.Equal(t, int64(60), feed[0].BlockTime)
	assert.Equal(t, int64(50), feed[1].BlockTime)
	assert.Equal(t, int64(30), feed[2].BlockTime) // third Cented trade skipped
	assert.Equal(t, int64(10), feed[3].BlockTime)
}

func TestDiversityCapHonorsLimit(t *testing.T) {
	var trades []db.Trade
	for i := 0; i < 10; i++ {
		trades = append(trades, trade("K"+string(rune('a'+i)), "Buy", "m", 1, 1, int64(100-i)))
	}
	feed := DiversityCap(trades, 2, 3)
	assert.Len(t, feed, 3)
}

func TestTokenPositionsAggregatesPerWallet(t *testing.T) {
	trades := []db.Trade{
		trade("Cented", "Buy", "m1", 2.0, 200, 10),
		trade("Cented", "Sell", "m1", 1.5, 100, 30),
		trade("Kreo", "Buy", "m1", 4.0, 400, 20),
	}

	pos := TokenPositions(trades)
	require.Len(t, pos, 2)

	// Cented traded more recently, sorts first
	assert.Equal(t, "w-Cented", pos[0].Wallet)
	assert.InDelta(t, 2.0, pos[0].BoughtSol, 1e-9)
	assert.InDelta(t, 1.5, pos[0].SoldSol, 1e-9)
	assert.InDelta(t, 100.0, pos[0].SoldTokens, 1e-9)
	assert.Equal(t, int64(30), pos[0].LastTrade)

	assert.Equal(t, "w-Kreo", pos[1].Wallet)
	assert.InDelta(t, 4.0, pos[1].BoughtSol, 1e-9)
}

type priceMap map[string]*db.TokenCacheEntry

func (p priceMap) GetTokenCache(mint string) (*db.TokenCacheEntry, error) {
	return p[mint], nil
}

func TestKOLTokenPnLWithHoldings(t *testing.T) {
	trades := []db.Trade{
		trade("Cented", "Buy", "m1", 4.0, 1000, 10),
		trade("Cented", "Sell", "m1", 3.0, 400, 20),
	}
	prices := priceMap{"m1": {Mint: "m1", PriceUsd: 0.5}}

	// 600 tokens held at $0.5 with SOL at $100 => 3 SOL holding value
	res := KOLTokenPnL(trades, prices, 100)
	require.Len(t, res, 1)
	assert.InDelta(t, -1.0, res[0].RealizedSol, 1e-9)
	assert.InDelta(t, 3.0, res[0].HoldingValueSol, 1e-9)
	assert.InDelta(t, 2.0, res[0].TotalPnlSol, 1e-9)
	assert.InDelta(t, 0.5, res[0].ROI, 1e-9)
}

func TestKOLTokenPnLNoPriceData(t *testing.T) {
	trades := []db.Trade{
		trade("Cented", "Buy", "m1", 4.0, 1000, 10),
	}

	res := KOLTokenPnL(trades, priceMap{}, 100)
	require.Len(t, res, 1)
	assert.InDelta(t, -4.0, res[0].RealizedSol, 1e-9)
	assert.Zero(t, res[0].HoldingValueSol)
	assert.InDelta(t, -4.0, res[0].TotalPnlSol, 1e-9)
}

func TestKOLTokenPnLOversoldClampsHolding(t *testing.T) {
	// sold more than tracked buys: no phantom negative holding
	trades := []db.Trade{
		trade("Cented", "Buy", "m1", 1.0, 100, 10),
		trade("Cented", "Sell", "m1", 5.0, 500, 20),
	}
	prices := priceMap{"m1": {Mint: "m1", PriceUsd: 1.0}}

	res := KOLTokenPnL(trades, prices, 100)
	require.Len(t, res, 1)
	assert.Zero(t, res[0].HoldingValueSol)
	assert.InDelta(t, 4.0, res[0].TotalPnlSol, 1e-9)
}
