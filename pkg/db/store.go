package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS trades (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    wallet TEXT NOT NULL,
    kol_name TEXT NOT NULL,
    kol_avatar TEXT,
    action TEXT NOT NULL,
    token_symbol TEXT NOT NULL,
    token_mint TEXT,
    token_amount REAL,
    amount_sol REAL NOT NULL,
    signature TEXT NOT NULL UNIQUE,
    block_time INTEGER NOT NULL,
    ingested_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS token_cache (
    mint TEXT PRIMARY KEY,
    name TEXT DEFAULT '',
    symbol TEXT DEFAULT '',
    image TEXT DEFAULT '',
    market_cap REAL DEFAULT 0,
    price_usd REAL DEFAULT 0,
    price_change_24h REAL DEFAULT 0,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_time ON trades(block_time);
CREATE INDEX IF NOT EXISTS idx_trades_kol ON trades(kol_name);
CREATE INDEX IF NOT EXISTS idx_trades_mint ON trades(token_mint);
`

type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ---- Trades ----

// InsertTrade persists a trade, ignoring duplicate signatures. Returns
// true when a new row was written, false when the signature was already
// present.
func (s *Store) InsertTrade(t Trade) (bool, error) {
	if t.IngestedAt == 0 {
		t.IngestedAt = time.Now().Unix()
	}
	res, err := s.db.Exec(`
		INSERT OR IGNORE INTO trades
		(wallet, kol_name, kol_avatar, action, token_symbol, token_mint, token_amount, amount_sol, signature, block_time, ingested_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		t.Wallet, t.KOLName, t.KOLAvatar, t.Action, t.TokenSymbol, t.TokenMint,
		t.TokenAmount, t.AmountSol, t.Signature, t.BlockTime, t.IngestedAt)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *Store) CountTrades() (int64, error) {
	var n int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM trades").Scan(&n)
	return n, err
}

// DeleteAllTrades wipes the trades table for a reset-and-rebackfill.
func (s *Store) DeleteAllTrades() error {
	_, err := s.db.Exec("DELETE FROM trades")
	return err
}

const tradeCols = `id, wallet, kol_name, COALESCE(kol_avatar,''), action, token_symbol,
	COALESCE(token_mint,''), token_amount, amount_sol, signature, block_time, ingested_at`

func (s *Store) scanTrades(rows *sql.Rows) []Trade {
	defer rows.Close()
	var trades []Trade
	for rows.Next() {
		var t Trade
		if err := rows.Scan(&t.ID, &t.Wallet, &t.KOLName, &t.KOLAvatar, &t.Action, &t.TokenSymbol,
			&t.TokenMint, &t.TokenAmount, &t.AmountSol, &t.Signature, &t.BlockTime, &t.IngestedAt); err != nil {
			continue
		}
		trades = append(trades, t)
	}
	return trades
}

// GetTradesSince returns trades at or after the unix cutoff, newest first.
func (s *Store) GetTradesSince(since int64) ([]Trade, error) {
	rows, err := s.db.Query(`SELECT `+tradeCols+` FROM trades WHERE block_time >= ? ORDER BY block_time DESC`, since)
	if err != nil {
		return nil, err
	}
	return s.scanTrades(rows), nil
}

// GetRecentTrades returns the newest trades across all KOLs.
func (s *Store) GetRecentTrades(limit int) ([]Trade, error) {
	rows, err := s.db.Query(`SELECT `+tradeCols+` FROM trades ORDER BY block_time DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return s.scanTrades(rows), nil
}

func (s *Store) GetTradesForMint(mint string) ([]Trade, error) {
	rows, err := s.db.Query(`SELECT `+tradeCols+` FROM trades WHERE token_mint = ? ORDER BY block_time DESC`, mint)
	if err != nil {
		return nil, err
	}
	return s.scanTrades(rows), nil
}

func (s *Store) GetTradesForKOL(name string) ([]Trade, error) {
	rows, err := s.db.Query(`SELECT `+tradeCols+` FROM trades WHERE kol_name = ? ORDER BY block_time DESC`, name)
	if err != nil {
		return nil, err
	}
	return s.scanTrades(rows), nil
}

// RecentMints returns the distinct mints of the latest trades, for the
// market-data refresher.
func (s *Store) RecentMints(limit int) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT token_mint FROM trades
		WHERE token_mint != ''
		ORDER BY block_time DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mints []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			continue
		}
		mints = append(mints, m)
	}
	return mints, nil
}

// ---- Token cache ----

// UpsertTokenMeta writes identity fields only; empty values never
// clobber existing non-empty ones. Market fields are untouched.
func (s *Store) UpsertTokenMeta(mint, name, symbol, image string) error {
	_, err := s.db.Exec(`
		INSERT INTO token_cache (mint, name, symbol, image, updated_at)
		VALUES (?,?,?,?,?)
		ON CONFLICT(mint) DO UPDATE SET
			name   = CASE WHEN excluded.name   = '' THEN token_cache.name   ELSE excluded.name   END,
			symbol = CASE WHEN excluded.symbol = '' THEN token_cache.symbol ELSE excluded.symbol END,
			image  = CASE WHEN excluded.image  = '' THEN token_cache.image  ELSE excluded.image  END,
			updated_at = excluded.updated_at`,
		mint, name, symbol, image, time.Now().Unix())
	return err
}

// UpsertTokenMarket merges a market-data refresh into the cache. Market
// fields always overwrite; identity fields keep existing non-empty
// values when the refresh carries blanks.
func (s *Store) UpsertTokenMarket(e TokenCacheEntry) error {
	if e.UpdatedAt == 0 {
		e.UpdatedAt = time.Now().Unix()
	}
	_, err := s.db.Exec(`
		INSERT INTO token_cache (mint, name, symbol, image, market_cap, price_usd, price_change_24h, updated_at)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT(mint) DO UPDATE SET
			name   = CASE WHEN excluded.name   = '' THEN token_cache.name   ELSE excluded.name   END,
			symbol = CASE WHEN excluded.symbol = '' THEN token_cache.symbol ELSE excluded.symbol END,
			image  = CASE WHEN excluded.image  = '' THEN token_cache.image  ELSE excluded.image  END,
			market_cap       = excluded.market_cap,
			price_usd        = excluded.price_usd,
			price_change_24h = excluded.price_change_24h,
			updated_at       = excluded.updated_at`,
		e.Mint, e.Name, e.Symbol, e.Image, e.MarketCap, e.PriceUsd, e.PriceChange24h, e.UpdatedAt)
	return err
}

// GetTokenCache returns the cache row for mint, or nil when absent.
func (s *Store) GetTokenCache(mint string) (*TokenCacheEntry, error) {
	var e TokenCacheEntry
	err := s.db.QueryRow(`
		SELECT mint, name, symbol, image, market_cap, price_usd, price_change_24h, updated_at
		FROM token_cache WHERE mint = ?`, mint).
		Scan(&e.Mint, &e.Name, &e.Symbol, &e.Image, &e.MarketCap, &e.PriceUsd, &e.PriceChange24h, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CachedSymbol returns the cached symbol for mint, or "". Used both by
// the resolver fallback and by the metadata fetch to skip known mints.
func (s *Store) CachedSymbol(mint string) string {
	var sym string
	if err := s.db.QueryRow("SELECT symbol FROM token_cache WHERE mint = ?", mint).Scan(&sym); err != nil {
		return ""
	}
	return sym
}

// ---- Stats ----

func (s *Store) GetStats() (map[string]int64, error) {
	stats := map[string]int64{}
	for _, t := range []string{"trades", "token_cache"} {
		var count int64
		if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", t)).Scan(&count); err == nil {
			stats[t] = count
		}
	}
	return stats, nil
}
