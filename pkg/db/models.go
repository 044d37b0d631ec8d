package db

// Trade is one classified memecoin buy or sell. Immutable once written;
// the signature is the global dedup key.
type Trade struct {
	ID          int64   `json:"id"`
	Wallet      string  `json:"wallet"`
	KOLName     string  `json:"kol_name"`
	KOLAvatar   string  `json:"kol_avatar"`
	Action      string  `json:"action"` // "Buy" or "Sell"
	TokenSymbol string  `json:"token_symbol"`
	TokenMint   string  `json:"token_mint"`
	TokenAmount float64 `json:"token_amount"`
	AmountSol   float64 `json:"amount_sol"`
	Signature   string  `json:"signature"`
	BlockTime   int64   `json:"block_time"` // unix seconds
	IngestedAt  int64   `json:"ingested_at"`
}

// TokenCacheEntry caches token identity and market data per mint.
// Identity fields (name/symbol/image) come from metadata lookups;
// market fields from the market-data refresher.
type TokenCacheEntry struct {
	Mint           string  `json:"mint"`
	Name           string  `json:"name"`
	Symbol         string  `json:"symbol"`
	Image          string  `json:"image"`
	MarketCap      float64 `json:"market_cap"`
	PriceUsd       float64 `json:"price_usd"`
	PriceChange24h float64 `json:"price_change_24h"`
	UpdatedAt      int64   `json:"updated_at"`
}
