package config

// Tokens that are never memecoin trades: stablecoins, liquid-staking
// derivatives, and core infra tokens. Symbols are matched uppercased.
// Injected into the validity filter so tests can substitute their own.
var SkipTokens = map[string]bool{
	"SOL": true, "WSOL": true,
	"USDC": true, "USDT": true, "USDS": true, "PYUSD": true,
	"DAI": true, "USDH": true, "UXD": true,
	"MSOL": true, "JITOSOL": true, "BSOL": true, "STSOL": true,
	"INF": true, "JSOL": true,
	"JUP": true, "RAY": true, "ORCA": true,
	"WETH": true, "WBTC": true, "WBNB": true,
}

var SkipMints = map[string]bool{
	"So11111111111111111111111111111111111111112":  true, // wrapped SOL
	"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v": true, // USDC
	"Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB": true, // USDT
	"mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So":  true, // mSOL
	"J1toso1uCk3RLmjorhTtrVwY9HJ7X8V9yYac6Y7kGCPn": true, // jitoSOL
	"JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN":  true, // JUP
}
