package pipeline

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/kol-feed/pkg/classify"
	"github.com/kol-feed/pkg/config"
	"github.com/kol-feed/pkg/db"
	"github.com/kol-feed/pkg/helius"
	"github.com/kol-feed/pkg/kol"
	"github.com/kol-feed/pkg/market"
)

// marketRefreshMints caps how many recently traded mints get a price
// refresh per cycle.
const marketRefreshMints = 200

// TxSource is the transaction feed behind scans and metadata lookups.
// *helius.Client satisfies it.
type TxSource interface {
	AddressTransactions(ctx context.Context, address string, limit int, before string) ([]helius.Transaction, error)
	TokenMetadata(ctx context.Context, mints []string) map[string]helius.TokenMeta
}

// Pipeline turns raw Helius transactions into stored trades and keeps
// the token cache warm.
type Pipeline struct {
	cfg        *config.Config
	store      *db.Store
	registry   *kol.Registry
	source     TxSource
	market     *market.Client
	classifier *classify.Classifier
	filter     *classify.Filter
	state      ScanState
}

func New(cfg *config.Config, store *db.Store, registry *kol.Registry, src TxSource, mc *market.Client) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		store:      store,
		registry:   registry,
		source:     src,
		market:     mc,
		classifier: classify.NewClassifier(store),
		filter:     classify.NewFilter(),
	}
}

func (p *Pipeline) Status() Status { return p.state.Snapshot() }

// ProcessWebhook handles one pushed batch of enhanced transactions.
// Each transaction is attributed to a tracked wallet and classified
// independently; one bad transaction never drops the rest.
func (p *Pipeline) ProcessWebhook(ctx context.Context, txs []helius.Transaction) int {
	meta := p.resolveMetadata(ctx, txs)

	inserted := 0
	for _, tx := range txs {
		k, wallet := p.attribute(tx)
		if k == nil {
			continue
		}
		trade := p.classifier.Classify(tx, k.Name, k.Avatar, wallet, meta)
		if !p.filter.IsValid(trade) {
			continue
		}
		ok, err := p.store.InsertTrade(*trade)
		if err != nil {
			log.Warn().Err(err).Str("sig", tx.Signature).Msg("insert failed")
			continue
		}
		if ok {
			inserted++
			log.Info().
				Str("kol", trade.KOLName).
				Str("action", trade.Action).
				Str("token", trade.TokenSymbol).
				Float64("sol", trade.AmountSol).
				Msg("💰 new trade")
		}
	}
	return inserted
}

// attribute finds the tracked wallet a transaction belongs to. The fee
// payer wins; otherwise the first tracked account among token transfer
// users, then native transfer users.
func (p *Pipeline) attribute(tx helius.Transaction) (*kol.KOL, string) {
	if k := p.registry.Lookup(tx.FeePayer); k != nil {
		return k, tx.FeePayer
	}
	for _, tt := range tx.TokenTransfers {
		if k := p.registry.Lookup(tt.FromUserAccount); k != nil {
			return k, tt.FromUserAccount
		}
		if k := p.registry.Lookup(tt.ToUserAccount); k != nil {
			return k, tt.ToUserAccount
		}
	}
	for _, nt := range tx.NativeTransfers {
		if k := p.registry.Lookup(nt.FromUserAccount); k != nil {
			return k, nt.FromUserAccount
		}
		if k := p.registry.Lookup(nt.ToUserAccount); k != nil {
			return k, nt.ToUserAccount
		}
	}
	return nil, ""
}

// resolveMetadata batch-fetches metadata for every mint the batch
// touches that the token cache has not seen yet, and persists anything
// that comes back named. Mints appear both in tokenTransfers and in
// swap event legs; both are walked.
func (p *Pipeline) resolveMetadata(ctx context.Context, txs []helius.Transaction) map[string]helius.TokenMeta {
	seen := make(map[string]bool)
	var unknown []string
	collect := func(mint string) {
		if mint == "" || mint == classify.WrappedSolMint || seen[mint] {
			return
		}
		seen[mint] = true
		if p.store.CachedSymbol(mint) == "" {
			unknown = append(unknown, mint)
		}
	}
	for _, tx := range txs {
		for _, tt := range tx.TokenTransfers {
			collect(tt.Mint)
		}
		if ev := tx.Events.Swap; ev != nil {
			for _, leg := range ev.TokenInputs {
				collect(leg.Mint)
			}
			for _, leg := range ev.TokenOutputs {
				collect(leg.Mint)
			}
		}
	}
	if len(unknown) == 0 {
		return nil
	}

	meta := p.source.TokenMetadata(ctx, unknown)
	p.state.addCredits(metadataCredits(len(unknown)))
	for mint, m := range meta {
		if m.Symbol == "" && m.Name == "" {
			continue
		}
		if err := p.store.UpsertTokenMeta(mint, m.Name, m.Symbol, m.Image); err != nil {
			log.Debug().Err(err).Str("mint", mint).Msg("token meta upsert failed")
		}
	}
	return meta
}

func metadataCredits(mints int) int64 {
	calls := (mints + 99) / 100
	return int64(calls) * helius.CreditsPerMetadataCall
}

// ShallowScan pulls the most recent transactions for every tracked
// wallet. Wallets run in shuffled groups so no wallet always eats the
// rate limit first.
func (p *Pipeline) ShallowScan(ctx context.Context) error {
	wallets := p.registry.AllWallets()
	if !p.state.tryStart(len(wallets)) {
		return ErrScanActive
	}
	defer p.state.finish()
	return p.runShallow(ctx, wallets)
}

// StartShallowScan acquires the scan lock and runs the scan in the
// background. Contention is reported synchronously.
func (p *Pipeline) StartShallowScan(ctx context.Context) error {
	wallets := p.registry.AllWallets()
	if !p.state.tryStart(len(wallets)) {
		return ErrScanActive
	}
	go func() {
		defer p.state.finish()
		if err := p.runShallow(ctx, wallets); err != nil {
			log.Warn().Err(err).Msg("shallow scan failed")
		}
	}()
	return nil
}

// runShallow does the scan work. The caller holds the scan lock.
func (p *Pipeline) runShallow(ctx context.Context, wallets []string) error {
	rand.Shuffle(len(wallets), func(i, j int) { wallets[i], wallets[j] = wallets[j], wallets[i] })

	log.Info().Int("wallets", len(wallets)).Msg("🔍 shallow scan started")
	start := time.Now()

	for i := 0; i < len(wallets); i += p.cfg.ScanBatchSize {
		end := i + p.cfg.ScanBatchSize
		if end > len(wallets) {
			end = len(wallets)
		}
		g, gctx := errgroup.WithContext(ctx)
		for _, w := range wallets[i:end] {
			wallet := w
			g.Go(func() error {
				n, err := p.scanWalletOnce(gctx, wallet)
				if err != nil {
					log.Warn().Err(err).Str("wallet", abbrev(wallet)).Msg("wallet scan failed")
				} else {
					p.state.addTrades(n)
				}
				p.state.walletDone()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		if end < len(wallets) {
			select {
			case <-time.After(p.cfg.ScanBatchDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	snap := p.state.Snapshot()
	log.Info().
		Int64("trades", snap.TradesFound).
		Dur("took", time.Since(start)).
		Msg("✅ shallow scan complete")

	p.RefreshMarket(ctx)
	return nil
}

func (p *Pipeline) scanWalletOnce(ctx context.Context, wallet string) (int, error) {
	txs, err := p.source.AddressTransactions(ctx, wallet, p.cfg.ShallowScanLimit, "")
	if err != nil {
		return 0, err
	}
	p.state.addCredits(helius.CreditsPerHistoryPage)
	return p.processForWallet(ctx, wallet, txs), nil
}

// processForWallet classifies transactions already known to involve a
// tracked wallet.
func (p *Pipeline) processForWallet(ctx context.Context, wallet string, txs []helius.Transaction) int {
	k := p.registry.Lookup(wallet)
	if k == nil {
		return 0
	}
	meta := p.resolveMetadata(ctx, txs)

	inserted := 0
	for _, tx := range txs {
		trade := p.classifier.Classify(tx, k.Name, k.Avatar, wallet, meta)
		if !p.filter.IsValid(trade) {
			continue
		}
		ok, err := p.store.InsertTrade(*trade)
		if err != nil {
			log.Warn().Err(err).Str("sig", tx.Signature).Msg("insert failed")
			continue
		}
		if ok {
			inserted++
		}
	}
	return inserted
}

// DeepBackfill walks each wallet's history page by page, back to the
// day cutoff or the wallet's page budget, whichever comes first. Main
// wallets get a bigger budget than side wallets.
func (p *Pipeline) DeepBackfill(ctx context.Context, days int) error {
	if !p.state.tryStart(len(p.registry.AllWallets())) {
		return ErrScanActive
	}
	defer p.state.finish()
	return p.runDeep(ctx, days)
}

// StartDeepBackfill acquires the scan lock and backfills in the
// background. Contention is reported synchronously.
func (p *Pipeline) StartDeepBackfill(ctx context.Context, days int) error {
	if !p.state.tryStart(len(p.registry.AllWallets())) {
		return ErrScanActive
	}
	go func() {
		defer p.state.finish()
		if err := p.runDeep(ctx, days); err != nil {
			log.Warn().Err(err).Msg("deep backfill failed")
		}
	}()
	return nil
}

// runDeep does the backfill work. The caller holds the scan lock.
func (p *Pipeline) runDeep(ctx context.Context, days int) error {
	if days <= 0 {
		days = p.cfg.BackfillDays
	}
	wallets := p.registry.AllWallets()

	cutoff := time.Now().AddDate(0, 0, -days).Unix()
	log.Info().Int("days", days).Int("wallets", len(wallets)).Msg("⛏️  deep backfill started")
	start := time.Now()

	for _, k := range p.registry.All() {
		p.backfillWallet(ctx, k.Wallet, cutoff, p.cfg.DeepMaxPagesMain)
		for _, side := range k.SideWallets {
			p.backfillWallet(ctx, side, cutoff, p.cfg.DeepMaxPagesSide)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	snap := p.state.Snapshot()
	log.Info().
		Int64("trades", snap.TradesFound).
		Int64("credits", snap.CreditsUsed).
		Dur("took", time.Since(start)).
		Msg("✅ deep backfill complete")

	p.RefreshMarket(ctx)
	return nil
}

func (p *Pipeline) backfillWallet(ctx context.Context, wallet string, cutoff int64, maxPages int) {
	before := ""
	for page := 0; page < maxPages; page++ {
		txs, err := p.source.AddressTransactions(ctx, wallet, p.cfg.DeepPageSize, before)
		if err != nil {
			log.Warn().Err(err).Str("wallet", abbrev(wallet)).Int("page", page).Msg("history page failed")
			break
		}
		p.state.addCredits(helius.CreditsPerHistoryPage)
		if len(txs) == 0 {
			break
		}

		p.state.addTrades(p.processForWallet(ctx, wallet, txs))

		last := txs[len(txs)-1]
		if last.Timestamp < cutoff {
			break
		}
		before = last.Signature
	}
	p.state.walletDone()
}

// ResetAndBackfill wipes all stored trades and rebuilds from history.
// The wipe only happens once the scan lock is held, so a concurrent
// scan can never leave the table deleted with the rebuild rejected.
func (p *Pipeline) ResetAndBackfill(ctx context.Context, days int) error {
	if !p.state.tryStart(len(p.registry.AllWallets())) {
		return ErrScanActive
	}
	defer p.state.finish()
	return p.runReset(ctx, days)
}

// StartReset acquires the scan lock and wipes-and-rebuilds in the
// background. Contention is reported synchronously, before anything
// is deleted.
func (p *Pipeline) StartReset(ctx context.Context, days int) error {
	if !p.state.tryStart(len(p.registry.AllWallets())) {
		return ErrScanActive
	}
	go func() {
		defer p.state.finish()
		if err := p.runReset(ctx, days); err != nil {
			log.Warn().Err(err).Msg("reset failed")
		}
	}()
	return nil
}

func (p *Pipeline) runReset(ctx context.Context, days int) error {
	if err := p.store.DeleteAllTrades(); err != nil {
		return err
	}
	log.Info().Msg("🗑️  trades cleared, rebuilding")
	return p.runDeep(ctx, days)
}

// Bootstrap runs a deep backfill when the store is empty, so a fresh
// deployment has a feed before the first webhook arrives.
func (p *Pipeline) Bootstrap(ctx context.Context) {
	n, err := p.store.CountTrades()
	if err != nil {
		log.Warn().Err(err).Msg("trade count failed, skipping bootstrap")
		return
	}
	if n > 0 {
		return
	}
	log.Info().Msg("📦 empty store, bootstrapping from history")
	if err := p.DeepBackfill(ctx, p.cfg.BackfillDays); err != nil {
		log.Warn().Err(err).Msg("bootstrap backfill failed")
	}
}

// RefreshMarket re-prices the mints behind recent trades via
// DexScreener and merges the result into the token cache.
func (p *Pipeline) RefreshMarket(ctx context.Context) {
	mints, err := p.store.RecentMints(marketRefreshMints)
	if err != nil {
		log.Warn().Err(err).Msg("recent mints query failed")
		return
	}
	if len(mints) == 0 {
		return
	}

	entries := p.market.TokenBatch(ctx, mints)
	updated := 0
	for _, e := range entries {
		if err := p.store.UpsertTokenMarket(e); err != nil {
			log.Debug().Err(err).Str("mint", e.Mint).Msg("market upsert failed")
			continue
		}
		updated++
	}
	log.Debug().Int("mints", len(mints)).Int("updated", updated).Msg("market refresh")
}

func abbrev(s string) string {
	if len(s) <= 12 {
		return s
	}
	return s[:6] + ".." + s[len(s)-4:]
}
