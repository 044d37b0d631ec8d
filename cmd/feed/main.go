package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kol-feed/pkg/config"
	"github.com/kol-feed/pkg/dashboard"
	"github.com/kol-feed/pkg/db"
	"github.com/kol-feed/pkg/helius"
	"github.com/kol-feed/pkg/kol"
	"github.com/kol-feed/pkg/market"
	"github.com/kol-feed/pkg/pipeline"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
	log.Info().Msg("📈 KOL Feed starting...")

	cfg, err := config.Load()
	if err != nil { log.Fatal().Err(err).Msg("config load failed") }
	if cfg.HeliusAPIKey == "" { log.Fatal().Msg("HELIUS_API_KEY is required") }

	store, err := db.NewStore(cfg.DBPath)
	if err != nil { log.Fatal().Err(err).Msg("database init failed") }
	defer store.Close()

	registry, err := kol.LoadRegistry(cfg.KOLsFile)
	if err != nil { log.Fatal().Err(err).Msg("kol list load failed") }
	log.Info().Int("kols", len(registry.All())).Int("wallets", len(registry.AllWallets())).Msg("tracking")

	hc := helius.New(cfg.HeliusAPIKey)
	mc := market.New(cfg.DexScreenerAPI)
	pipe := pipeline.New(cfg, store, registry, hc, mc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() { <-sigCh; log.Info().Msg("shutting down..."); cancel() }()

	// First deployment: fill the feed from wallet history before the
	// schedulers take over.
	go pipe.Bootstrap(ctx)

	sched := cron.New()
	sched.Schedule(cron.Every(cfg.ScanInterval), cron.FuncJob(func() {
		if err := pipe.ShallowScan(ctx); err != nil && err != pipeline.ErrScanActive {
			log.Warn().Err(err).Msg("scheduled scan failed")
		}
	}))
	sched.Schedule(cron.Every(cfg.MarketRefreshInterval), cron.FuncJob(func() {
		pipe.RefreshMarket(ctx)
	}))
	sched.Start()
	defer sched.Stop()

	dash := dashboard.New(store, registry, pipe, mc, cfg.Port)
	errCh := make(chan error, 1)
	go func() { errCh <- dash.Run() }()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil { log.Error().Err(err).Msg("dashboard error") }
	}
	log.Info().Msg("goodbye 👋")
}
