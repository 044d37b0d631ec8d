package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kol-feed/pkg/classify"
	"github.com/kol-feed/pkg/db"
	"github.com/kol-feed/pkg/helius"
	"github.com/kol-feed/pkg/kol"
	"github.com/kol-feed/pkg/market"
	"github.com/kol-feed/pkg/pipeline"
	"github.com/kol-feed/pkg/stats"
)

const (
	feedLimit     = 50
	feedPerKOL    = 2
	feedFetchSize = 200
)

type Dashboard struct {
	store    *db.Store
	registry *kol.Registry
	pipe     *pipeline.Pipeline
	market   *market.Client
	filter   *classify.Filter
	port     int
}

func New(store *db.Store, registry *kol.Registry, pipe *pipeline.Pipeline, mc *market.Client, port int) *Dashboard {
	return &Dashboard{
		store:    store,
		registry: registry,
		pipe:     pipe,
		market:   mc,
		filter:   classify.NewFilter(),
		port:     port,
	}
}

func (d *Dashboard) Run() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/webhook", d.handleWebhook)

	// API endpoints
	mux.HandleFunc("/api/leaderboard", cors(d.handleLeaderboard))
	mux.HandleFunc("/api/trades", cors(d.handleTrades))
	mux.HandleFunc("/api/token", cors(d.handleToken))
	mux.HandleFunc("/api/kol", cors(d.handleKOL))
	mux.HandleFunc("/api/stats", cors(d.handleStats))
	mux.HandleFunc("/api/scan/status", cors(d.handleScanStatus))
	mux.HandleFunc("/api/scan", cors(d.handleScan))
	mux.HandleFunc("/api/scan/deep", cors(d.handleScanDeep))
	mux.HandleFunc("/api/scan/reset", cors(d.handleScanReset))

	// Serve frontend
	mux.HandleFunc("/", d.serveFrontend)

	addr := fmt.Sprintf(":%d", d.port)
	log.Info().Str("addr", addr).Msg("🌐 dashboard started")
	return http.ListenAndServe(addr, mux)
}

func cors(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// handleWebhook acknowledges immediately and classifies in the
// background; Helius retries on slow responses, so never block the ack
// on processing.
func (d *Dashboard) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "POST only", 405)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 10<<20))
	if err != nil {
		http.Error(w, "read error", 400)
		return
	}

	var txs []helius.Transaction
	if err := json.Unmarshal(body, &txs); err != nil {
		// Malformed payloads are acked so Helius stops retrying them.
		log.Warn().Err(err).Int("bytes", len(body)).Msg("undecodable webhook body")
		w.WriteHeader(200)
		return
	}

	w.WriteHeader(200)
	// The request context dies with the ack, so the worker gets its own.
	go func() {
		n := d.pipe.ProcessWebhook(context.Background(), txs)
		if n > 0 {
			log.Info().Int("trades", n).Msg("webhook batch stored")
		}
	}()
}

func (d *Dashboard) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	since := windowStart(r.URL.Query().Get("window"))
	trades, err := d.store.GetTradesSince(since)
	if err != nil {
		http.Error(w, "query failed", 500)
		return
	}
	writeJSON(w, stats.Leaderboard(trades, d.registry.All()))
}

func windowStart(window string) int64 {
	now := time.Now()
	switch window {
	case "week":
		return now.AddDate(0, 0, -7).Unix()
	case "month":
		return now.AddDate(0, 0, -30).Unix()
	default: // day
		return now.Add(-24 * time.Hour).Unix()
	}
}

// handleTrades serves the live feed: newest trades, re-filtered
// against the current deny-lists, capped per KOL so one busy wallet
// cannot drown everyone else out.
func (d *Dashboard) handleTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := d.store.GetRecentTrades(feedFetchSize)
	if err != nil {
		http.Error(w, "query failed", 500)
		return
	}

	valid := trades[:0]
	for i := range trades {
		if d.filter.IsValid(&trades[i]) {
			valid = append(valid, trades[i])
		}
	}
	feed := stats.DiversityCap(valid, feedPerKOL, feedLimit)
	if feed == nil {
		feed = []db.Trade{}
	}
	writeJSON(w, feed)
}

func (d *Dashboard) handleToken(w http.ResponseWriter, r *http.Request) {
	mint := r.URL.Query().Get("mint")
	if mint == "" {
		http.Error(w, "mint required", 400)
		return
	}
	trades, err := d.store.GetTradesForMint(mint)
	if err != nil {
		http.Error(w, "query failed", 500)
		return
	}
	cache, _ := d.store.GetTokenCache(mint)

	writeJSON(w, map[string]interface{}{
		"mint":      mint,
		"token":     cache,
		"positions": stats.TokenPositions(trades),
		"trades":    trades,
	})
}

func (d *Dashboard) handleKOL(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	k := d.registry.ByName(name)
	if k == nil {
		http.Error(w, "unknown kol", 404)
		return
	}
	trades, err := d.store.GetTradesForKOL(k.Name)
	if err != nil {
		http.Error(w, "query failed", 500)
		return
	}
	solUsd := d.market.SolPrice(r.Context())

	writeJSON(w, map[string]interface{}{
		"kol":     k,
		"sol_usd": solUsd,
		"tokens":  stats.KOLTokenPnL(trades, d.store, solUsd),
		"trades":  trades,
	})
}

func (d *Dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	s, _ := d.store.GetStats()
	writeJSON(w, s)
}

func (d *Dashboard) handleScanStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, d.pipe.Status())
}

func (d *Dashboard) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "POST only", 405)
		return
	}
	// The request context dies with the response, so the scan gets its own.
	scanStarted(w, d.pipe.StartShallowScan(context.Background()))
}

func (d *Dashboard) handleScanDeep(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "POST only", 405)
		return
	}
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	scanStarted(w, d.pipe.StartDeepBackfill(context.Background(), days))
}

func (d *Dashboard) handleScanReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "POST only", 405)
		return
	}
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	scanStarted(w, d.pipe.StartReset(context.Background(), days))
}

// scanStarted reports the outcome of a scan trigger. The lock is taken
// synchronously, so contention surfaces as 409 rather than a false
// "started".
func scanStarted(w http.ResponseWriter, err error) {
	if err == pipeline.ErrScanActive {
		http.Error(w, "a scan is already running", 409)
		return
	}
	if err != nil {
		http.Error(w, "scan failed to start", 500)
		return
	}
	writeJSON(w, map[string]string{"status": "started"})
}
