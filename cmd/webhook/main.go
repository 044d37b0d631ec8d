package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/kol-feed/pkg/config"
	"github.com/kol-feed/pkg/helius"
	"github.com/kol-feed/pkg/kol"
)

// Manages the Helius webhook that pushes tracked-wallet transactions to
// a running feed instance.
//
//	webhook list
//	webhook register <public-url>
//	webhook delete <webhook-id>
func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("config load failed: %v", err)
	}
	if cfg.HeliusAPIKey == "" {
		fatal("HELIUS_API_KEY is required")
	}
	hc := helius.New(cfg.HeliusAPIKey)
	ctx := context.Background()

	switch os.Args[1] {
	case "list":
		list(ctx, hc)
	case "register":
		if len(os.Args) < 3 {
			fatal("usage: webhook register <public-url>")
		}
		register(ctx, hc, cfg, os.Args[2])
	case "delete":
		if len(os.Args) < 3 {
			fatal("usage: webhook delete <webhook-id>")
		}
		if err := hc.DeleteWebhook(ctx, os.Args[2]); err != nil {
			fatal("delete failed: %v", err)
		}
		color.Green("✓ webhook %s deleted", os.Args[2])
	default:
		usage()
		os.Exit(1)
	}
}

func list(ctx context.Context, hc *helius.Client) {
	hooks, err := hc.ListWebhooks(ctx)
	if err != nil {
		fatal("list failed: %v", err)
	}
	if len(hooks) == 0 {
		color.Yellow("no webhooks registered")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "URL", "Type", "Addresses"})
	for _, h := range hooks {
		table.Append([]string{h.WebhookID, h.WebhookURL, h.WebhookType, fmt.Sprintf("%d", len(h.AccountAddresses))})
	}
	table.Render()
}

func register(ctx context.Context, hc *helius.Client, cfg *config.Config, url string) {
	registry, err := kol.LoadRegistry(cfg.KOLsFile)
	if err != nil {
		fatal("kol list load failed: %v", err)
	}
	wallets := registry.AllWallets()

	hook, err := hc.CreateWebhook(ctx, url+"/webhook", wallets)
	if err != nil {
		fatal("register failed: %v", err)
	}
	color.Green("✓ webhook %s registered for %d wallets", hook.WebhookID, len(wallets))
	color.White("  pushing to %s", hook.WebhookURL)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: webhook <list|register|delete> [args]")
}

func fatal(format string, args ...interface{}) {
	color.Red("✗ "+format, args...)
	os.Exit(1)
}
