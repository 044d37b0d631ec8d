package helius

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

const apiBase = "https://api.helius.xyz"

// Rough per-call credit costs, tracked for operational budgeting only.
const (
	CreditsPerHistoryPage  = 100
	CreditsPerMetadataCall = 10
)

const metadataBatchLimit = 100

type Client struct {
	apiKey string
	client *http.Client
}

func New(apiKey string) *Client {
	return &Client{apiKey: apiKey, client: &http.Client{Timeout: 30 * time.Second}}
}

// AddressTransactions fetches one page of enhanced transaction history
// for a wallet, newest first. An empty before cursor starts from the
// most recent transaction.
func (c *Client) AddressTransactions(ctx context.Context, address string, limit int, before string) ([]Transaction, error) {
	u := fmt.Sprintf("%s/v0/addresses/%s/transactions?api-key=%s&limit=%d", apiBase, address, c.apiKey, limit)
	if before != "" {
		u += "&before=" + url.QueryEscape(before)
	}

	body, err := c.getJSON(ctx, u)
	if err != nil {
		return nil, err
	}

	var txs []Transaction
	if err := json.Unmarshal(body, &txs); err != nil {
		return nil, fmt.Errorf("decode history page: %w", err)
	}
	return txs, nil
}

// TokenMetadata resolves up to 100 mints per API call. A failed chunk
// is logged and skipped; its mints are simply absent from the result.
func (c *Client) TokenMetadata(ctx context.Context, mints []string) map[string]TokenMeta {
	result := make(map[string]TokenMeta)

	for start := 0; start < len(mints); start += metadataBatchLimit {
		end := start + metadataBatchLimit
		if end > len(mints) {
			end = len(mints)
		}
		chunk := mints[start:end]

		metas, err := c.tokenMetadataChunk(ctx, chunk)
		if err != nil {
			log.Warn().Err(err).Int("mints", len(chunk)).Msg("token metadata chunk failed")
			continue
		}
		for _, m := range metas {
			if m.Mint != "" {
				result[m.Mint] = m
			}
		}
	}
	return result
}

func (c *Client) tokenMetadataChunk(ctx context.Context, mints []string) ([]TokenMeta, error) {
	reqBody, _ := json.Marshal(map[string]interface{}{
		"mintAccounts":    mints,
		"includeOffChain": true,
	})

	u := fmt.Sprintf("%s/v0/token-metadata?api-key=%s", apiBase, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", u, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("HTTP %d from token-metadata", resp.StatusCode)
	}

	var raw []struct {
		Account         string `json:"account"`
		OnChainMetadata struct {
			Metadata struct {
				Data struct {
					Name   string `json:"name"`
					Symbol string `json:"symbol"`
				} `json:"data"`
			} `json:"metadata"`
		} `json:"onChainMetadata"`
		OffChainMetadata struct {
			Metadata struct {
				Name   string `json:"name"`
				Symbol string `json:"symbol"`
				Image  string `json:"image"`
			} `json:"metadata"`
		} `json:"offChainMetadata"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&raw); err != nil {
		return nil, err
	}

	metas := make([]TokenMeta, 0, len(raw))
	for _, r := range raw {
		m := TokenMeta{
			Mint:   r.Account,
			Name:   r.OnChainMetadata.Metadata.Data.Name,
			Symbol: r.OnChainMetadata.Metadata.Data.Symbol,
			Image:  r.OffChainMetadata.Metadata.Image,
		}
		if m.Name == "" {
			m.Name = r.OffChainMetadata.Metadata.Name
		}
		if m.Symbol == "" {
			m.Symbol = r.OffChainMetadata.Metadata.Symbol
		}
		metas = append(metas, m)
	}
	return metas, nil
}

// ── Webhook admin API ───────────────────────────────────────

func (c *Client) ListWebhooks(ctx context.Context) ([]Webhook, error) {
	body, err := c.getJSON(ctx, fmt.Sprintf("%s/v0/webhooks?api-key=%s", apiBase, c.apiKey))
	if err != nil {
		return nil, err
	}
	var hooks []Webhook
	if err := json.Unmarshal(body, &hooks); err != nil {
		return nil, err
	}
	return hooks, nil
}

func (c *Client) CreateWebhook(ctx context.Context, webhookURL string, addresses []string) (*Webhook, error) {
	reqBody, _ := json.Marshal(map[string]interface{}{
		"webhookURL":       webhookURL,
		"transactionTypes": []string{"SWAP", "TRANSFER"},
		"accountAddresses": addresses,
		"webhookType":      "enhanced",
	})

	u := fmt.Sprintf("%s/v0/webhooks?api-key=%s", apiBase, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", u, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("HTTP %d creating webhook: %s", resp.StatusCode, b)
	}

	var hook Webhook
	if err := json.NewDecoder(resp.Body).Decode(&hook); err != nil {
		return nil, err
	}
	return &hook, nil
}

func (c *Client) DeleteWebhook(ctx context.Context, id string) error {
	u := fmt.Sprintf("%s/v0/webhooks/%s?api-key=%s", apiBase, id, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, "DELETE", u, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("HTTP %d deleting webhook %s", resp.StatusCode, id)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 10<<20)) // 10MB max
}
