package kol

import (
	"encoding/json"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"
)

// KOL is one tracked trader from the reference list. Read-only after load.
type KOL struct {
	Name        string   `json:"name"`
	Avatar      string   `json:"avatar"`
	XHandle     string   `json:"x_handle"`
	Wallet      string   `json:"wallet"`
	SideWallets []string `json:"side_wallets"`
}

// Wallets returns the main wallet followed by all side wallets.
func (k *KOL) Wallets() []string {
	out := make([]string, 0, 1+len(k.SideWallets))
	out = append(out, k.Wallet)
	out = append(out, k.SideWallets...)
	return out
}

// Registry is the immutable wallet→KOL index built once at startup.
// A wallet maps to at most one KOL; duplicates in the source list keep
// the first owner.
type Registry struct {
	kols     []KOL
	byWallet map[string]*KOL
}

func NewRegistry(kols []KOL) *Registry {
	r := &Registry{kols: kols, byWallet: make(map[string]*KOL)}
	for i := range r.kols {
		k := &r.kols[i]
		for _, w := range k.Wallets() {
			if w == "" {
				continue
			}
			if _, err := solana.PublicKeyFromBase58(w); err != nil {
				log.Warn().Str("kol", k.Name).Str("wallet", w).Msg("wallet is not a valid solana address")
			}
			if _, taken := r.byWallet[w]; taken {
				log.Warn().Str("kol", k.Name).Str("wallet", w).Msg("wallet already mapped, keeping first owner")
				continue
			}
			r.byWallet[w] = k
		}
	}
	return r
}

// LoadRegistry reads the KOL list from path, or falls back to the
// built-in list when path is empty.
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return NewRegistry(defaultKOLs), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var kols []KOL
	if err := json.Unmarshal(data, &kols); err != nil {
		return nil, err
	}
	return NewRegistry(kols), nil
}

// Lookup returns the KOL owning wallet, or nil.
func (r *Registry) Lookup(wallet string) *KOL {
	return r.byWallet[wallet]
}

// ByName returns the KOL with the given display name, or nil.
func (r *Registry) ByName(name string) *KOL {
	for i := range r.kols {
		if r.kols[i].Name == name {
			return &r.kols[i]
		}
	}
	return nil
}

// All returns the full KOL list in source order.
func (r *Registry) All() []KOL {
	return r.kols
}

// AllWallets returns every tracked wallet (main + side) across all KOLs.
func (r *Registry) AllWallets() []string {
	var out []string
	for i := range r.kols {
		out = append(out, r.kols[i].Wallets()...)
	}
	return out
}
