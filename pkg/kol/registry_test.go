package kol

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookupCoversSideWallets(t *testing.T) {
	r := NewRegistry([]KOL{
		{Name: "Cented", Wallet: "wallet-main", SideWallets: []string{"wallet-side-1", "wallet-side-2"}},
	})

	for _, w := range []string{"wallet-main", "wallet-side-1", "wallet-side-2"} {
		k := r.Lookup(w)
		require.NotNil(t, k, "wallet %s", w)
		assert.Equal(t, "Cented", k.Name)
	}
	assert.Nil(t, r.Lookup("stranger"))
}

func TestRegistryDuplicateWalletKeepsFirstOwner(t *testing.T) {
	r := NewRegistry([]KOL{
		{Name: "Cented", Wallet: "shared"},
		{Name: "Kreo", Wallet: "shared"},
	})
	require.NotNil(t, r.Lookup("shared"))
	assert.Equal(t, "Cented", r.Lookup("shared").Name)
}

func TestRegistryIgnoresEmptyWallets(t *testing.T) {
	r := NewRegistry([]KOL{{Name: "Cented", Wallet: "w", SideWallets: []string{""}}})
	assert.Len(t, r.AllWallets(), 2) // empty side wallet still listed by Wallets()
	assert.Nil(t, r.Lookup(""))
}

func TestLoadRegistryFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kols.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"name":"Waddles","avatar":"w.png","wallet":"wallet-a","side_wallets":["wallet-b"]}
	]`), 0o644))

	r, err := LoadRegistry(path)
	require.NoError(t, err)
	require.Len(t, r.All(), 1)
	assert.Equal(t, "Waddles", r.All()[0].Name)
	assert.Equal(t, []string{"wallet-a", "wallet-b"}, r.AllWallets())
}

func TestLoadRegistryDefaults(t *testing.T) {
	r, err := LoadRegistry("")
	require.NoError(t, err)
	assert.NotEmpty(t, r.All())
	for _, k := range r.All() {
		assert.NotEmpty(t, k.Wallet, "kol %s", k.Name)
	}
}

func TestLoadRegistryBadFile(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
