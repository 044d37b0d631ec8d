package pipeline

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kol-feed/pkg/helius"
	"github.com/kol-feed/pkg/kol"
)

func TestScanStateSingleWinner(t *testing.T) {
	var s ScanState

	const contenders = 16
	var wg sync.WaitGroup
	wins := make(chan bool, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wins <- s.tryStart(5)
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for w := range wins {
		if w {
			won++
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, "scanning", s.Snapshot().Phase)
}

func TestScanStateRestartsAfterFinish(t *testing.T) {
	var s ScanState

	require.True(t, s.tryStart(3))
	assert.False(t, s.tryStart(3))

	s.addTrades(7)
	s.walletDone()
	s.finish()

	snap := s.Snapshot()
	assert.Equal(t, "done", snap.Phase)
	assert.Equal(t, int64(7), snap.TradesFound)
	assert.Equal(t, int64(1), snap.WalletsDone)

	// done is restartable, and progress resets
	require.True(t, s.tryStart(9))
	snap = s.Snapshot()
	assert.Equal(t, "scanning", snap.Phase)
	assert.Zero(t, snap.TradesFound)
	assert.Equal(t, int64(9), snap.WalletsTotal)
}

func testRegistry() *kol.Registry {
	return kol.NewRegistry([]kol.KOL{
		{Name: "Cented", Wallet: "main-a", SideWallets: []string{"side-a"}},
		{Name: "Kreo", Wallet: "main-b"},
	})
}

func TestAttributeFeePayerWins(t *testing.T) {
	p := &Pipeline{registry: testRegistry()}

	tx := helius.Transaction{
		FeePayer: "main-b",
		TokenTransfers: []helius.TokenTransfer{
			{FromUserAccount: "main-a", ToUserAccount: "pool"},
		},
	}
	k, wallet := p.attribute(tx)
	require.NotNil(t, k)
	assert.Equal(t, "Kreo", k.Name)
	assert.Equal(t, "main-b", wallet)
}

func TestAttributeFallsBackToTransferAccounts(t *testing.T) {
	p := &Pipeline{registry: testRegistry()}

	tx := helius.Transaction{
		FeePayer: "relayer",
		TokenTransfers: []helius.TokenTransfer{
			{FromUserAccount: "pool", ToUserAccount: "side-a"},
		},
	}
	k, wallet := p.attribute(tx)
	require.NotNil(t, k)
	assert.Equal(t, "Cented", k.Name)
	assert.Equal(t, "side-a", wallet)

	tx = helius.Transaction{
		FeePayer: "relayer",
		NativeTransfers: []helius.NativeTransfer{
			{FromUserAccount: "main-a", ToUserAccount: "pool", Amount: 1},
		},
	}
	k, wallet = p.attribute(tx)
	require.NotNil(t, k)
	assert.Equal(t, "main-a", wallet)
}

func TestAttributeUntrackedTransaction(t *testing.T) {
	p := &Pipeline{registry: testRegistry()}
	k, _ := p.attribute(helius.Transaction{FeePayer: "stranger"})
	assert.Nil(t, k)
}

func TestMetadataCredits(t *testing.T) {
	assert.Equal(t, int64(10), metadataCredits(1))
	assert.Equal(t, int64(10), metadataCredits(100))
	assert.Equal(t, int64(20), metadataCredits(101))
}
