package pipeline

import (
	"errors"
	"sync/atomic"
)

// Scan phases. A single scan (shallow or deep) may run at a time.
const (
	phaseIdle int32 = iota
	phaseScanning
	phaseDone
)

// ErrScanActive is returned when a scan is requested while one is running.
var ErrScanActive = errors.New("a scan is already in progress")

// ScanState tracks the lifecycle and progress of the current scan.
type ScanState struct {
	phase        atomic.Int32
	walletsDone  atomic.Int64
	walletsTotal atomic.Int64
	tradesFound  atomic.Int64
	creditsUsed  atomic.Int64
}

// tryStart flips idle-or-done to scanning. Exactly one caller wins.
func (s *ScanState) tryStart(totalWallets int) bool {
	if !s.phase.CompareAndSwap(phaseIdle, phaseScanning) &&
		!s.phase.CompareAndSwap(phaseDone, phaseScanning) {
		return false
	}
	s.walletsDone.Store(0)
	s.walletsTotal.Store(int64(totalWallets))
	s.tradesFound.Store(0)
	return true
}

func (s *ScanState) finish() {
	s.phase.Store(phaseDone)
}

func (s *ScanState) walletDone()        { s.walletsDone.Add(1) }
func (s *ScanState) addTrades(n int)    { s.tradesFound.Add(int64(n)) }
func (s *ScanState) addCredits(n int64) { s.creditsUsed.Add(n) }

// Status is a point-in-time snapshot for the dashboard.
type Status struct {
	Phase        string `json:"phase"`
	WalletsDone  int64  `json:"wallets_done"`
	WalletsTotal int64  `json:"wallets_total"`
	TradesFound  int64  `json:"trades_found"`
	CreditsUsed  int64  `json:"credits_used"`
}

func (s *ScanState) Snapshot() Status {
	phase := "idle"
	switch s.phase.Load() {
	case phaseScanning:
		phase = "scanning"
	case phaseDone:
		phase = "done"
	}
	return Status{
		Phase:        phase,
		WalletsDone:  s.walletsDone.Load(),
		WalletsTotal: s.walletsTotal.Load(),
		TradesFound:  s.tradesFound.Load(),
		CreditsUsed:  s.creditsUsed.Load(),
	}
}
