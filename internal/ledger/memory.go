// Package ledger provides the in-memory escrow implementation used by the
// server and tests. Production deployments substitute a real value-transfer
// backend behind the game.Ledger interface.
package ledger

import (
	"sync"

	"github.com/lox/bingohall/internal/game"
)

// Memory tracks participant balances and a single escrow balance. All funds
// deposited for entry fees sit in escrow until a payout releases them, so
// the sum of balances plus escrow is constant.
type Memory struct {
	mu       sync.Mutex
	balances map[string]int64
	escrow   int64
}

// NewMemory creates an empty ledger.
func NewMemory() *Memory {
	return &Memory{balances: make(map[string]int64)}
}

// Credit funds a participant's balance, e.g. from config seeding.
func (m *Memory) Credit(participant string, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[participant] += amount
}

// Balance returns a participant's spendable balance.
func (m *Memory) Balance(participant string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[participant]
}

// Escrow returns the total currently held for active pots.
func (m *Memory) Escrow() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.escrow
}

// Deposit moves amount from the participant into escrow.
func (m *Memory) Deposit(participant string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances[participant] < amount {
		return game.ErrInsufficientFunds
	}
	m.balances[participant] -= amount
	m.escrow += amount
	return nil
}

// Payout releases amount from escrow to the participant.
func (m *Memory) Payout(participant string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.escrow < amount {
		return game.ErrTransferFailed
	}
	m.escrow -= amount
	m.balances[participant] += amount
	return nil
}

var _ game.Ledger = (*Memory)(nil)
