package game

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// fakeLedger records deposits and payouts and can be told to fail.
type fakeLedger struct {
	mu         sync.Mutex
	deposits   map[string]int64
	payouts    map[string]int64
	escrow     int64
	depositErr error
	payoutErr  error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		deposits: make(map[string]int64),
		payouts:  make(map[string]int64),
	}
}

func (l *fakeLedger) Deposit(participant string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.depositErr != nil {
		return l.depositErr
	}
	l.deposits[participant] += amount
	l.escrow += amount
	return nil
}

func (l *fakeLedger) Payout(participant string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.payoutErr != nil {
		return l.payoutErr
	}
	l.payouts[participant] += amount
	l.escrow -= amount
	return nil
}

func (l *fakeLedger) paidTo(participant string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.payouts[participant]
}

// queueProvider returns queued bytes in order and zero once drained, so
// tests can steer exactly which numbers get drawn.
type queueProvider struct {
	mu    sync.Mutex
	queue []byte
}

func (p *queueProvider) Next() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return 0
	}
	n := p.queue[0]
	p.queue = p.queue[1:]
	return n
}

func (p *queueProvider) push(values ...byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = append(p.queue, values...)
}

// eventRecorder captures published events for assertions.
type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) OnEvent(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) ofType(et EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.EventType() == et {
			out = append(out, e)
		}
	}
	return out
}

var testConfig = Config{
	EntryFee:     10,
	JoinDuration: 60 * time.Second,
	TurnDuration: 60 * time.Second,
}

// newTestRegistry wires a registry with a mock clock, a fake ledger and a
// steerable provider.
func newTestRegistry(t *testing.T, cfg Config, admins ...string) (*Registry, *fakeLedger, *queueProvider, *quartz.Mock) {
	t.Helper()

	clock := quartz.NewMock(t)
	bank := newFakeLedger()
	provider := &queueProvider{}

	reg, err := NewRegistry(cfg, admins, bank, provider, clock, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	return reg, bank, provider, clock
}

// rowValues returns the values of one board row.
func rowValues(b Board, row int) []byte {
	out := make([]byte, BoardSize)
	copy(out, b[row][:])
	return out
}
