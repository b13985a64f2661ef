package game

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// Configuration floors. Anything below these is rejected with
// ErrInvalidConfiguration.
const (
	minEntryFee = 1
	minDuration = time.Second
)

// Config is the process-wide session configuration. It is snapshotted into
// each session at creation time, so updates only affect future sessions.
type Config struct {
	EntryFee     int64
	JoinDuration time.Duration
	TurnDuration time.Duration
}

// Validate applies the administrative floor.
func (c Config) Validate() error {
	if c.EntryFee < minEntryFee || c.JoinDuration < minDuration || c.TurnDuration < minDuration {
		return ErrInvalidConfiguration
	}
	return nil
}

// Registry owns every session, assigns sequential identifiers starting at 1
// (0 is reserved as "not found") and serves paginated reads. Mutating
// operations are delegated to the session looked up by id; a tombstoned
// session is indistinguishable from one that never existed.
type Registry struct {
	logger *log.Logger
	clock  quartz.Clock
	ledger Ledger
	rand   Provider
	bus    *Bus

	mu       sync.RWMutex
	cfg      Config
	admins   map[string]struct{}
	nextID   uint64
	sessions map[uint64]*Session
	order    []uint64
}

// NewRegistry builds a registry with an initial config and the set of
// identities allowed to change it.
func NewRegistry(cfg Config, admins []string, ledger Ledger, rand Provider, clock quartz.Clock, logger *log.Logger) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	adminSet := make(map[string]struct{}, len(admins))
	for _, id := range admins {
		adminSet[id] = struct{}{}
	}

	return &Registry{
		logger:   logger.WithPrefix("registry"),
		clock:    clock,
		ledger:   ledger,
		rand:     rand,
		bus:      NewBus(),
		cfg:      cfg,
		admins:   adminSet,
		sessions: make(map[uint64]*Session),
	}, nil
}

// Events returns the bus carrying session notifications.
func (r *Registry) Events() *Bus {
	return r.bus
}

// CreateSession opens a new session with the creator as its first
// participant. The creator's deposit lands before the session becomes
// visible; on deposit failure no partial session exists.
func (r *Registry) CreateSession(creator string) (uint64, error) {
	r.mu.RLock()
	cfg := r.cfg
	r.mu.RUnlock()

	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if err := r.ledger.Deposit(creator, cfg.EntryFee); err != nil {
		return 0, err
	}

	now := r.clock.Now()

	r.mu.Lock()
	r.nextID++
	id := r.nextID
	s := newSession(id, creator, cfg, now, r.clock, r.ledger, r.rand, r.bus)
	r.sessions[id] = s
	r.order = append(r.order, id)
	r.mu.Unlock()

	r.logger.Info("session created", "id", id, "creator", creator, "fee", cfg.EntryFee)

	r.bus.Publish(SessionCreatedEvent{
		ID:           id,
		Creator:      creator,
		EntryFee:     cfg.EntryFee,
		JoinDuration: cfg.JoinDuration,
		TurnDuration: cfg.TurnDuration,
		StartTime:    now,
		timestamp:    now,
	})
	return id, nil
}

func (r *Registry) lookup(id uint64) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// JoinSession adds a participant to an open session.
func (r *Registry) JoinSession(id uint64, participant string) error {
	s, err := r.lookup(id)
	if err != nil {
		return err
	}
	if err := s.Join(participant); err != nil {
		return err
	}
	r.logger.Info("participant joined", "id", id, "participant", participant)
	return nil
}

// CancelSession forwards a cancel request and removes the session from the
// registry once it is tombstoned. Ineligible cancels are silent no-ops.
func (r *Registry) CancelSession(id uint64, caller string) error {
	s, err := r.lookup(id)
	if err != nil {
		return err
	}

	tombstoned, err := s.Cancel(caller)
	if err != nil {
		return err
	}
	if !tombstoned {
		return nil
	}

	r.mu.Lock()
	delete(r.sessions, id)
	for i, sid := range r.order {
		if sid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	r.logger.Info("session cancelled", "id", id)
	return nil
}

// DrawNumber reveals the next number for a session.
func (r *Registry) DrawNumber(id uint64, caller string) (byte, error) {
	s, err := r.lookup(id)
	if err != nil {
		return 0, err
	}
	n, err := s.Draw(caller)
	if err != nil {
		return 0, err
	}
	r.logger.Debug("number drawn", "id", id, "number", n)
	return n, nil
}

// ShoutBingo evaluates a claim against the caller's board.
func (r *Registry) ShoutBingo(id uint64, caller string) error {
	s, err := r.lookup(id)
	if err != nil {
		return err
	}
	if err := s.Claim(caller); err != nil {
		return err
	}
	r.logger.Info("session won", "id", id, "winner", caller)
	return nil
}

// GetBoard returns a participant's board, or false if they never joined or
// the session does not exist.
func (r *Registry) GetBoard(id uint64, participant string) (Board, bool) {
	s, err := r.lookup(id)
	if err != nil {
		return Board{}, false
	}
	return s.Board(participant)
}

// DrawnNumbers returns the values revealed so far for a session.
func (r *Registry) DrawnNumbers(id uint64) ([]byte, error) {
	s, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return s.DrawnNumbers(), nil
}

// ListSessions returns active sessions in creation order, sliced to the
// requested page. Out-of-range pages yield an empty result, never an error.
// The result is never nil so it always serializes as a JSON array.
func (r *Registry) ListSessions(pageSize, pageIndex int) []Summary {
	if pageSize <= 0 || pageIndex < 0 {
		return []Summary{}
	}

	r.mu.RLock()
	start := pageSize * pageIndex
	if start >= len(r.order) {
		r.mu.RUnlock()
		return []Summary{}
	}
	end := start + pageSize
	if end > len(r.order) {
		end = len(r.order)
	}
	page := make([]*Session, 0, end-start)
	for _, id := range r.order[start:end] {
		page = append(page, r.sessions[id])
	}
	r.mu.RUnlock()

	summaries := make([]Summary, 0, len(page))
	for _, s := range page {
		summaries = append(summaries, s.Summary())
	}
	return summaries
}

// SessionCount returns the number of active sessions.
func (r *Registry) SessionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// ConfigSnapshot returns the current global configuration.
func (r *Registry) ConfigSnapshot() Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

func (r *Registry) isAdmin(caller string) bool {
	_, ok := r.admins[caller]
	return ok
}

// SetEntryFee updates the entry fee for sessions created afterwards.
func (r *Registry) SetEntryFee(caller string, fee int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isAdmin(caller) {
		return ErrNotAdmin
	}
	if fee < minEntryFee {
		return ErrInvalidConfiguration
	}
	r.cfg.EntryFee = fee
	r.logger.Info("entry fee updated", "fee", fee, "by", caller)
	return nil
}

// SetJoinDuration updates the join window for sessions created afterwards.
func (r *Registry) SetJoinDuration(caller string, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isAdmin(caller) {
		return ErrNotAdmin
	}
	if d < minDuration {
		return ErrInvalidConfiguration
	}
	r.cfg.JoinDuration = d
	r.logger.Info("join duration updated", "duration", d, "by", caller)
	return nil
}

// SetTurnDuration updates the inter-draw gap for sessions created afterwards.
func (r *Registry) SetTurnDuration(caller string, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isAdmin(caller) {
		return ErrNotAdmin
	}
	if d < minDuration {
		return ErrInvalidConfiguration
	}
	r.cfg.TurnDuration = d
	r.logger.Info("turn duration updated", "duration", d, "by", caller)
	return nil
}
