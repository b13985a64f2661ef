package game

import (
	"sync"
	"time"

	"github.com/coder/quartz"
)

// Session owns one bingo game: its phase, timers, pot, membership, boards,
// drawn numbers and winner. All mutating operations are serialized by the
// session's own mutex; sessions are otherwise independent of each other.
//
// Every ledger call completes before the session updates its counters, so a
// failed deposit or payout leaves the session exactly as it was.
type Session struct {
	mu sync.Mutex

	id      uint64
	creator string

	// Snapshotted from the registry config at creation time. Later config
	// changes never retroactively affect a running session.
	entryFee     int64
	joinDuration time.Duration
	turnDuration time.Duration

	startTime    time.Time
	lastDrawTime time.Time
	endTime      time.Time

	pot    int64
	winner string

	members map[string]struct{}
	boards  map[string]Board
	drawn   NumberSet

	cancelled bool

	clock  quartz.Clock
	ledger Ledger
	rand   Provider
	bus    *Bus
}

// newSession assumes the creator's deposit has already landed; it joins the
// creator, generates their board and opens the join window at now.
func newSession(id uint64, creator string, cfg Config, now time.Time, clock quartz.Clock, ledger Ledger, rand Provider, bus *Bus) *Session {
	s := &Session{
		id:           id,
		creator:      creator,
		entryFee:     cfg.EntryFee,
		joinDuration: cfg.JoinDuration,
		turnDuration: cfg.TurnDuration,
		startTime:    now,
		lastDrawTime: now,
		pot:          cfg.EntryFee,
		members:      make(map[string]struct{}),
		boards:       make(map[string]Board),
		drawn:        make(NumberSet),
		clock:        clock,
		ledger:       ledger,
		rand:         rand,
		bus:          bus,
	}
	s.members[creator] = struct{}{}
	s.boards[creator] = GenerateBoard(rand, now, id, creator)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() uint64 {
	return s.id
}

// Creator returns the identity that created the session.
func (s *Session) Creator() string {
	return s.creator
}

// phaseAt derives the phase from stored timestamps. Callers hold s.mu.
func (s *Session) phaseAt(now time.Time) Phase {
	switch {
	case s.cancelled:
		return Cancelled
	case !s.endTime.IsZero():
		return Ended
	case now.Before(s.startTime.Add(s.joinDuration)):
		return JoinPhase
	default:
		return DrawPhase
	}
}

// Phase returns the current phase, computed against the clock.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phaseAt(s.clock.Now())
}

// Join adds a participant during the join window. The deposit lands before
// the pot and membership are updated.
func (s *Session) Join(participant string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if s.cancelled {
		return ErrSessionNotFound
	}
	if s.phaseAt(now) != JoinPhase {
		return ErrSessionNotJoinable
	}
	if _, ok := s.members[participant]; ok {
		return ErrAlreadyJoined
	}

	if err := s.ledger.Deposit(participant, s.entryFee); err != nil {
		return err
	}

	s.pot += s.entryFee
	s.members[participant] = struct{}{}
	s.boards[participant] = GenerateBoard(s.rand, now, s.id, participant)

	s.bus.Publish(ParticipantJoinedEvent{
		ID:          s.id,
		Participant: participant,
		Pot:         s.pot,
		timestamp:   now,
	})
	return nil
}

// Cancel refunds the creator and tombstones the session, but only when the
// join window has elapsed and nobody besides the creator ever joined. An
// ineligible cancel silently does nothing; callers re-check session state
// rather than rely on a return signal. Only the creator may cancel.
//
// Returns true when the session was tombstoned by this call.
func (s *Session) Cancel(caller string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelled {
		return false, ErrSessionNotFound
	}
	if caller != s.creator {
		return false, ErrNotCreator
	}

	now := s.clock.Now()
	eligible := s.endTime.IsZero() &&
		len(s.members) == 1 &&
		s.pot == s.entryFee &&
		!now.Before(s.startTime.Add(s.joinDuration))
	if !eligible {
		return false, nil
	}

	if err := s.ledger.Payout(s.creator, s.pot); err != nil {
		return false, err
	}

	s.pot = 0
	s.cancelled = true

	s.bus.Publish(SessionCancelledEvent{ID: s.id, timestamp: now})
	return true, nil
}

// Draw reveals one number. Creator-only, draw phase only, and gated on the
// turn duration having elapsed since the previous draw. Re-drawing an
// already-revealed value is allowed and simply wastes the turn.
func (s *Session) Draw(caller string) (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelled {
		return 0, ErrSessionNotFound
	}
	if caller != s.creator {
		return 0, ErrNotCreator
	}

	now := s.clock.Now()
	if s.phaseAt(now) != DrawPhase {
		return 0, ErrSessionNotActive
	}
	if now.Before(s.lastDrawTime.Add(s.turnDuration)) {
		return 0, ErrTooEarly
	}

	n := byte(uint16(s.rand.Next()) % cellRange)
	s.drawn.Add(n)
	s.lastDrawTime = now

	s.bus.Publish(NumberDrawnEvent{ID: s.id, Number: n, timestamp: now})
	return n, nil
}

// Claim evaluates the caller's board against the drawn set. The first claim
// that evaluates a true win is paid the pot exactly once; every later call
// observes the non-zero end time and fails with ErrSessionNotActive, which
// is the mechanism preventing double payout under concurrent claims. A
// losing claim changes nothing and may be repeated after further draws.
func (s *Session) Claim(caller string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelled {
		return ErrSessionNotFound
	}
	if !s.endTime.IsZero() {
		return ErrSessionNotActive
	}

	board, ok := s.boards[caller]
	if !ok {
		// A caller without a board cannot hold a winning one.
		return ErrNoWinningPattern
	}
	if !Wins(board, s.drawn) {
		return ErrNoWinningPattern
	}

	if err := s.ledger.Payout(caller, s.pot); err != nil {
		return err
	}

	now := s.clock.Now()
	s.endTime = now
	s.winner = caller

	s.bus.Publish(SessionEndedEvent{
		ID:        s.id,
		Winner:    caller,
		Pot:       s.pot,
		timestamp: now,
	})
	return nil
}

// Board returns the participant's board, or false if they never joined.
func (s *Session) Board(participant string) (Board, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[participant]
	return b, ok
}

// DrawnNumbers returns a snapshot of the values revealed so far.
func (s *Session) DrawnNumbers() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawn.Values()
}

// Pot returns the escrowed fee total.
func (s *Session) Pot() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pot
}

// Winner returns the winning participant, empty while the session is active.
func (s *Session) Winner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.winner
}

// Summary holds lightweight session metadata for listings.
type Summary struct {
	ID           uint64        `json:"id"`
	Creator      string        `json:"creator"`
	EntryFee     int64         `json:"entryFee"`
	Pot          int64         `json:"pot"`
	Participants int           `json:"participants"`
	DrawnCount   int           `json:"drawnCount"`
	Phase        string        `json:"phase"`
	Winner       string        `json:"winner,omitempty"`
	JoinDuration time.Duration `json:"joinDuration"`
	TurnDuration time.Duration `json:"turnDuration"`
	StartTime    time.Time     `json:"startTime"`
}

// Summary returns a consistent snapshot for listings.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		ID:           s.id,
		Creator:      s.creator,
		EntryFee:     s.entryFee,
		Pot:          s.pot,
		Participants: len(s.members),
		DrawnCount:   len(s.drawn),
		Phase:        s.phaseAt(s.clock.Now()).String(),
		Winner:       s.winner,
		JoinDuration: s.joinDuration,
		TurnDuration: s.turnDuration,
		StartTime:    s.startTime,
	}
}
