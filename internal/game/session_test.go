package game

import (
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	reg, bank, provider, clock := newTestRegistry(t, testConfig)

	rec := &eventRecorder{}
	reg.Events().Subscribe(rec)

	id, err := reg.CreateSession("alice")
	require.NoError(t, err)
	require.Equal(t, uint64(1), id)
	require.Equal(t, int64(10), bank.deposits["alice"])

	summaries := reg.ListSessions(10, 0)
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(10), summaries[0].Pot)
	assert.Equal(t, 1, summaries[0].Participants)
	assert.Equal(t, "joining", summaries[0].Phase)

	// Bob joins halfway through the window.
	clock.Advance(30 * time.Second)
	require.NoError(t, reg.JoinSession(id, "bob"))
	require.Equal(t, int64(10), bank.deposits["bob"])

	require.ErrorIs(t, reg.JoinSession(id, "bob"), ErrAlreadyJoined)

	summary := reg.ListSessions(10, 0)[0]
	assert.Equal(t, int64(20), summary.Pot)
	assert.Equal(t, 2, summary.Participants)

	// The window closes; late joiners are turned away with nothing charged.
	clock.Advance(40 * time.Second)
	require.ErrorIs(t, reg.JoinSession(id, "carol"), ErrSessionNotJoinable)
	assert.Zero(t, bank.deposits["carol"])
	assert.Equal(t, int64(20), reg.ListSessions(10, 0)[0].Pot)

	// A claim with nothing drawn loses and changes nothing.
	require.ErrorIs(t, reg.ShoutBingo(id, "bob"), ErrNoWinningPattern)
	assert.Zero(t, bank.paidTo("bob"))

	_, err = reg.DrawNumber(id, "bob")
	require.ErrorIs(t, err, ErrNotCreator)

	provider.push(42)
	n, err := reg.DrawNumber(id, "alice")
	require.NoError(t, err)
	assert.Equal(t, byte(42), n)

	_, err = reg.DrawNumber(id, "alice")
	require.ErrorIs(t, err, ErrTooEarly)

	// Draw bob's entire top row, one turn apart.
	board, ok := reg.GetBoard(id, "bob")
	require.True(t, ok)
	provider.push(rowValues(board, 0)...)
	for i := 0; i < BoardSize; i++ {
		clock.Advance(60 * time.Second)
		_, err := reg.DrawNumber(id, "alice")
		require.NoError(t, err)
	}

	require.NoError(t, reg.ShoutBingo(id, "bob"))
	assert.Equal(t, int64(20), bank.paidTo("bob"))
	assert.Zero(t, bank.escrow)

	summary = reg.ListSessions(10, 0)[0]
	assert.Equal(t, "ended", summary.Phase)
	assert.Equal(t, "bob", summary.Winner)

	// The pot was paid exactly once; later claims and draws bounce.
	require.ErrorIs(t, reg.ShoutBingo(id, "alice"), ErrSessionNotActive)
	require.ErrorIs(t, reg.ShoutBingo(id, "bob"), ErrSessionNotActive)
	_, err = reg.DrawNumber(id, "alice")
	require.ErrorIs(t, err, ErrSessionNotActive)
	require.ErrorIs(t, reg.JoinSession(id, "carol"), ErrSessionNotJoinable)
	assert.Equal(t, int64(20), bank.paidTo("bob"))

	assert.Len(t, rec.ofType(EventTypeSessionCreated), 1)
	assert.Len(t, rec.ofType(EventTypeParticipantJoined), 1)
	assert.Len(t, rec.ofType(EventTypeNumberDrawn), 6)
	assert.Len(t, rec.ofType(EventTypeSessionEnded), 1)
}

func TestSessionPhaseTransitions(t *testing.T) {
	t.Parallel()

	clock := quartz.NewMock(t)
	provider := &queueProvider{}
	s := newSession(7, "alice", testConfig, clock.Now(), clock, newFakeLedger(), provider, NewBus())

	assert.Equal(t, uint64(7), s.ID())
	assert.Equal(t, "alice", s.Creator())
	assert.Equal(t, int64(10), s.Pot())
	assert.Empty(t, s.Winner())
	assert.Equal(t, JoinPhase, s.Phase())
	assert.Equal(t, "joining", s.Phase().String())

	_, ok := s.Board("alice")
	assert.True(t, ok)

	clock.Advance(60 * time.Second)
	assert.Equal(t, DrawPhase, s.Phase())

	// Cover alice's board via draws, then claim.
	board, _ := s.Board("alice")
	provider.push(rowValues(board, 2)...)
	for i := 0; i < BoardSize; i++ {
		_, err := s.Draw("alice")
		require.NoError(t, err)
		clock.Advance(60 * time.Second)
	}
	require.NoError(t, s.Claim("alice"))

	assert.Equal(t, Ended, s.Phase())
	assert.Equal(t, "alice", s.Winner())
}

func TestSessionNotFound(t *testing.T) {
	t.Parallel()

	reg, _, _, _ := newTestRegistry(t, testConfig)

	require.ErrorIs(t, reg.JoinSession(99, "alice"), ErrSessionNotFound)
	require.ErrorIs(t, reg.CancelSession(99, "alice"), ErrSessionNotFound)
	require.ErrorIs(t, reg.ShoutBingo(99, "alice"), ErrSessionNotFound)

	_, err := reg.DrawNumber(99, "alice")
	require.ErrorIs(t, err, ErrSessionNotFound)

	_, ok := reg.GetBoard(99, "alice")
	require.False(t, ok)

	_, err = reg.DrawnNumbers(99)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCreateSessionDepositFailure(t *testing.T) {
	t.Parallel()

	reg, bank, _, _ := newTestRegistry(t, testConfig)
	bank.depositErr = ErrInsufficientFunds

	_, err := reg.CreateSession("alice")
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Zero(t, reg.SessionCount())
}

func TestJoinDepositFailure(t *testing.T) {
	t.Parallel()

	reg, bank, _, _ := newTestRegistry(t, testConfig)

	id, err := reg.CreateSession("alice")
	require.NoError(t, err)

	bank.depositErr = ErrInsufficientFunds
	require.ErrorIs(t, reg.JoinSession(id, "bob"), ErrInsufficientFunds)

	summary := reg.ListSessions(10, 0)[0]
	assert.Equal(t, int64(10), summary.Pot)
	assert.Equal(t, 1, summary.Participants)

	// Bob is not a member, so a fresh attempt succeeds once funds exist.
	bank.depositErr = nil
	require.NoError(t, reg.JoinSession(id, "bob"))
}

func TestCancelRefundsLonelyCreator(t *testing.T) {
	t.Parallel()

	reg, bank, _, clock := newTestRegistry(t, testConfig)

	rec := &eventRecorder{}
	reg.Events().Subscribe(rec)

	id, err := reg.CreateSession("alice")
	require.NoError(t, err)

	require.ErrorIs(t, reg.CancelSession(id, "bob"), ErrNotCreator)

	// Inside the join window cancel is a silent no-op.
	require.NoError(t, reg.CancelSession(id, "alice"))
	assert.Equal(t, 1, reg.SessionCount())
	assert.Zero(t, bank.paidTo("alice"))

	clock.Advance(60 * time.Second)
	require.NoError(t, reg.CancelSession(id, "alice"))
	assert.Zero(t, reg.SessionCount())
	assert.Equal(t, int64(10), bank.paidTo("alice"))
	assert.Zero(t, bank.escrow)

	// The tombstoned session is gone for every operation.
	require.ErrorIs(t, reg.CancelSession(id, "alice"), ErrSessionNotFound)
	require.ErrorIs(t, reg.JoinSession(id, "bob"), ErrSessionNotFound)
	assert.Empty(t, reg.ListSessions(10, 0))

	require.Len(t, rec.ofType(EventTypeSessionCancelled), 1)
}

func TestCancelIneligibleWithParticipants(t *testing.T) {
	t.Parallel()

	reg, bank, _, clock := newTestRegistry(t, testConfig)

	id, err := reg.CreateSession("alice")
	require.NoError(t, err)
	require.NoError(t, reg.JoinSession(id, "bob"))

	clock.Advance(60 * time.Second)
	require.NoError(t, reg.CancelSession(id, "alice"))

	// Nothing moved; the session plays on.
	assert.Equal(t, 1, reg.SessionCount())
	assert.Zero(t, bank.paidTo("alice"))

	_, err = reg.DrawNumber(id, "alice")
	require.NoError(t, err)
}

func TestClaimPayoutFailureLeavesSessionOpen(t *testing.T) {
	t.Parallel()

	reg, bank, provider, clock := newTestRegistry(t, testConfig)

	id, err := reg.CreateSession("alice")
	require.NoError(t, err)

	board, ok := reg.GetBoard(id, "alice")
	require.True(t, ok)

	clock.Advance(60 * time.Second)
	provider.push(rowValues(board, 0)...)
	for i := 0; i < BoardSize; i++ {
		_, err := reg.DrawNumber(id, "alice")
		require.NoError(t, err)
		clock.Advance(60 * time.Second)
	}

	bank.payoutErr = ErrTransferFailed
	require.ErrorIs(t, reg.ShoutBingo(id, "alice"), ErrTransferFailed)

	// The failed payout left the session open; once the transfer goes
	// through, the same claim wins.
	summary := reg.ListSessions(10, 0)[0]
	assert.Empty(t, summary.Winner)
	assert.Equal(t, "drawing", summary.Phase)

	bank.payoutErr = nil
	require.NoError(t, reg.ShoutBingo(id, "alice"))
	assert.Equal(t, int64(10), bank.paidTo("alice"))
}

func TestClaimByNonMember(t *testing.T) {
	t.Parallel()

	reg, _, _, _ := newTestRegistry(t, testConfig)

	id, err := reg.CreateSession("alice")
	require.NoError(t, err)

	require.ErrorIs(t, reg.ShoutBingo(id, "carol"), ErrNoWinningPattern)
}

func TestDrawBeforeWindowCloses(t *testing.T) {
	t.Parallel()

	reg, _, _, clock := newTestRegistry(t, testConfig)

	id, err := reg.CreateSession("alice")
	require.NoError(t, err)

	_, err = reg.DrawNumber(id, "alice")
	require.ErrorIs(t, err, ErrSessionNotActive)

	clock.Advance(59 * time.Second)
	_, err = reg.DrawNumber(id, "alice")
	require.ErrorIs(t, err, ErrSessionNotActive)

	clock.Advance(1 * time.Second)
	_, err = reg.DrawNumber(id, "alice")
	require.NoError(t, err)
}

func TestDrawnNumbersDeduplicated(t *testing.T) {
	t.Parallel()

	reg, _, provider, clock := newTestRegistry(t, testConfig)

	id, err := reg.CreateSession("alice")
	require.NoError(t, err)

	provider.push(7, 7, 9)
	for i := 0; i < 3; i++ {
		clock.Advance(60 * time.Second)
		_, err := reg.DrawNumber(id, "alice")
		require.NoError(t, err)
	}

	drawn, err := reg.DrawnNumbers(id)
	require.NoError(t, err)
	assert.ElementsMatch(t, []byte{7, 9}, drawn)
	assert.Equal(t, 2, reg.ListSessions(10, 0)[0].DrawnCount)
}
