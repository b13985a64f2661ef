package game

import "errors"

// Session errors. All are sentinels so callers can branch with errors.Is.
var (
	// ErrSessionNotFound is returned when a session id was never assigned or
	// the session was tombstoned by cancellation.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionNotJoinable is returned for a join outside the join window.
	ErrSessionNotJoinable = errors.New("session not joinable")

	// ErrAlreadyJoined is returned when a participant joins a session twice.
	ErrAlreadyJoined = errors.New("participant already joined")

	// ErrNotCreator is returned when a creator-only operation is attempted
	// by another participant.
	ErrNotCreator = errors.New("caller is not the session creator")

	// ErrSessionNotActive is returned for draws and claims against a session
	// that has already ended or has not produced any claimable state.
	ErrSessionNotActive = errors.New("session not active")

	// ErrTooEarly is returned when a draw is attempted before the turn
	// duration has elapsed since the previous draw.
	ErrTooEarly = errors.New("turn duration has not elapsed")

	// ErrNoWinningPattern is returned when a claim does not satisfy any row,
	// column or diagonal. The claim leaves no state behind and may be retried
	// after further draws.
	ErrNoWinningPattern = errors.New("board has no winning pattern")

	// ErrInvalidConfiguration is returned when the entry fee or a duration
	// is below the administrative floor.
	ErrInvalidConfiguration = errors.New("invalid session configuration")

	// ErrNotAdmin is returned when a configuration setter is invoked without
	// the administrator capability.
	ErrNotAdmin = errors.New("caller is not an administrator")
)

// Ledger errors, propagated verbatim from the escrow implementation.
var (
	// ErrInsufficientFunds is returned by Deposit when the participant's
	// balance cannot cover the entry fee.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrTransferFailed is returned by Payout when the escrowed funds cannot
	// be released.
	ErrTransferFailed = errors.New("transfer failed")
)
