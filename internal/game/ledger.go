package game

// Ledger is the escrow abstraction that moves entry fees into and out of the
// pot. Value transfer is an external concern; sessions only require that a
// call has completed (success or failure) before they update their own
// counters, so that a pot is never credited for a deposit that did not land.
type Ledger interface {
	// Deposit moves amount from the participant's balance into escrow.
	// Returns ErrInsufficientFunds when the balance cannot cover it.
	Deposit(participant string, amount int64) error

	// Payout releases amount from escrow to the participant.
	// Returns ErrTransferFailed when the escrow cannot cover it.
	Payout(participant string, amount int64) error
}
