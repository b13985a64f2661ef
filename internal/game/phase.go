package game

// Phase represents the lifecycle stage of a session. It is always computed
// from the session's timestamps at call time, never stored.
type Phase int

const (
	JoinPhase Phase = iota
	DrawPhase
	Ended
	Cancelled
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case JoinPhase:
		return "joining"
	case DrawPhase:
		return "drawing"
	case Ended:
		return "ended"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}
