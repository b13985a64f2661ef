package game

// NumberSet holds the distinct values revealed so far for a session.
type NumberSet map[byte]struct{}

// Add records a drawn value. Re-adding an existing value is a no-op; the
// randomness source is not collision-free, so repeats just waste a turn.
func (s NumberSet) Add(n byte) {
	s[n] = struct{}{}
}

// Contains reports whether n has been drawn.
func (s NumberSet) Contains(n byte) bool {
	_, ok := s[n]
	return ok
}

// Values returns the drawn numbers in unspecified order.
func (s NumberSet) Values() []byte {
	out := make([]byte, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	return out
}

// centerRow marks the free-space row: diagonal cells on it never count
// against the diagonals, following the classic 5x5 convention.
const centerRow = BoardSize / 2

// Wins reports whether the board satisfies any win pattern against the drawn
// set: a fully covered row, a fully covered column, or a diagonal whose
// off-center cells are all covered. Pure and repeatable, so a failed claim
// can simply be retried after the next draw.
func Wins(b Board, drawn NumberSet) bool {
	var colBroken [BoardSize]bool
	var diagBroken, antiBroken bool

	for row := 0; row < BoardSize; row++ {
		rowFull := true
		for col := 0; col < BoardSize; col++ {
			if drawn.Contains(b[row][col]) {
				continue
			}
			rowFull = false
			colBroken[col] = true
			if row != centerRow {
				if col == row {
					diagBroken = true
				}
				if col == BoardSize-1-row {
					antiBroken = true
				}
			}
		}
		if rowFull {
			return true
		}
	}

	for col := 0; col < BoardSize; col++ {
		if !colBroken[col] {
			return true
		}
	}
	return !diagBroken || !antiBroken
}
