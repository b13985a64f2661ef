package game

import "testing"

// sequentialBoard lays out 0..24 row-major, so every cell value is distinct
// and tests can name cells by value.
func sequentialBoard() Board {
	var b Board
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			b[row][col] = byte(row*BoardSize + col)
		}
	}
	return b
}

func drawnOf(values ...byte) NumberSet {
	s := make(NumberSet)
	for _, v := range values {
		s.Add(v)
	}
	return s
}

func TestWinsPatterns(t *testing.T) {
	t.Parallel()

	b := sequentialBoard()

	tests := []struct {
		name  string
		drawn NumberSet
		want  bool
	}{
		{"nothing drawn", drawnOf(), false},
		{"top row", drawnOf(0, 1, 2, 3, 4), true},
		{"middle row", drawnOf(10, 11, 12, 13, 14), true},
		{"bottom row", drawnOf(20, 21, 22, 23, 24), true},
		{"first column", drawnOf(0, 5, 10, 15, 20), true},
		{"last column", drawnOf(4, 9, 14, 19, 24), true},
		{"main diagonal skips center", drawnOf(0, 6, 18, 24), true},
		{"anti diagonal skips center", drawnOf(4, 8, 16, 20), true},
		{"row one short", drawnOf(0, 1, 2, 3), false},
		{"column one short", drawnOf(0, 5, 10, 15), false},
		{"main diagonal missing corner", drawnOf(0, 6, 18), false},
		{"anti diagonal missing corner", drawnOf(4, 8, 16), false},
		{"column does not skip center", drawnOf(2, 7, 17, 22), false},
		{"scattered non-win", drawnOf(1, 5, 13, 19, 23), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Wins(b, tt.drawn); got != tt.want {
				t.Errorf("Wins() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWinsDuplicateValues(t *testing.T) {
	t.Parallel()

	// Boards may contain repeats; one drawn value covers every matching cell.
	var b Board
	for col := 0; col < BoardSize; col++ {
		b[0][col] = 7
	}
	b[1][0] = 9

	if !Wins(b, drawnOf(7)) {
		t.Error("expected a single drawn value to cover a duplicated row")
	}
}

func TestWinsIsPure(t *testing.T) {
	t.Parallel()

	b := sequentialBoard()
	drawn := drawnOf(0, 1, 2)

	first := Wins(b, drawn)
	second := Wins(b, drawn)
	if first != second {
		t.Errorf("repeated evaluation disagreed: %v then %v", first, second)
	}
	if len(drawn) != 3 {
		t.Errorf("drawn set mutated, len = %d", len(drawn))
	}
}

func TestNumberSet(t *testing.T) {
	t.Parallel()

	s := make(NumberSet)
	s.Add(42)
	s.Add(42)
	s.Add(7)

	if !s.Contains(42) || !s.Contains(7) {
		t.Error("expected added values to be contained")
	}
	if s.Contains(9) {
		t.Error("did not expect 9")
	}
	if got := len(s.Values()); got != 2 {
		t.Errorf("Values() returned %d entries, want 2", got)
	}
}
