package game

import (
	"hash/fnv"
	"time"

	"github.com/lox/bingohall/internal/randutil"
)

// BoardSize is the fixed edge length of a bingo board.
const BoardSize = 5

// cellRange keeps cell values and drawn numbers in [0,255) so every board
// value remains reachable by the draw stream.
const cellRange = 255

// Board is a participant's fixed 5x5 grid. It is generated exactly once at
// join time and never mutated afterwards. Duplicate values are permitted.
type Board [BoardSize][BoardSize]byte

// GenerateBoard derives a board for a (session, participant) pair. Each cell
// mixes the provider's output with the generation time, the session id, the
// participant identity and the cell coordinates, so two participants joining
// in the same instant still receive different boards.
func GenerateBoard(rand Provider, now time.Time, sessionID uint64, participant string) Board {
	h := fnv.New64a()
	_, _ = h.Write([]byte(participant))
	identity := h.Sum64()

	entropy := randutil.Mix(uint64(now.UnixNano()) ^ sessionID)

	var b Board
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			cell := randutil.Mix(entropy ^ identity ^ uint64(row*BoardSize+col))
			cell += uint64(rand.Next())
			b[row][col] = byte(cell % cellRange)
		}
	}
	return b
}

// Rows returns the board as a slice-of-slices, convenient for JSON payloads.
func (b Board) Rows() [][]byte {
	rows := make([][]byte, BoardSize)
	for i := range rows {
		rows[i] = make([]byte, BoardSize)
		copy(rows[i], b[i][:])
	}
	return rows
}
