package model

import (
	"fmt"
	"strings"
)

// Board represents the shared grid for one game.
// Cells are addressed x-major: Cells[x][y] with x in [0, M) and
// y in [0, N). A cell holds 0 when empty, or the 1-based seat index
// of the player who owns it.
type Board struct {
	M     int
	N     int
	Cells [][]int
}

// NewBoard creates an empty m by n board
func NewBoard(m, n int) *Board {
	cells := make([][]int, m)
	for x := range cells {
		cells[x] = make([]int, n)
	}
	return &Board{M: m, N: n, Cells: cells}
}

// InBounds returns true if (x, y) is a valid cell
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.M && y >= 0 && y < b.N
}

// Get returns the seat owning (x, y), or 0 if empty or out of bounds
func (b *Board) Get(x, y int) int {
	if !b.InBounds(x, y) {
		return 0
	}
	return b.Cells[x][y]
}

// Set assigns (x, y) to the given seat
func (b *Board) Set(x, y, seat int) {
	if b.InBounds(x, y) {
		b.Cells[x][y] = seat
	}
}

// IsFull returns true if no cell is empty
func (b *Board) IsFull() bool {
	for x := 0; x < b.M; x++ {
		for y := 0; y < b.N; y++ {
			if b.Cells[x][y] == 0 {
				return false
			}
		}
	}
	return true
}

// Encode packs the board into its persisted form: M strings of N
// decimal digit characters each, string x holding the cells (x, 0)
// through (x, N-1). DecodeBoard is the exact inverse.
func (b *Board) Encode() []string {
	rows := make([]string, b.M)
	for x := 0; x < b.M; x++ {
		var sb strings.Builder
		sb.Grow(b.N)
		for y := 0; y < b.N; y++ {
			sb.WriteByte(byte('0' + b.Cells[x][y]))
		}
		rows[x] = sb.String()
	}
	return rows
}

// DecodeBoard unpacks the persisted form produced by Encode into a
// board of the given dimensions
func DecodeBoard(rows []string, m, n int) (*Board, error) {
	if len(rows) != m {
		return nil, fmt.Errorf("%w: expected %d rows, got %d", ErrFormat, m, len(rows))
	}
	b := NewBoard(m, n)
	for x, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has length %d, expected %d", ErrFormat, x, len(row), n)
		}
		for y := 0; y < n; y++ {
			c := row[y]
			if c < '0' || c > '9' {
				return nil, fmt.Errorf("%w: row %d contains non-digit %q", ErrFormat, x, rune(c))
			}
			b.Cells[x][y] = int(c - '0')
		}
	}
	return b, nil
}

// Clone returns a deep copy of the board
func (b *Board) Clone() *Board {
	c := NewBoard(b.M, b.N)
	for x := range b.Cells {
		copy(c.Cells[x], b.Cells[x])
	}
	return c
}
