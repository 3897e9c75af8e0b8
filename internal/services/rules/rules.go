// Package rules implements the win-detection and turn-order policies
// of a rule set. Both are pure functions of the rule set parameters so
// that variants can differ without touching the game state machine.
package rules

import (
	"github.com/mcoot/mnkgame-go/internal/model"
)

// axes are the four run directions relevant to a connection game:
// horizontal, vertical and both diagonals
var axes = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// IsWin reports whether the move just played at (x, y) by seat
// completes a run of at least rs.K cells owned by seat. Only runs
// through the placed cell are examined, so the check is O(k) per axis
// rather than a full-board scan.
func IsWin(rs *model.RuleSet, b *model.Board, seat, x, y int) bool {
	for _, a := range axes {
		run := 1 + runLength(b, seat, x, y, a[0], a[1]) + runLength(b, seat, x, y, -a[0], -a[1])
		if run >= rs.K {
			return true
		}
	}
	return false
}

// runLength counts consecutive cells owned by seat walking from
// (x, y) exclusive in direction (dx, dy)
func runLength(b *model.Board, seat, x, y, dx, dy int) int {
	n := 0
	for {
		x += dx
		y += dy
		if !b.InBounds(x, y) || b.Get(x, y) != seat {
			return n
		}
		n++
	}
}

// WhoseTurn maps the 0-based move counter to the 1-based seat to move
// next, according to the rule set's turn policy. It is evaluated fresh
// after every move.
func WhoseTurn(rs *model.RuleSet, turn int) int {
	switch rs.TurnPolicy {
	case model.TurnPolicyStaged:
		return stagedTurn(rs, turn)
	default:
		return turn%rs.NumPlayers + 1
	}
}

// stagedTurn implements the asymmetric p,q opening: seat 1 plays the
// first q moves, then each seat in order plays p moves per turn
func stagedTurn(rs *model.RuleSet, turn int) int {
	p, q := rs.P, rs.Q
	if p < 1 {
		p = 1
	}
	if q < 1 {
		q = p
	}
	if turn < q {
		return 1
	}
	return ((turn-q)/p+1)%rs.NumPlayers + 1
}
