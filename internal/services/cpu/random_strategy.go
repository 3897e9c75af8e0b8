package cpu

import (
	"errors"

	"github.com/mcoot/mnkgame-go/internal/dependencies/random"
	"github.com/mcoot/mnkgame-go/internal/model"
)

// ErrNoMove is returned when a strategy cannot produce a move
var ErrNoMove = errors.New("no move available")

// RandomStrategy picks a uniformly random empty cell
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

type cell struct {
	x, y int
}

// ChooseMove returns a random empty cell on the board
func (s *RandomStrategy) ChooseMove(rs *model.RuleSet, board *model.Board, seat int) (int, int, error) {
	var empty []cell
	for x := 0; x < board.M; x++ {
		for y := 0; y < board.N; y++ {
			if board.Cells[x][y] == 0 {
				empty = append(empty, cell{x, y})
			}
		}
	}
	if len(empty) == 0 {
		return 0, 0, ErrNoMove
	}
	chosen := empty[s.random.Intn(len(empty))]
	return chosen.x, chosen.y, nil
}
