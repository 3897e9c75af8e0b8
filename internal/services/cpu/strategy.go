package cpu

import "github.com/mcoot/mnkgame-go/internal/model"

// Strategy defines how the automated player chooses its move
type Strategy interface {
	// ChooseMove selects the coordinates for the next move of the
	// given seat
	ChooseMove(rs *model.RuleSet, board *model.Board, seat int) (x, y int, err error)
}
