package model

import (
	"fmt"
	"time"
)

// RuleSetID uniquely identifies a rule set
type RuleSetID string

// TurnPolicy selects how the move counter maps to the seat to move next
type TurnPolicy string

const (
	// TurnPolicyRoundRobin cycles through seats in order, one move each
	TurnPolicyRoundRobin TurnPolicy = "round_robin"
	// TurnPolicyStaged gives seat 1 an opening of q moves, then p moves
	// per seat thereafter
	TurnPolicyStaged TurnPolicy = "staged"
)

// RuleSet is the immutable configuration for one game variant of the
// generalized m,n,k,p,q-game: an m by n board where a run of k cells
// wins, with p and q controlling asymmetric move counts between seats.
//
// NumGames is the only mutable field; it counts completed games under
// this rule set and is incremented exactly once per termination.
type RuleSet struct {
	ID         RuleSetID
	Name       string
	NumPlayers int
	NumGames   int
	M          int // board width
	N          int // board height
	K          int // run length required to win
	P          int
	Q          int
	TurnPolicy TurnPolicy
	CreatedAt  time.Time
}

// Validate checks the rule set invariants
func (rs *RuleSet) Validate() error {
	if rs.M < 1 || rs.N < 1 {
		return fmt.Errorf("%w: board dimensions must be positive", ErrInvalidRuleSet)
	}
	if rs.K < 1 || rs.K > max(rs.M, rs.N) {
		return fmt.Errorf("%w: k must be between 1 and max(m, n)", ErrInvalidRuleSet)
	}
	if rs.NumPlayers < 2 {
		return fmt.Errorf("%w: at least two players required", ErrInvalidRuleSet)
	}
	// The board codec stores one decimal digit per cell
	if rs.NumPlayers > 9 {
		return fmt.Errorf("%w: at most nine players supported", ErrInvalidRuleSet)
	}
	switch rs.TurnPolicy {
	case TurnPolicyRoundRobin, TurnPolicyStaged:
	case "":
		return fmt.Errorf("%w: turn policy required", ErrInvalidRuleSet)
	default:
		return fmt.Errorf("%w: unknown turn policy %q", ErrInvalidRuleSet, rs.TurnPolicy)
	}
	return nil
}
