package model

import "errors"

// Error kinds surfaced by the engine. Detail is wrapped onto a kind
// with fmt.Errorf("%w: ...") and checked with errors.Is.
var (
	// ErrJoin covers roster and state violations on admission
	ErrJoin = errors.New("cannot join game")
	// ErrMove covers illegal moves: wrong player, wrong state,
	// out-of-bounds or occupied cells
	ErrMove = errors.New("illegal move")
	// ErrAbort is returned when aborting an already completed game
	ErrAbort = errors.New("cannot abort game")
	// ErrLeave covers removal by a non-member or on a finished game
	ErrLeave = errors.New("cannot leave game")
	// ErrLogin covers unknown players, wrong identity kinds and bad
	// credentials
	ErrLogin = errors.New("login failed")
	// ErrRegister covers invalid registrations; nickname failures wrap
	// ErrPlayerName as well
	ErrRegister = errors.New("registration failed")
	// ErrPlayerName carries nickname validation detail
	ErrPlayerName = errors.New("invalid nickname")
	// ErrFormat indicates a malformed persisted board
	ErrFormat = errors.New("malformed board data")
	// ErrInvalidRuleSet indicates rule set parameters violating the
	// variant invariants
	ErrInvalidRuleSet = errors.New("invalid rule set")

	// Not-found sentinels
	ErrPlayerNotFound  = errors.New("player not found")
	ErrGameNotFound    = errors.New("game not found")
	ErrRuleSetNotFound = errors.New("rule set not found")
)
