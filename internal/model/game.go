package model

import (
	"slices"
	"time"
)

// GameID uniquely identifies a game
type GameID string

// GameState represents the current phase of a game
type GameState string

const (
	GameStateWaiting GameState = "waiting" // Accepting players
	GameStatePlaying GameState = "playing" // In play
	GameStateAborted GameState = "aborted" // Cancelled mid-game
	GameStateDraw    GameState = "draw"    // Board filled with no winner
	GameStateWin     GameState = "win"     // Won by a seat
)

// Terminal returns true for states that permit no further transition
func (s GameState) Terminal() bool {
	return s == GameStateAborted || s == GameStateDraw || s == GameStateWin
}

// Game represents a single match under one rule set.
//
// Players is the canonical seat assignment once the game starts: the
// player at index i occupies seat i+1. PlayerNames caches display
// names positionally parallel to Players; it is denormalized for read
// efficiency and resynchronized on membership changes and renames.
type Game struct {
	ID          GameID
	State       GameState
	Players     []PlayerID
	PlayerNames []string

	// CurrentPlayer is the 1-based seat whose turn it is; meaningful
	// only while the game is playing
	CurrentPlayer int

	// Turn counts moves made; -1 until the game starts
	Turn int

	// Rows is the encoded board, re-packed before every persist
	Rows []string

	RuleSetID  RuleSetID
	Added      time.Time
	LastUpdate time.Time

	// Decoded board cache; materialized lazily from Rows on first
	// access and re-encoded only when dirty
	board *Board
	dirty bool
}

// NewGame creates a game in the waiting state with an empty board
func NewGame(id GameID, rs *RuleSet, now time.Time) *Game {
	return &Game{
		ID:         id,
		State:      GameStateWaiting,
		Turn:       -1,
		Rows:       NewBoard(rs.M, rs.N).Encode(),
		RuleSetID:  rs.ID,
		Added:      now,
		LastUpdate: now,
	}
}

// Board returns the decoded board, materializing it from the encoded
// rows on first access
func (g *Game) Board(rs *RuleSet) (*Board, error) {
	if g.board == nil {
		b, err := DecodeBoard(g.Rows, rs.M, rs.N)
		if err != nil {
			return nil, err
		}
		g.board = b
	}
	return g.board, nil
}

// MarkDirty records that the cached board has been mutated and must be
// re-encoded before the next persist
func (g *Game) MarkDirty() {
	g.dirty = true
}

// PackBoard re-encodes the cached board into Rows if it is dirty.
// Callers must invoke this immediately before persisting the game.
func (g *Game) PackBoard() {
	if g.board != nil && g.dirty {
		g.Rows = g.board.Encode()
		g.dirty = false
	}
}

// SeatOf returns the 1-based seat of the given player, or 0 if the
// player is not in the game
func (g *Game) SeatOf(id PlayerID) int {
	for i, p := range g.Players {
		if p == id {
			return i + 1
		}
	}
	return 0
}

// HasPlayer returns true if the player occupies a seat in this game
func (g *Game) HasPlayer(id PlayerID) bool {
	return g.SeatOf(id) != 0
}

// Clone returns a deep copy of the game. The board cache is not
// carried over; the copy decodes fresh from Rows.
func (g *Game) Clone() *Game {
	c := *g
	c.Players = slices.Clone(g.Players)
	c.PlayerNames = slices.Clone(g.PlayerNames)
	c.Rows = slices.Clone(g.Rows)
	c.board = nil
	c.dirty = false
	return &c
}
