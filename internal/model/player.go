package model

import (
	"fmt"
	"time"
)

// PlayerID uniquely identifies a player across the system
type PlayerID string

// IdentityKind classifies how a player identity is backed
type IdentityKind string

const (
	// IdentityAuthenticated is a player bound to an external
	// authenticated principal
	IdentityAuthenticated IdentityKind = "authenticated"
	// IdentityRegistered is a player registered locally with a
	// nickname and password
	IdentityRegistered IdentityKind = "registered"
	// IdentityAnonymous is a session-backed player with no credentials
	IdentityAnonymous IdentityKind = "anonymous"
	// IdentityAutomated is the designated CPU identity; its moves are
	// produced by the automated player service
	IdentityAutomated IdentityKind = "automated"
)

// Player represents a game participant identity
type Player struct {
	ID       PlayerID
	Kind     IdentityKind
	Nickname string

	// Principal is the external auth subject; set only for
	// IdentityAuthenticated players
	Principal string

	// PasswordHash is the bcrypt hash of the secret; set only for
	// IdentityRegistered players
	PasswordHash string

	// Session fields; an expiry in the past voids the session
	Session        string
	SessionExpires time.Time

	Wins   int
	Losses int
	Draws  int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName returns the nickname annotated with the win count
func (p *Player) DisplayName() string {
	return fmt.Sprintf("%s (%d)", p.Nickname, p.Wins)
}

// IsAutomated returns true for the designated CPU identity
func (p *Player) IsAutomated() bool {
	return p.Kind == IdentityAutomated
}

// SessionLive returns true if the player holds an unexpired session
func (p *Player) SessionLive(now time.Time) bool {
	return p.Session != "" && now.Before(p.SessionExpires)
}

// Clone returns a deep copy of the player
func (p *Player) Clone() *Player {
	c := *p
	return &c
}
