package request

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

// RenameRequest is the request body for changing a nickname
type RenameRequest struct {
	Nickname string `json:"nickname"`
}

// CreateRuleSetRequest is the request body for creating a rule set
type CreateRuleSetRequest struct {
	Name       string `json:"name"`
	NumPlayers int    `json:"num_players"`
	M          int    `json:"m"`
	N          int    `json:"n"`
	K          int    `json:"k"`
	P          int    `json:"p,omitempty"`
	Q          int    `json:"q,omitempty"`
	TurnPolicy string `json:"turn_policy,omitempty"`
}

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	RuleSetID string `json:"rule_set_id"`
	// WithCPU seats the automated opponent at creation
	WithCPU bool `json:"with_cpu,omitempty"`
}

// MoveRequest is the request body for making a move
type MoveRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}
