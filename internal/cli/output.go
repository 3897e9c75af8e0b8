package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case RuleSet:
		o.printRuleSet(v)
	case RuleSetList:
		o.printRuleSetList(v)
	case Game:
		o.printGame(v)
	case GameList:
		o.printGameList(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Nickname string `json:"nickname"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Draws    int    `json:"draws"`
}

// RuleSet response type
type RuleSet struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	NumPlayers int    `json:"num_players"`
	NumGames   int    `json:"num_games"`
	M          int    `json:"m"`
	N          int    `json:"n"`
	K          int    `json:"k"`
	P          int    `json:"p"`
	Q          int    `json:"q"`
	TurnPolicy string `json:"turn_policy"`
}

// RuleSetList response type
type RuleSetList struct {
	RuleSets []RuleSet `json:"rule_sets"`
}

// Game response type
type Game struct {
	ID            string   `json:"id"`
	State         string   `json:"state"`
	RuleSetID     string   `json:"rule_set_id"`
	Players       []string `json:"players"`
	PlayerNames   []string `json:"player_names"`
	CurrentPlayer int      `json:"current_player"`
	Turn          int      `json:"turn"`
	Board         []string `json:"board"`
}

// GameList response type
type GameList struct {
	Games []Game `json:"games"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (%s)\n", p.Nickname, p.ID)
	fmt.Printf("Kind: %s\n", p.Kind)
	fmt.Printf("Record: %d won, %d lost, %d drawn\n", p.Wins, p.Losses, p.Draws)
}

func (o *Output) printRuleSet(rs RuleSet) {
	fmt.Printf("Rule set: %s (%s)\n", rs.Name, rs.ID)
	fmt.Printf("Board: %dx%d, %d in a row to win\n", rs.M, rs.N, rs.K)
	fmt.Printf("Players: %d\n", rs.NumPlayers)
	if rs.TurnPolicy != "" {
		fmt.Printf("Turn policy: %s", rs.TurnPolicy)
		if rs.TurnPolicy == "staged" {
			fmt.Printf(" (p=%d, q=%d)", rs.P, rs.Q)
		}
		fmt.Println()
	}
	fmt.Printf("Games finished: %d\n", rs.NumGames)
}

func (o *Output) printRuleSetList(l RuleSetList) {
	fmt.Printf("Rule sets (%d):\n", len(l.RuleSets))
	for _, rs := range l.RuleSets {
		fmt.Printf("  - %s: %s, %dx%d k=%d, %d players\n",
			rs.ID, rs.Name, rs.M, rs.N, rs.K, rs.NumPlayers)
	}
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s\n", g.ID)
	fmt.Printf("State: %s\n", g.State)
	fmt.Printf("Rule set: %s\n", g.RuleSetID)
	if len(g.PlayerNames) > 0 {
		fmt.Printf("Seats: %s\n", strings.Join(g.PlayerNames, ", "))
	}
	if g.State == "playing" {
		fmt.Printf("Turn: %d (seat %d to move)\n", g.Turn, g.CurrentPlayer)
	}
	o.printBoard(g.Board)
}

func (o *Output) printGameList(l GameList) {
	fmt.Printf("Games (%d):\n", len(l.Games))
	for _, g := range l.Games {
		fmt.Printf("  - %s: %s, %d seated\n", g.ID, g.State, len(g.Players))
	}
}

// printBoard renders the column-encoded board as a grid, columns
// across and rows down. Empty cells show as dots.
func (o *Output) printBoard(board []string) {
	if len(board) == 0 || len(board[0]) == 0 {
		return
	}

	m := len(board)
	n := len(board[0])

	fmt.Print("    ")
	for x := 0; x < m; x++ {
		fmt.Printf(" %d ", x%10)
	}
	fmt.Println()

	fmt.Print("   +")
	for x := 0; x < m; x++ {
		fmt.Print("---")
	}
	fmt.Println("+")

	for y := 0; y < n; y++ {
		fmt.Printf(" %d |", y%10)
		for x := 0; x < m; x++ {
			cell := board[x][y]
			if cell == '0' {
				fmt.Print(" . ")
			} else {
				fmt.Printf(" %c ", cell)
			}
		}
		fmt.Println("|")
	}

	fmt.Print("   +")
	for x := 0; x < m; x++ {
		fmt.Print("---")
	}
	fmt.Println("+")
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
