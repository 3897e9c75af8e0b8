package e2e_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/mnkgame-go/internal/api"
	"github.com/mcoot/mnkgame-go/internal/factory"
)

// cliRunner manages CLI binary execution. Each runner holds its own
// token file, so it acts as a distinct player.
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	projectRoot := findProjectRoot(t)

	binaryPath := filepath.Join(projectRoot, "bin", "mnkgame-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/mnkgame")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token"),
	}
}

// asPlayer derives a runner sharing the binary but with a fresh token
// file, acting as a separate player.
func (r *cliRunner) asPlayer(t *testing.T) *cliRunner {
	t.Helper()

	return &cliRunner{
		binaryPath: r.binaryPath,
		serverURL:  r.serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		Registry:       app.Registry,
		GameController: app.GameController,
		CPUService:     app.CPUService,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing

type playerResponse struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Nickname string `json:"nickname"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Draws    int    `json:"draws"`
}

type ruleSetResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	NumPlayers int    `json:"num_players"`
	M          int    `json:"m"`
	N          int    `json:"n"`
	K          int    `json:"k"`
	TurnPolicy string `json:"turn_policy"`
}

type gameResponse struct {
	ID            string   `json:"id"`
	State         string   `json:"state"`
	RuleSetID     string   `json:"rule_set_id"`
	Players       []string `json:"players"`
	PlayerNames   []string `json:"player_names"`
	CurrentPlayer int      `json:"current_player"`
	Turn          int      `json:"turn"`
	Board         []string `json:"board"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Helpers

func registerPlayer(t *testing.T, cli *cliRunner, name string) playerResponse {
	t.Helper()

	output, err := cli.run("player", "register", "--name", name, "--pass", "secret123")
	require.NoError(t, err, "output: %s", output)

	var player playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &player))
	return player
}

func createRuleSet(t *testing.T, cli *cliRunner) ruleSetResponse {
	t.Helper()

	output, err := cli.run("ruleset", "create", "--name", "tic-tac-toe",
		"--players", "2", "--m", "3", "--n", "3", "--k", "3")
	require.NoError(t, err, "output: %s", output)

	var rs ruleSetResponse
	require.NoError(t, json.Unmarshal([]byte(output), &rs))
	return rs
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_PlayerCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	registered := registerPlayer(t, cli, "alice")
	assert.Equal(t, "alice", registered.Nickname)
	assert.Equal(t, "registered", registered.Kind)

	// Session persisted via the token file
	output, err := cli.run("player", "me")
	require.NoError(t, err, "output: %s", output)

	var me playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &me))
	assert.Equal(t, registered.ID, me.ID)

	// Rename
	output, err = cli.run("player", "rename", "al-ice")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &me))
	assert.Equal(t, "al-ice", me.Nickname)
}

func TestCLI_RuleSetCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)
	registerPlayer(t, cli, "alice")

	rs := createRuleSet(t, cli)
	assert.Equal(t, "tic-tac-toe", rs.Name)
	assert.Equal(t, "round_robin", rs.TurnPolicy)

	output, err := cli.run("ruleset", "get", rs.ID)
	require.NoError(t, err, "output: %s", output)

	var got ruleSetResponse
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, rs.ID, got.ID)
	assert.Equal(t, 3, got.K)
}

func TestCLI_FullGameFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli1 := newCLIRunner(t, ts.addr)
	cli2 := cli1.asPlayer(t)

	alice := registerPlayer(t, cli1, "alice")
	registerPlayer(t, cli2, "bob")

	rs := createRuleSet(t, cli1)

	// Alice creates, Bob fills the last seat and starts the game
	output, err := cli1.run("game", "create", "--ruleset", rs.ID)
	require.NoError(t, err, "output: %s", output)
	var game gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, "waiting", game.State)
	assert.Equal(t, -1, game.Turn)

	output, err = cli2.run("game", "join", game.ID)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	require.Equal(t, "playing", game.State)
	require.Len(t, game.Players, 2)

	// Seat order is shuffled at start; map runners onto seats
	seat1, seat2 := cli1, cli2
	if game.Players[0] != alice.ID {
		seat1, seat2 = cli2, cli1
	}

	// Seat 1 claims column 0 straight down for a vertical win
	moves := []struct {
		cli  *cliRunner
		x, y string
	}{
		{seat1, "0", "0"},
		{seat2, "1", "1"},
		{seat1, "0", "1"},
		{seat2, "1", "0"},
		{seat1, "0", "2"},
	}

	for _, m := range moves {
		output, err = m.cli.run("game", "move", game.ID, m.x, m.y)
		require.NoError(t, err, "move (%s,%s): %s", m.x, m.y, output)
		require.NoError(t, json.Unmarshal([]byte(output), &game))
	}

	assert.Equal(t, "win", game.State)
	assert.Equal(t, 1, game.CurrentPlayer)

	// Winner's record updated
	output, err = seat1.run("player", "me")
	require.NoError(t, err, "output: %s", output)
	var winner playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &winner))
	assert.Equal(t, 1, winner.Wins)
}

func TestCLI_GameAgainstCPU(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)
	registerPlayer(t, cli, "alice")
	rs := createRuleSet(t, cli)

	output, err := cli.run("game", "create", "--ruleset", rs.ID, "--cpu")
	require.NoError(t, err, "output: %s", output)

	var game gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	require.Equal(t, "playing", game.State)

	// The CPU catches up within each request, so it is always the
	// human's move when a response comes back
	x, y, ok := firstEmptyCell(game.Board)
	require.True(t, ok)

	output, err = cli.run("game", "move", game.ID, fmt.Sprint(x), fmt.Sprint(y))
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Contains(t, []string{"playing", "win", "draw"}, game.State)
	assert.Greater(t, game.Turn, 0)
}

func TestCLI_AbortGame(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli1 := newCLIRunner(t, ts.addr)
	cli2 := cli1.asPlayer(t)

	registerPlayer(t, cli1, "alice")
	registerPlayer(t, cli2, "bob")
	rs := createRuleSet(t, cli1)

	output, err := cli1.run("game", "create", "--ruleset", rs.ID)
	require.NoError(t, err, "output: %s", output)
	var game gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &game))

	output, err = cli2.run("game", "join", game.ID)
	require.NoError(t, err, "output: %s", output)

	output, err = cli2.run("game", "abort", game.ID)
	require.NoError(t, err, "output: %s", output)

	var msg messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msg))
	assert.Equal(t, "Game aborted", msg.Message)

	output, err = cli1.run("game", "get", game.ID)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, "aborted", game.State)
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)
	registerPlayer(t, cli, "alice")

	// Missing game
	output, err := cli.run("game", "get", "g-missing")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")

	// Duplicate registration
	other := cli.asPlayer(t)
	output, err = other.run("player", "register", "--name", "alice", "--pass", "secret123")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "nickname")
}

// firstEmptyCell scans the column-encoded board for an unclaimed cell.
func firstEmptyCell(board []string) (int, int, bool) {
	for x, col := range board {
		for y, c := range col {
			if c == '0' {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}
