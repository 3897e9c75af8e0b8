// Package registry resolves, authenticates and mutates player
// identities. Sessions are stored on the player record itself; the
// registry hands transport a (name, value, expiry) triple and never
// deals in cookies directly.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/mnkgame-go/internal/dependencies/clock"
	"github.com/mcoot/mnkgame-go/internal/model"
	"github.com/mcoot/mnkgame-go/internal/storage"
)

const (
	// SessionCookieName is the transport name of the session credential
	SessionCookieName = "session"

	// NicknameAnonymous is the reserved nickname of anonymous players
	NicknameAnonymous = "Anonymous"
	// NicknameAutomated is the reserved nickname of the CPU identity
	NicknameAutomated = "CPU"

	// MinSecretLength is the minimum password length for registration
	MinSecretLength = 4

	minNicknameLength = 3
	maxNicknameLength = 20
)

// nicknamePattern requires a leading letter, then letters and digits
// optionally separated by single dashes, periods, underscores or spaces
var nicknamePattern = regexp.MustCompile(`^[A-Za-z]([-._ ]?[A-Za-z0-9]+)*$`)

// Session is the credential triple handed to the transport layer
type Session struct {
	Name    string
	Token   string
	Expires time.Time
}

// Config holds configuration for the registry
type Config struct {
	SessionLifetime time.Duration
}

// DefaultConfig returns default registry configuration
func DefaultConfig() Config {
	return Config{
		SessionLifetime: 7 * 24 * time.Hour,
	}
}

// Service handles player identity resolution and credentials
type Service struct {
	storage         storage.Storage
	clock           clock.Clock
	logger          *slog.Logger
	sessionLifetime time.Duration
}

// New creates a new registry Service
func New(store storage.Storage, clk clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionLifetime == 0 {
		cfg.SessionLifetime = DefaultConfig().SessionLifetime
	}
	return &Service{
		storage:         store,
		clock:           clk,
		logger:          logger.With(slog.String("component", "registry")),
		sessionLifetime: cfg.SessionLifetime,
	}
}

// ResolveCurrent resolves the player for the current request. An
// authenticated principal takes precedence and is lazily bound to a
// player on first sight. Failing that, a live session token resolves
// to its player. Failing both, a fresh anonymous player is created
// with a new session.
//
// The returned Session is non-nil only when a new session was started
// and must be handed to the transport layer.
func (s *Service) ResolveCurrent(ctx context.Context, principal, sessionToken string) (*model.Player, *Session, error) {
	if principal != "" {
		player, err := s.storage.GetPlayerByPrincipal(ctx, principal)
		if err == nil {
			return player, nil, nil
		}
		if !errors.Is(err, model.ErrPlayerNotFound) {
			return nil, nil, err
		}
		player = &model.Player{
			ID:        s.newPlayerID(),
			Kind:      model.IdentityAuthenticated,
			Principal: principal,
			Nickname:  nicknameForPrincipal(principal),
			CreatedAt: s.clock.Now(),
			UpdatedAt: s.clock.Now(),
		}
		if err := s.storage.SavePlayer(ctx, player); err != nil {
			return nil, nil, err
		}
		s.logger.Info("player created for principal", slog.String("player_id", string(player.ID)))
		return player, nil, nil
	}

	if sessionToken != "" {
		player, err := s.storage.GetPlayerBySession(ctx, sessionToken)
		if err == nil && player.Session == sessionToken && player.SessionLive(s.clock.Now()) {
			return player, nil, nil
		}
		if err != nil && !errors.Is(err, model.ErrPlayerNotFound) {
			return nil, nil, err
		}
	}

	player := &model.Player{
		ID:        s.newPlayerID(),
		Kind:      model.IdentityAnonymous,
		Nickname:  NicknameAnonymous,
		CreatedAt: s.clock.Now(),
		UpdatedAt: s.clock.Now(),
	}
	session := s.startSession(player)
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, nil, err
	}
	return player, session, nil
}

// Login authenticates a locally registered player by nickname and
// secret, and starts a new session
func (s *Service) Login(ctx context.Context, nickname, secret string) (*model.Player, *Session, error) {
	player, err := s.storage.GetPlayerByNickname(ctx, nickname)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, nil, fmt.Errorf("%w: no player with that nickname", model.ErrLogin)
		}
		return nil, nil, err
	}

	if player.Kind != model.IdentityRegistered {
		return nil, nil, fmt.Errorf("%w: cannot log in as that player", model.ErrLogin)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(player.PasswordHash), []byte(secret)); err != nil {
		return nil, nil, fmt.Errorf("%w: invalid password", model.ErrLogin)
	}

	session := s.startSession(player)
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, nil, err
	}
	return player, session, nil
}

// Register creates a new locally registered player. Only the bcrypt
// hash of the secret is stored.
func (s *Service) Register(ctx context.Context, nickname, secret string) (*model.Player, *Session, error) {
	if err := s.ValidateNickname(ctx, nickname); err != nil {
		return nil, nil, fmt.Errorf("%w: could not use nickname: %w", model.ErrRegister, err)
	}

	if len(secret) < MinSecretLength {
		return nil, nil, fmt.Errorf("%w: password should be at least %d characters long",
			model.ErrRegister, MinSecretLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	player := &model.Player{
		ID:           s.newPlayerID(),
		Kind:         model.IdentityRegistered,
		Nickname:     nickname,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
		UpdatedAt:    s.clock.Now(),
	}
	session := s.startSession(player)
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, nil, err
	}

	s.logger.Info("player registered", slog.String("player_id", string(player.ID)))
	return player, session, nil
}

// ValidateNickname checks a nickname against the reserved names, the
// allowed pattern, the length bounds and uniqueness
func (s *Service) ValidateNickname(ctx context.Context, nickname string) error {
	if nickname == NicknameAnonymous || nickname == NicknameAutomated {
		return fmt.Errorf("%w: %s is a reserved nickname", model.ErrPlayerName, nickname)
	}
	if len(nickname) < minNicknameLength {
		return fmt.Errorf("%w: nickname should be at least %d characters long",
			model.ErrPlayerName, minNicknameLength)
	}
	if len(nickname) > maxNicknameLength {
		return fmt.Errorf("%w: nickname must not be any longer than %d characters",
			model.ErrPlayerName, maxNicknameLength)
	}
	if !nicknamePattern.MatchString(nickname) {
		return fmt.Errorf("%w: nickname should start with a letter, followed by letters "+
			"and/or digits, optionally with dashes, periods, underscores or spaces inbetween",
			model.ErrPlayerName)
	}

	_, err := s.storage.GetPlayerByNickname(ctx, nickname)
	if err == nil {
		return fmt.Errorf("%w: nickname is already in use", model.ErrPlayerName)
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return err
	}
	return nil
}

// Rename changes a player's nickname. The registry only writes the
// player record; cached display names on the player's games are
// refreshed by the game controller, which owns the per-game locks.
func (s *Service) Rename(ctx context.Context, id model.PlayerID, nickname string) (*model.Player, error) {
	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	if nickname == player.Nickname {
		return player, nil
	}

	// An anonymous player may always fall back to the anonymous label
	if !(nickname == NicknameAnonymous && player.Kind == model.IdentityAnonymous) {
		if err := s.ValidateNickname(ctx, nickname); err != nil {
			return nil, err
		}
	}

	player.Nickname = nickname
	player.UpdatedAt = s.clock.Now()
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

// Players resolves a list of player IDs, preserving order
func (s *Service) Players(ctx context.Context, ids []model.PlayerID) ([]*model.Player, error) {
	players := make([]*model.Player, len(ids))
	for i, id := range ids {
		player, err := s.storage.GetPlayer(ctx, id)
		if err != nil {
			return nil, err
		}
		players[i] = player
	}
	return players, nil
}

// GetPlayer retrieves a player by ID
func (s *Service) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, id)
}

// SyncGameNames resynchronizes a game's cached display names, in the
// "nickname (wins)" form, from the current player records. The game is
// mutated, not persisted.
func (s *Service) SyncGameNames(ctx context.Context, game *model.Game) error {
	players, err := s.Players(ctx, game.Players)
	if err != nil {
		return err
	}
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.DisplayName()
	}
	game.PlayerNames = names
	return nil
}

// RecordWin credits the winner and debits every other seated player,
// applying the whole batch atomically
func (s *Service) RecordWin(ctx context.Context, winner model.PlayerID, seated []model.PlayerID) error {
	players, err := s.Players(ctx, seated)
	if err != nil {
		return err
	}
	now := s.clock.Now()
	for _, p := range players {
		if p.ID == winner {
			p.Wins++
		} else {
			p.Losses++
		}
		p.UpdatedAt = now
	}
	return s.storage.SavePlayers(ctx, players)
}

// RecordDraw credits a draw to every seated player atomically
func (s *Service) RecordDraw(ctx context.Context, seated []model.PlayerID) error {
	players, err := s.Players(ctx, seated)
	if err != nil {
		return err
	}
	now := s.clock.Now()
	for _, p := range players {
		p.Draws++
		p.UpdatedAt = now
	}
	return s.storage.SavePlayers(ctx, players)
}

// EndSession voids a player's session, logging them out
func (s *Service) EndSession(ctx context.Context, id model.PlayerID) error {
	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		return err
	}
	player.Session = ""
	player.SessionExpires = time.Time{}
	player.UpdatedAt = s.clock.Now()
	return s.storage.SavePlayer(ctx, player)
}

// startSession places a fresh session on the player and returns the
// credential triple. The caller persists the player.
func (s *Service) startSession(player *model.Player) *Session {
	player.Session = uuid.NewString()
	player.SessionExpires = s.clock.Now().Add(s.sessionLifetime)
	player.UpdatedAt = s.clock.Now()
	return &Session{
		Name:    SessionCookieName,
		Token:   player.Session,
		Expires: player.SessionExpires,
	}
}

func (s *Service) newPlayerID() model.PlayerID {
	return model.PlayerID("p-" + uuid.NewString())
}

// nicknameForPrincipal derives a default nickname from an external
// principal, mirroring how identity providers expose a local part
func nicknameForPrincipal(principal string) string {
	if i := strings.IndexByte(principal, '@'); i > 0 {
		return principal[:i]
	}
	return principal
}
