package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/mnkgame-go/internal/api/apierr"
	"github.com/mcoot/mnkgame-go/internal/model"
	"github.com/mcoot/mnkgame-go/internal/services/registry"
)

type contextKey string

const playerContextKey contextKey = "player"

// PrincipalHeader carries an externally authenticated principal, set by
// a trusted reverse proxy in front of the server
const PrincipalHeader = "X-Auth-Principal"

// Session creates identity resolution middleware. Every request resolves
// to a player: an authenticated principal, a live session, or a fresh
// anonymous player whose new session cookie is set on the response.
func Session(reg *registry.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := r.Header.Get(PrincipalHeader)
			token := extractToken(r)

			player, session, err := reg.ResolveCurrent(r.Context(), principal, token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}
			if session != nil {
				SetSessionCookie(w, session)
			}

			ctx := context.WithValue(r.Context(), playerContextKey, player)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SetSessionCookie transports the registry's credential triple to the client
func SetSessionCookie(w http.ResponseWriter, session *registry.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.Name,
		Value:    session.Token,
		Expires:  session.Expires,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie on the client
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     registry.SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// extractToken extracts the session token from the request
func extractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie(registry.SessionCookieName)
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetPlayer returns the resolved player from the request context
func GetPlayer(ctx context.Context) *model.Player {
	player, _ := ctx.Value(playerContextKey).(*model.Player)
	return player
}

// MustGetPlayer returns the resolved player or panics
func MustGetPlayer(ctx context.Context) *model.Player {
	player := GetPlayer(ctx)
	if player == nil {
		panic("no player in context - session middleware not applied?")
	}
	return player
}
