// Package middleware provides HTTP middlewares for session authentication,
// request logging and metrics.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Krackerr154/glabs-website/internal/models"
	"go.uber.org/zap"
)

// CookieName is the only cookie that carries a session token.
const CookieName = "session"

// LoginPath is where unauthenticated page requests are sent.
const LoginPath = "/admin/login"

type ctxKey string

const userKey ctxKey = "user"

// SessionValidator resolves a session token to a user id.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (string, error)
}

// Gate guards protected routes with the session cookie.
type Gate struct {
	Sessions SessionValidator
	Log      *zap.Logger

	// Secure is copied onto cookies the gate clears.
	Secure bool
}

// RequireSession returns the user id behind the request's session cookie.
// A missing cookie and an invalid token both yield models.ErrUnauthenticated;
// any other error means the session store could not be consulted.
func (g *Gate) RequireSession(r *http.Request) (string, error) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return "", models.ErrUnauthenticated
	}
	return g.Sessions.Validate(r.Context(), c.Value)
}

// PageGuard redirects unauthenticated requests to the login page.
func (g *Gate) PageGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := g.RequireSession(r)
		switch {
		case errors.Is(err, models.ErrUnauthenticated):
			if _, cerr := r.Cookie(CookieName); cerr == nil {
				ClearSessionCookie(w, g.Secure)
			}
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		case err != nil:
			g.logger().Error("session validation failed", zap.Error(err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// APIGuard answers unauthenticated requests with 401 and a JSON body.
func (g *Gate) APIGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := g.RequireSession(r)
		switch {
		case errors.Is(err, models.ErrUnauthenticated):
			writeJSONError(w, http.StatusUnauthorized, "unauthenticated")
			return
		case err != nil:
			g.logger().Error("session validation failed", zap.Error(err))
			writeJSONError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func (g *Gate) logger() *zap.Logger {
	if g.Log == nil {
		return zap.NewNop()
	}
	return g.Log
}

// WithUserID stores the authenticated user id in ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey, userID)
}

// GetUserIDFromContext extracts the authenticated user id from the request
// context. Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// SetSessionCookie writes the session cookie for token.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie in the browser.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
