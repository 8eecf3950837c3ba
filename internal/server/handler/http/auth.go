// Package http provides the HTTP handlers of the site: public pages, the
// admin back-office, the JSON content API and the login flow.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Krackerr154/glabs-website/internal/middleware"
	"github.com/Krackerr154/glabs-website/internal/models"
	"go.uber.org/zap"
)

// CredentialVerifier checks an email/password pair.
type CredentialVerifier interface {
	// VerifyCredentials returns the user id or models.ErrInvalidCredentials.
	VerifyCredentials(ctx context.Context, email, password string) (string, error)
}

// SessionIssuer creates and revokes session tokens.
type SessionIssuer interface {
	Issue(ctx context.Context, userID string) (string, error)
	Revoke(ctx context.Context, token string) error
	TTL() time.Duration
}

// AuthHandler handles the admin login and logout flow.
type AuthHandler struct {
	Credentials CredentialVerifier
	Sessions    SessionIssuer
	Views       *Views
	Metrics     *middleware.Metrics
	Log         *zap.Logger

	// SecureCookies sets the Secure attribute on the session cookie.
	SecureCookies bool
}

type loginPage struct {
	Email string
	Error string
}

// invalidLogin is shown for every failed attempt, whichever part was wrong.
const invalidLogin = "Invalid email or password."

// LoginForm handles GET /admin/login.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	render(w, h.Views, loggerOrNop(h.Log), http.StatusOK, "login.html", "Log in", false, loginPage{})
}

// Login handles POST /admin/login. On success it issues a session, sets
// the cookie and redirects to the dashboard; on failure it re-renders the
// form with a generic message.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := loggerOrNop(h.Log)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		render(w, h.Views, log, http.StatusBadRequest, "login.html", "Log in", false, loginPage{Error: "Invalid form submission."})
		return
	}
	email := r.PostForm.Get("email")
	password := r.PostForm.Get("password")

	userID, err := h.Credentials.VerifyCredentials(r.Context(), email, password)
	if errors.Is(err, models.ErrInvalidCredentials) {
		h.Metrics.LoginAttempt(middleware.LoginFailure)
		log.Info("login rejected")
		render(w, h.Views, log, http.StatusUnauthorized, "login.html", "Log in", false, loginPage{Email: email, Error: invalidLogin})
		return
	}
	if err != nil {
		h.Metrics.LoginAttempt(middleware.LoginError)
		renderError(w, h.Views, log, false, err)
		return
	}

	token, err := h.Sessions.Issue(r.Context(), userID)
	if err != nil {
		h.Metrics.LoginAttempt(middleware.LoginError)
		renderError(w, h.Views, log, false, err)
		return
	}

	h.Metrics.LoginAttempt(middleware.LoginSuccess)
	log.Info("login succeeded", zap.String("user_id", userID))
	middleware.SetSessionCookie(w, token, h.Sessions.TTL(), h.SecureCookies)
	http.Redirect(w, r, "/admin", http.StatusFound)
}

// Logout handles POST /admin/logout: revokes the current session, clears
// the cookie and redirects to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(middleware.CookieName); err == nil {
		if err := h.Sessions.Revoke(r.Context(), c.Value); err != nil {
			renderError(w, h.Views, loggerOrNop(h.Log), true, err)
			return
		}
	}
	middleware.ClearSessionCookie(w, h.SecureCookies)
	http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
}
