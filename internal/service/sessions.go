package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Krackerr154/glabs-website/internal/models"
)

// DefaultSessionTTL is the lifetime of an issued session.
const DefaultSessionTTL = 7 * 24 * time.Hour

// tokenBytes is the amount of randomness in a session token (256 bits).
const tokenBytes = 32

// SessionRepository defines the durable session store.
type SessionRepository interface {
	// Create persists a session.
	Create(ctx context.Context, s models.Session) error
	// Get returns the session for token, or models.ErrNotFound when the
	// token is unknown or its user no longer exists.
	Get(ctx context.Context, token string) (*models.Session, error)
	// Delete removes the session; unknown tokens are not an error.
	Delete(ctx context.Context, token string) error
}

// SessionManager issues, validates and revokes session tokens. Every call
// goes to the repository; nothing is cached in memory.
type SessionManager struct {
	repo   SessionRepository
	ttl    time.Duration
	now    func() time.Time
	random io.Reader
}

// SessionOption configures a SessionManager.
type SessionOption func(*SessionManager)

// WithClock replaces the wall clock used for expiry decisions.
func WithClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) { m.now = now }
}

// WithTTL overrides DefaultSessionTTL.
func WithTTL(ttl time.Duration) SessionOption {
	return func(m *SessionManager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithRandom replaces crypto/rand as the token source.
func WithRandom(r io.Reader) SessionOption {
	return func(m *SessionManager) { m.random = r }
}

// NewSessionManager constructs a SessionManager over repo.
func NewSessionManager(repo SessionRepository, opts ...SessionOption) *SessionManager {
	m := &SessionManager{
		repo:   repo,
		ttl:    DefaultSessionTTL,
		now:    time.Now,
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the lifetime of issued sessions.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue creates and persists a new session for userID and returns its token.
func (m *SessionManager) Issue(ctx context.Context, userID string) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := io.ReadFull(m.random, buf); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	err := m.repo.Create(ctx, models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: m.now().Add(m.ttl),
	})
	if err != nil {
		return "", fmt.Errorf("inserting session: %w", err)
	}
	return token, nil
}

// Validate resolves token to its user id. Unknown and expired tokens yield
// models.ErrUnauthenticated; an expired row is deleted on the spot.
func (m *SessionManager) Validate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", models.ErrUnauthenticated
	}

	session, err := m.repo.Get(ctx, token)
	if errors.Is(err, models.ErrNotFound) {
		return "", models.ErrUnauthenticated
	}
	if err != nil {
		return "", err
	}

	if session.Expired(m.now()) {
		if err := m.repo.Delete(ctx, token); err != nil {
			return "", fmt.Errorf("deleting expired session: %w", err)
		}
		return "", models.ErrUnauthenticated
	}

	return session.UserID, nil
}

// Revoke deletes the session for token if it exists.
func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.repo.Delete(ctx, token); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
