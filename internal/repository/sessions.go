package repository

import (
	"context"
	"database/sql"

	"github.com/Krackerr154/glabs-website/internal/models"
)

// PostgresSessionRepository is the single durable session store.
type PostgresSessionRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresSessionRepository creates a new PostgresSessionRepository using the provided *sql.DB.
func NewPostgresSessionRepository(db *sql.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{DB: db}
}

// Create stores a new session row.
func (r *PostgresSessionRepository) Create(ctx context.Context, s models.Session) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		s.Token, s.UserID, s.ExpiresAt,
	)
	if err != nil {
		return storageError("create session", "", err)
	}
	return nil
}

// Get looks a session up by token. Sessions whose user no longer exists are
// reported as models.ErrNotFound.
func (r *PostgresSessionRepository) Get(ctx context.Context, token string) (*models.Session, error) {
	var s models.Session
	err := r.DB.QueryRowContext(ctx, `
		SELECT s.token, s.user_id, s.expires_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1`, token,
	).Scan(&s.Token, &s.UserID, &s.ExpiresAt)
	if err != nil {
		return nil, storageError("get session", "", err)
	}
	return &s, nil
}

// Delete removes the session with token. Deleting a missing token is not an error.
func (r *PostgresSessionRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return storageError("delete session", "", err)
	}
	return nil
}
