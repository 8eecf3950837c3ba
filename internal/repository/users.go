package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Krackerr154/glabs-website/internal/models"
)

// PostgresUserRepository persists administrator credentials in PostgreSQL.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the given database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// GetByEmail returns the user with exactly the given email, or
// models.ErrNotFound.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT id, email, password_hash FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash)
	if err != nil {
		return nil, storageError("get user", "", err)
	}
	return &u, nil
}

// Upsert inserts the user, or replaces the password hash of the user that
// already owns the email. The stored user id is returned in the result.
func (r *PostgresUserRepository) Upsert(ctx context.Context, user models.User) (*models.User, error) {
	err := r.DB.QueryRowContext(
		ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash, updated_at = now()
		RETURNING id`,
		user.ID, user.Email, user.PasswordHash,
	).Scan(&user.ID)
	if err != nil {
		return nil, storageError("upsert user", "", err)
	}
	return &user, nil
}

// UpdatePassword replaces the password hash of the user with email.
// It returns models.ErrNotFound when no such user exists.
func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	res, err := r.DB.ExecContext(
		ctx,
		`UPDATE users SET password_hash = $1, updated_at = now() WHERE email = $2`,
		passwordHash, email,
	)
	if err != nil {
		return storageError("update password", "", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageError("update password", "", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// List returns every user ordered by email.
func (r *PostgresUserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, email, password_hash FROM users ORDER BY email`)
	if err != nil {
		return nil, storageError("list users", "", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash); err != nil {
			return nil, fmt.Errorf("scan: %w: %w", models.ErrStorageUnavailable, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list users", "", err)
	}
	return users, nil
}
