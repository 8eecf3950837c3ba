// Package repository provides PostgreSQL persistence for users, sessions
// and content records.
package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Krackerr154/glabs-website/internal/models"
	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// storageError maps a database error onto the models error taxonomy.
// sql.ErrNoRows becomes ErrNotFound, a unique violation becomes a
// ValidationError on field, and anything else is ErrStorageUnavailable.
func storageError(op, field string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	var pqErr *pq.Error
	if field != "" && errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return models.NewValidationError(field, "already exists")
	}
	return fmt.Errorf("%s: %w: %w", op, models.ErrStorageUnavailable, err)
}
