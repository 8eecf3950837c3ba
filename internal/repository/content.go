package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Krackerr154/glabs-website/internal/models"
	"github.com/lib/pq"
)

const recordColumns = `id, kind, slug, title, summary, content, tags, category, status, featured,
	github_url, live_url, published, published_at, created_at, updated_at`

// PostgresContentRepository implements record CRUD against a PostgreSQL database.
// Slug uniqueness is enforced by the records_kind_slug_key constraint.
type PostgresContentRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresContentRepository creates a new PostgresContentRepository using the provided *sql.DB.
func NewPostgresContentRepository(db *sql.DB) *PostgresContentRepository {
	return &PostgresContentRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.Record, error) {
	var (
		rec         models.Record
		publishedAt sql.NullTime
	)
	err := row.Scan(
		&rec.ID, &rec.Kind, &rec.Slug, &rec.Title, &rec.Summary, &rec.Content,
		pq.Array(&rec.Tags), &rec.Category, &rec.Status, &rec.Featured,
		&rec.GithubURL, &rec.LiveURL, &rec.Published, &publishedAt,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		rec.PublishedAt = &t
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	return &rec, nil
}

// Create inserts rec. A slug that already exists for the kind yields a
// *models.ValidationError on the "slug" field.
func (r *PostgresContentRepository) Create(ctx context.Context, rec models.Record) (*models.Record, error) {
	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO records (id, kind, slug, title, summary, content, tags, category, status, featured,
			github_url, live_url, published, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING `+recordColumns,
		rec.ID, rec.Kind, rec.Slug, rec.Title, rec.Summary, rec.Content, pq.Array(rec.Tags),
		rec.Category, rec.Status, rec.Featured, rec.GithubURL, rec.LiveURL, rec.Published,
		rec.PublishedAt, rec.CreatedAt, rec.UpdatedAt,
	)
	created, err := scanRecord(row)
	if err != nil {
		return nil, storageError("create record", "slug", err)
	}
	return created, nil
}

// Get fetches the record of kind whose slug or id equals slugOrID.
func (r *PostgresContentRepository) Get(ctx context.Context, kind models.Kind, slugOrID string) (*models.Record, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE kind = $1 AND (slug = $2 OR id::text = $2)`,
		kind, slugOrID,
	)
	rec, err := scanRecord(row)
	if err != nil {
		return nil, storageError("get record", "", err)
	}
	return rec, nil
}

// List returns the records of kind matching filter, newest first. Records
// with the same publish date are ordered by id.
func (r *PostgresContentRepository) List(ctx context.Context, kind models.Kind, filter models.ListFilter) ([]models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE kind = $1`
	args := []any{kind}
	if filter.Published != nil {
		args = append(args, *filter.Published)
		query += fmt.Sprintf(" AND published = $%d", len(args))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		query += fmt.Sprintf(" AND $%d = ANY(tags)", len(args))
	}
	query += ` ORDER BY COALESCE(published_at, created_at) DESC, id DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError("list records", "", err)
	}
	defer rows.Close()

	records := []models.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, storageError("scan record", "", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list records", "", err)
	}
	return records, nil
}

// Update replaces the editable fields of the record identified by rec.Kind
// and rec.ID. PublishedAt is stamped with now the first time the record is
// published and kept afterwards.
func (r *PostgresContentRepository) Update(ctx context.Context, rec models.Record, now time.Time) (*models.Record, error) {
	row := r.DB.QueryRowContext(ctx, `
		UPDATE records SET
			slug = $3, title = $4, summary = $5, content = $6, tags = $7, category = $8,
			status = $9, featured = $10, github_url = $11, live_url = $12, published = $13,
			published_at = CASE WHEN $13 THEN COALESCE(published_at, $14) ELSE published_at END,
			updated_at = $14
		WHERE kind = $1 AND id = $2
		RETURNING `+recordColumns,
		rec.Kind, rec.ID, rec.Slug, rec.Title, rec.Summary, rec.Content, pq.Array(rec.Tags),
		rec.Category, rec.Status, rec.Featured, rec.GithubURL, rec.LiveURL, rec.Published, now,
	)
	updated, err := scanRecord(row)
	if err != nil {
		return nil, storageError("update record", "slug", err)
	}
	return updated, nil
}

// Delete removes the record of kind with id, returning models.ErrNotFound
// when nothing was deleted.
func (r *PostgresContentRepository) Delete(ctx context.Context, kind models.Kind, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM records WHERE kind = $1 AND id = $2`, kind, id)
	if err != nil {
		return storageError("delete record", "", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageError("delete record", "", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Count returns the number of records of kind.
func (r *PostgresContentRepository) Count(ctx context.Context, kind models.Kind) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE kind = $1`, kind).Scan(&n); err != nil {
		return 0, storageError("count records", "", err)
	}
	return n, nil
}
