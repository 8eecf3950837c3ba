package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/Krackerr154/glabs-website/internal/models"
	"github.com/google/uuid"
)

// ContentRepository defines the persistence operations needed by the ContentService.
type ContentRepository interface {
	// Create inserts a record; duplicate slugs yield a *models.ValidationError.
	Create(ctx context.Context, rec models.Record) (*models.Record, error)
	// Get fetches a record by slug or id.
	Get(ctx context.Context, kind models.Kind, slugOrID string) (*models.Record, error)
	// List returns records matching filter, newest first.
	List(ctx context.Context, kind models.Kind, filter models.ListFilter) ([]models.Record, error)
	// Update replaces the editable fields of an existing record.
	Update(ctx context.Context, rec models.Record, now time.Time) (*models.Record, error)
	// Delete removes a record or returns models.ErrNotFound.
	Delete(ctx context.Context, kind models.Kind, id string) error
	// Count returns the number of records of kind.
	Count(ctx context.Context, kind models.Kind) (int, error)
}

// ContentService implements CRUD for notes, experiments and projects. It
// performs no authorization; callers gate mutations behind a session.
type ContentService struct {
	repo  ContentRepository
	now   func() time.Time
	newID func() string
}

// NewContentService constructs a ContentService with the provided ContentRepository.
func NewContentService(repo ContentRepository) *ContentService {
	return &ContentService{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// Create validates input and stores a new record of kind.
func (s *ContentService) Create(ctx context.Context, kind models.Kind, in models.RecordInput) (*models.Record, error) {
	rec, err := normalize(kind, in)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rec.ID = s.newID()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if rec.Published {
		rec.PublishedAt = &now
	}
	return s.repo.Create(ctx, *rec)
}

// Get returns the record of kind identified by slug or id.
func (s *ContentService) Get(ctx context.Context, kind models.Kind, slugOrID string) (*models.Record, error) {
	if !kind.Valid() || slugOrID == "" {
		return nil, models.ErrNotFound
	}
	return s.repo.Get(ctx, kind, slugOrID)
}

// List returns the records of kind that match filter.
func (s *ContentService) List(ctx context.Context, kind models.Kind, filter models.ListFilter) ([]models.Record, error) {
	if !kind.Valid() {
		return nil, models.NewValidationError("kind", "unknown kind")
	}
	filter.Tag = strings.TrimSpace(filter.Tag)
	return s.repo.List(ctx, kind, filter)
}

// Update validates input and replaces the record of kind with id.
func (s *ContentService) Update(ctx context.Context, kind models.Kind, id string, in models.RecordInput) (*models.Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}
	rec, err := normalize(kind, in)
	if err != nil {
		return nil, err
	}
	rec.ID = id
	return s.repo.Update(ctx, *rec, s.now())
}

// Delete removes the record of kind with id. Unknown or malformed ids
// yield models.ErrNotFound.
func (s *ContentService) Delete(ctx context.Context, kind models.Kind, id string) error {
	if _, err := uuid.Parse(id); err != nil || !kind.Valid() {
		return models.ErrNotFound
	}
	return s.repo.Delete(ctx, kind, id)
}

// Count returns the number of records of kind.
func (s *ContentService) Count(ctx context.Context, kind models.Kind) (int, error) {
	return s.repo.Count(ctx, kind)
}

// normalize trims and validates in, dropping fields that do not belong to kind.
func normalize(kind models.Kind, in models.RecordInput) (*models.Record, error) {
	if !kind.Valid() {
		return nil, models.NewValidationError("kind", "unknown kind")
	}

	rec := &models.Record{
		Kind:      kind,
		Title:     strings.TrimSpace(in.Title),
		Summary:   strings.TrimSpace(in.Summary),
		Content:   strings.TrimSpace(in.Content),
		Tags:      cleanTags(in.Tags),
		Published: in.Published,
	}
	if rec.Title == "" {
		return nil, models.NewValidationError("title", "required")
	}
	if rec.Content == "" {
		return nil, models.NewValidationError("content", "required")
	}

	rec.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	if rec.Slug == "" {
		rec.Slug = Slugify(rec.Title)
	}
	if rec.Slug == "" {
		return nil, models.NewValidationError("slug", "required")
	}
	if !ValidSlug(rec.Slug) {
		return nil, models.NewValidationError("slug", "must contain only lowercase letters, digits and single dashes")
	}

	switch kind {
	case models.KindNote:
		rec.Category = strings.TrimSpace(in.Category)
	case models.KindProject:
		rec.Status = strings.TrimSpace(in.Status)
		if rec.Status == "" {
			rec.Status = models.StatusInProgress
		}
		if !validStatus(rec.Status) {
			return nil, models.NewValidationError("status", "must be one of planning, in-progress, completed, archived")
		}
		rec.Featured = in.Featured
		var err error
		if rec.GithubURL, err = cleanURL("githubUrl", in.GithubURL); err != nil {
			return nil, err
		}
		if rec.LiveURL, err = cleanURL("liveUrl", in.LiveURL); err != nil {
			return nil, err
		}
	}

	return rec, nil
}

func validStatus(status string) bool {
	switch status {
	case models.StatusPlanning, models.StatusInProgress, models.StatusCompleted, models.StatusArchived:
		return true
	}
	return false
}

func cleanURL(field, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", models.NewValidationError(field, "must be an absolute http(s) URL")
	}
	return u.String(), nil
}

// cleanTags trims tags, drops empty ones and removes duplicates keeping the
// first occurrence.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
