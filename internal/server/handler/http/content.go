package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/Krackerr154/glabs-website/internal/models"
)

// ContentService defines the content operations used by the handlers.
type ContentService interface {
	Create(ctx context.Context, kind models.Kind, in models.RecordInput) (*models.Record, error)
	Get(ctx context.Context, kind models.Kind, slugOrID string) (*models.Record, error)
	List(ctx context.Context, kind models.Kind, filter models.ListFilter) ([]models.Record, error)
	Update(ctx context.Context, kind models.Kind, id string, in models.RecordInput) (*models.Record, error)
	Delete(ctx context.Context, kind models.Kind, id string) error
	Count(ctx context.Context, kind models.Kind) (int, error)
}

// recordFromForm reads a RecordInput from a parsed admin form.
func recordFromForm(r *http.Request) models.RecordInput {
	var tags []string
	for _, t := range strings.Split(r.PostForm.Get("tags"), ",") {
		tags = append(tags, strings.TrimSpace(t))
	}
	return models.RecordInput{
		Title:     r.PostForm.Get("title"),
		Slug:      r.PostForm.Get("slug"),
		Summary:   r.PostForm.Get("summary"),
		Content:   r.PostForm.Get("content"),
		Tags:      tags,
		Published: r.PostForm.Get("published") == "true",
		Category:  r.PostForm.Get("category"),
		Status:    r.PostForm.Get("status"),
		Featured:  r.PostForm.Get("featured") == "true",
		GithubURL: r.PostForm.Get("githubUrl"),
		LiveURL:   r.PostForm.Get("liveUrl"),
	}
}

// inputFromRecord copies the editable fields of rec.
func inputFromRecord(rec *models.Record) models.RecordInput {
	return models.RecordInput{
		Title:     rec.Title,
		Slug:      rec.Slug,
		Summary:   rec.Summary,
		Content:   rec.Content,
		Tags:      rec.Tags,
		Published: rec.Published,
		Category:  rec.Category,
		Status:    rec.Status,
		Featured:  rec.Featured,
		GithubURL: rec.GithubURL,
		LiveURL:   rec.LiveURL,
	}
}
