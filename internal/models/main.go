// Package models defines the core data structures for users, sessions and
// content records.
package models

import "time"

// User represents the site administrator with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID string
	// Email is the login name of the user.
	Email string
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string
}

// Session is a persisted proof of a prior successful login.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Kind identifies one of the content record families.
type Kind string

const (
	// KindNote is a blog note.
	KindNote Kind = "note"
	// KindExperiment is a research write-up.
	KindExperiment Kind = "experiment"
	// KindProject is a portfolio project entry.
	KindProject Kind = "project"
)

// Kinds lists every content kind in display order.
var Kinds = []Kind{KindNote, KindExperiment, KindProject}

// Plural returns the URL segment used for the kind ("notes", "experiments", "projects").
func (k Kind) Plural() string {
	return string(k) + "s"
}

// Title returns a human readable label for the kind.
func (k Kind) Title() string {
	switch k {
	case KindNote:
		return "Notes"
	case KindExperiment:
		return "Experiments"
	case KindProject:
		return "Projects"
	}
	return string(k)
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindNote, KindExperiment, KindProject:
		return true
	}
	return false
}

// Project statuses accepted by the content store.
const (
	StatusPlanning   = "planning"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusArchived   = "archived"
)

// Record is a note, experiment or project.
type Record struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`
	// Slug is the unique URL-safe identifier within the kind.
	Slug  string `json:"slug"`
	Title string `json:"title"`
	// Summary is the note/project description or the experiment summary.
	Summary string `json:"summary"`
	// Content is the Markdown body.
	Content string `json:"content"`
	// Tags holds note tags or the project tech stack.
	Tags      []string `json:"tags"`
	Published bool     `json:"published"`

	// Category is used by notes only.
	Category string `json:"category,omitempty"`

	// Project-only fields.
	Status    string `json:"status,omitempty"`
	Featured  bool   `json:"featured,omitempty"`
	GithubURL string `json:"githubUrl,omitempty"`
	LiveURL   string `json:"liveUrl,omitempty"`

	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// RecordInput carries the editable fields of a record for create and update.
type RecordInput struct {
	Slug      string   `json:"slug"`
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	Published bool     `json:"published"`
	Category  string   `json:"category"`
	Status    string   `json:"status"`
	Featured  bool     `json:"featured"`
	GithubURL string   `json:"githubUrl"`
	LiveURL   string   `json:"liveUrl"`
}

// ListFilter narrows a record listing. Nil/empty fields do not filter.
type ListFilter struct {
	Published *bool
	Tag       string
}
