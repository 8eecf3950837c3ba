package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Krackerr154/glabs-website/internal/models"
)

// memSessions is an in-memory SessionRepository used only by tests.
type memSessions struct {
	mu       sync.Mutex
	sessions map[string]models.Session
	err      error
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: make(map[string]models.Session)}
}

func (m *memSessions) Create(_ context.Context, s models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sessions[s.Token] = s
	return nil
}

func (m *memSessions) Get(_ context.Context, token string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.sessions[token]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &s, nil
}

func (m *memSessions) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.sessions, token)
	return nil
}

func (m *memSessions) has(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[token]
	return ok
}

// memContent is an in-memory ContentRepository used only by tests.
type memContent struct {
	mu      sync.Mutex
	records []models.Record
}

func (m *memContent) Create(_ context.Context, rec models.Record) (*models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.Kind == rec.Kind && r.Slug == rec.Slug {
			return nil, models.NewValidationError("slug", "already in use")
		}
	}
	m.records = append(m.records, rec)
	return &rec, nil
}

func (m *memContent) Get(_ context.Context, kind models.Kind, slugOrID string) (*models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.Kind == kind && (r.Slug == slugOrID || r.ID == slugOrID) {
			return &r, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memContent) List(_ context.Context, kind models.Kind, filter models.ListFilter) ([]models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Record{}
	for _, r := range m.records {
		if r.Kind != kind {
			continue
		}
		if filter.Published != nil && r.Published != *filter.Published {
			continue
		}
		if filter.Tag != "" && !hasTag(r.Tags, filter.Tag) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return sortKey(out[i]).After(sortKey(out[j]))
	})
	return out, nil
}

func (m *memContent) Update(_ context.Context, rec models.Record, now time.Time) (*models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.records {
		if r.Kind != rec.Kind || r.ID != rec.ID {
			continue
		}
		for _, other := range m.records {
			if other.ID != rec.ID && other.Kind == rec.Kind && other.Slug == rec.Slug {
				return nil, models.NewValidationError("slug", "already in use")
			}
		}
		rec.CreatedAt = r.CreatedAt
		rec.UpdatedAt = now
		rec.PublishedAt = r.PublishedAt
		if rec.Published && rec.PublishedAt == nil {
			rec.PublishedAt = &now
		}
		m.records[i] = rec
		return &rec, nil
	}
	return nil, models.ErrNotFound
}

func (m *memContent) Delete(_ context.Context, kind models.Kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.records {
		if r.Kind == kind && r.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (m *memContent) Count(_ context.Context, kind models.Kind) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.records {
		if r.Kind == kind {
			n++
		}
	}
	return n, nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func sortKey(r models.Record) time.Time {
	if r.PublishedAt != nil {
		return *r.PublishedAt
	}
	return r.CreatedAt
}

// memUsers is an in-memory UserRepository used only by tests.
type memUsers struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]models.User)}
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) Upsert(_ context.Context, u models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.users[u.Email]; ok {
		u.ID = existing.ID
	}
	m.users[u.Email] = u
	return &u, nil
}

func (m *memUsers) UpdatePassword(_ context.Context, email, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return models.ErrNotFound
	}
	u.PasswordHash = hash
	m.users[email] = u
	return nil
}

func (m *memUsers) List(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}
