package http_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Krackerr154/glabs-website/internal/models"
)

// memUsers, memSessions and memRecords back the real services in router
// tests. They exist only in tests.

type memUsers struct {
	mu    sync.Mutex
	users map[string]models.User
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
	if m.users == nil {
		m.users = make(map[string]models.User)
	}
	m.users[u.Email] = u
	return &u, nil
}

func (m *memUsers) UpdatePassword(context.Context, string, string) error { return nil }

func (m *memUsers) List(context.Context) ([]models.User, error) { return nil, nil }

type memSessions struct {
	mu       sync.Mutex
	sessions map[string]models.Session
}

func (m *memSessions) Create(_ context.Context, s models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions == nil {
		m.sessions = make(map[string]models.Session)
	}
	m.sessions[s.Token] = s
	return nil
}

func (m *memSessions) Get(_ context.Context, token string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &s, nil
}

func (m *memSessions) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *memSessions) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

type memRecords struct {
	mu      sync.Mutex
	records []models.Record
	fail    bool
}

var errDown = fmt.Errorf("query: %w", models.ErrStorageUnavailable)

func (m *memRecords) Create(_ context.Context, rec models.Record) (*models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errDown
	}
	for _, r := range m.records {
		if r.Kind == rec.Kind && r.Slug == rec.Slug {
			return nil, models.NewValidationError("slug", "already in use")
		}
	}
	m.records = append(m.records, rec)
	return &rec, nil
}

func (m *memRecords) Get(_ context.Context, kind models.Kind, ref string) (*models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errDown
	}
	for _, r := range m.records {
		if r.Kind == kind && (r.Slug == ref || r.ID == ref) {
			return &r, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memRecords) List(_ context.Context, kind models.Kind, f models.ListFilter) ([]models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errDown
	}
	out := []models.Record{}
	for _, r := range m.records {
		if r.Kind != kind || (f.Published != nil && r.Published != *f.Published) {
			continue
		}
		if f.Tag != "" && !contains(r.Tags, f.Tag) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memRecords) Update(_ context.Context, rec models.Record, now time.Time) (*models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errDown
	}
	for i, r := range m.records {
		if r.Kind == rec.Kind && r.ID == rec.ID {
			rec.CreatedAt, rec.UpdatedAt, rec.PublishedAt = r.CreatedAt, now, r.PublishedAt
			if rec.Published && rec.PublishedAt == nil {
				rec.PublishedAt = &now
			}
			m.records[i] = rec
			return &rec, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memRecords) Delete(_ context.Context, kind models.Kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errDown
	}
	for i, r := range m.records {
		if r.Kind == kind && r.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (m *memRecords) Count(_ context.Context, kind models.Kind) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return 0, errDown
	}
	n := 0
	for _, r := range m.records {
		if r.Kind == kind {
			n++
		}
	}
	return n, nil
}

func contains(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

type fakePinger struct{ err error }

func (p *fakePinger) PingContext(context.Context) error { return p.err }

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
