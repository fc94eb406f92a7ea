// Package testutil provides an in-memory repository for service and handler tests.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/IEC2025/UeabInnovationHub-sub000/internal/model"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/repo"
)

// MemoryRepository mirrors the Postgres repository's semantics: ids from a
// sequence, newest-first listings, case-insensitive search, unique emails.
type MemoryRepository struct {
	mu sync.Mutex

	regs     []model.Registration
	contacts []model.ContactMessage
	subs     []model.NewsletterSubscriber
	nextID   int64

	// Err, when set, is returned by every operation.
	Err error
}

var _ repo.Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

func (m *MemoryRepository) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *MemoryRepository) CreateRegistration(_ context.Context, reg *model.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	reg.ID = m.id()
	m.regs = append(m.regs, *reg)
	return nil
}

func (m *MemoryRepository) ListRegistrations(_ context.Context, f model.RegistrationFilter) ([]model.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]model.Registration, 0, len(m.regs))
	for _, r := range m.regs {
		if q != "" &&
			!strings.Contains(strings.ToLower(r.FullName), q) &&
			!strings.Contains(strings.ToLower(r.OrganizationName), q) &&
			!strings.Contains(strings.ToLower(r.Email), q) {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.Type != "" && r.RegistrationType != f.Type {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.After(out[j].SubmittedAt)
		}
		return out[i].ID > out[j].ID
	})
	return page(out, f.Limit, f.Offset), nil
}

func (m *MemoryRepository) GetRegistrationByID(_ context.Context, id int64) (*model.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, r := range m.regs {
		if r.ID == id {
			reg := r
			return &reg, nil
		}
	}
	return nil, repo.ErrRegistrationNotFound
}

func (m *MemoryRepository) UpdateRegistrationStatus(_ context.Context, id int64, status model.Status) (*model.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.regs {
		if m.regs[i].ID == id {
			m.regs[i].Status = status
			reg := m.regs[i]
			return &reg, nil
		}
	}
	return nil, repo.ErrRegistrationNotFound
}

func (m *MemoryRepository) CreateContactMessage(_ context.Context, c *model.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	c.ID = m.id()
	c.IsRead = false
	m.contacts = append(m.contacts, *c)
	return nil
}

func (m *MemoryRepository) ListContactMessages(_ context.Context, f model.ContactFilter) ([]model.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]model.ContactMessage, 0, len(m.contacts))
	for _, c := range m.contacts {
		if f.UnreadOnly && c.IsRead {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return page(out, f.Limit, f.Offset), nil
}

func (m *MemoryRepository) MarkContactMessageRead(_ context.Context, id int64) (*model.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.contacts {
		if m.contacts[i].ID == id {
			m.contacts[i].IsRead = true
			c := m.contacts[i]
			return &c, nil
		}
	}
	return nil, repo.ErrContactMessageNotFound
}

func (m *MemoryRepository) CreateNewsletterSubscriber(_ context.Context, s *model.NewsletterSubscriber) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, existing := range m.subs {
		if existing.Email == s.Email {
			return repo.ErrDuplicateSubscriber
		}
	}
	s.ID = m.id()
	m.subs = append(m.subs, *s)
	return nil
}

func (m *MemoryRepository) ListNewsletterSubscribers(_ context.Context) ([]model.NewsletterSubscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]model.NewsletterSubscriber, len(m.subs))
	for i := range m.subs {
		out[len(m.subs)-1-i] = m.subs[i]
	}
	return out, nil
}

func (m *MemoryRepository) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Err
}

func (m *MemoryRepository) MigrateUp(string) error   { return nil }
func (m *MemoryRepository) MigrateDown(string) error { return nil }

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
