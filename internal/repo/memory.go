package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"BERTool/internal/apperr"

	"github.com/google/uuid"
)

type user struct {
	id    int
	email string
	hash  string
}

// MemoryRepository keeps everything in process memory. It is used when no
// database is configured and in tests.
type MemoryRepository struct {
	mu          sync.RWMutex
	nextID      int
	users       map[string]user
	assessments map[string]Assessment
	now         func() time.Time
}

func NewMemory() *MemoryRepository {
	return &MemoryRepository{
		users:       make(map[string]user),
		assessments: make(map[string]Assessment),
		now:         time.Now,
	}
}

func (m *MemoryRepository) CreateUser(_ context.Context, login, email, password string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[login]; ok {
		return 0, apperr.Conflict("User already exists").WithOp("repo")
	}
	m.nextID++
	m.users[login] = user{id: m.nextID, email: email, hash: password}
	return m.nextID, nil
}

func (m *MemoryRepository) GetByLogin(_ context.Context, login string) (int, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[login]
	if !ok {
		return 0, "", apperr.NotFound("User not found").WithOp("repo")
	}
	return u.id, u.hash, nil
}

func (m *MemoryRepository) SaveAssessment(_ context.Context, a Assessment) (Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = m.now().UTC()
	m.assessments[a.ID] = a
	return a, nil
}

func (m *MemoryRepository) ListAssessments(_ context.Context, userID int) ([]Assessment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Assessment{}
	for _, a := range m.assessments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryRepository) GetAssessment(_ context.Context, userID int, id string) (Assessment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assessments[id]
	if !ok || a.UserID != userID {
		return Assessment{}, apperr.NotFound("Assessment not found").WithOp("repo")
	}
	return a, nil
}
