package question

import (
	"context"
	"sort"
	"sync"

	"github.com/pkarhu/deduction-api/internal/domain"
)

// memrepo is a development-only in-memory repository used when no database
// is configured, and by tests.
type memrepo struct {
	mu        sync.RWMutex
	questions map[string]domain.Question
	stats     map[string]int64
}

func NewMemoryRepository() Repository {
	return &memrepo{
		questions: make(map[string]domain.Question),
		stats:     make(map[string]int64),
	}
}

func (m *memrepo) GetByStage(ctx context.Context, stage int) (*domain.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var hits []domain.Question
	for _, q := range m.questions {
		if q.Stage == stage {
			hits = append(hits, q)
		}
	}
	if len(hits) == 0 {
		return nil, nil
	}
	// Deterministic pick, matching the ORDER BY id of the DB repository.
	sort.Slice(hits, func(i, j int) bool { return hits[i].ID < hits[j].ID })
	q := hits[0]
	return &q, nil
}

func (m *memrepo) Import(ctx context.Context, questions []domain.Question, clear bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if clear {
		m.questions = make(map[string]domain.Question)
	}
	for _, q := range questions {
		m.questions[q.ID] = q
	}
	return nil
}

func (m *memrepo) IncrementStat(ctx context.Context, key string, delta int64) error {
	m.mu.Lock()
	m.stats[key] += delta
	m.mu.Unlock()
	return nil
}

// Stat is a test helper exposing the current counter value.
func (m *memrepo) Stat(key string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats[key]
}

func (m *memrepo) Close() error { return nil }
