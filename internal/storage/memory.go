package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/bizmatters/agent-builder/testcase-generator/internal/models"
)

// MemoryStore keeps rows in process memory. Contents are lost on restart.
type MemoryStore struct {
	mu   sync.RWMutex
	rows []models.TestCase // newest batch first
	opts options
}

// NewMemoryStore returns an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{opts: buildOptions(opts)}
}

func (s *MemoryStore) Insert(ctx context.Context, rows []models.TestCase) ([]models.TestCase, error) {
	now := s.opts.now().UTC()
	batch := make([]models.TestCase, len(rows))
	for i, tc := range rows {
		tc.ID = uuid.NewString()
		tc.CreatedAt = now
		tc.UpdatedAt = now
		tc.Platforms = append([]string(nil), tc.Platforms...)
		batch[i] = tc
	}

	s.mu.Lock()
	s.rows = append(append(make([]models.TestCase, 0, len(batch)+len(s.rows)), batch...), s.rows...)
	s.mu.Unlock()

	return copyRows(batch), nil
}

func (s *MemoryStore) List(ctx context.Context, filter Filter) ([]models.TestCase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.TestCase{}
	for _, tc := range s.rows {
		if !filter.matches(tc) {
			continue
		}
		out = append(out, tc)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return copyRows(out), nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.TestCase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	tc := copyRow(s.rows[i])
	return &tc, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, patch models.TestCaseUpdate) (*models.TestCase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	patch.Apply(&s.rows[i])
	s.rows[i].UpdatedAt = s.opts.now().UTC()

	tc := copyRow(s.rows[i])
	return &tc, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.rows = append(s.rows[:i], s.rows[i+1:]...)
	return nil
}

func (s *MemoryStore) DeleteAll(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.rows)
	s.rows = nil
	return n, nil
}

func (s *MemoryStore) Statistics(ctx context.Context) (*models.Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.NewStatistics(s.rows), nil
}

// FindByIDs returns the rows whose ids are listed, in List order. Unknown ids are skipped.
func (s *MemoryStore) FindByIDs(ctx context.Context, ids []string) ([]models.TestCase, error) {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.TestCase{}
	for _, tc := range s.rows {
		if _, ok := want[tc.ID]; ok {
			out = append(out, tc)
		}
	}
	return copyRows(out), nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) indexOf(id string) int {
	for i, tc := range s.rows {
		if tc.ID == id {
			return i
		}
	}
	return -1
}

func copyRow(tc models.TestCase) models.TestCase {
	tc.Platforms = append([]string(nil), tc.Platforms...)
	return tc
}

func copyRows(rows []models.TestCase) []models.TestCase {
	out := make([]models.TestCase, len(rows))
	for i, tc := range rows {
		out[i] = copyRow(tc)
	}
	return out
}

var _ Store = (*MemoryStore)(nil)
