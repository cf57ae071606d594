// Package storage persists generated test case rows.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/bizmatters/agent-builder/testcase-generator/internal/models"
)

// ErrNotFound is returned when no row has the requested id.
var ErrNotFound = errors.New("test case not found")

// Filter narrows List results. Empty fields match everything; Limit <= 0 means no limit.
type Filter struct {
	ScenarioType string
	State        string
	Priority     string
	Limit        int
}

func (f Filter) matches(tc models.TestCase) bool {
	return (f.ScenarioType == "" || tc.ScenarioType == f.ScenarioType) &&
		(f.State == "" || tc.State == f.State) &&
		(f.Priority == "" || tc.Priority == f.Priority)
}

// Store is implemented by MemoryStore and PostgresStore.
//
// Rows inserted together share one creation timestamp. List returns the most
// recent batch first and keeps insertion order within a batch.
type Store interface {
	Insert(ctx context.Context, rows []models.TestCase) ([]models.TestCase, error)
	List(ctx context.Context, filter Filter) ([]models.TestCase, error)
	Get(ctx context.Context, id string) (*models.TestCase, error)
	Update(ctx context.Context, id string, patch models.TestCaseUpdate) (*models.TestCase, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int, error)
	Statistics(ctx context.Context) (*models.Statistics, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.TestCase, error)
	Ping(ctx context.Context) error
}

type options struct {
	now func() time.Time
}

// Option configures a store.
type Option func(*options)

// WithClock sets the time source used for createdAt and updatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
