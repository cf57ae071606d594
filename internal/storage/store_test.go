package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizmatters/agent-builder/testcase-generator/internal/models"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

// Now advances one second per call.
func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func header(title, scenarioType string) models.TestCase {
	return models.TestCase{
		WorkItemType: models.WorkItemTypeTestCase,
		Title:        title,
		AreaPath:     "Subscription/Billing/Data",
		AssignedTo:   "Unassigned",
		State:        "New",
		ScenarioType: scenarioType,
		Priority:     "High",
		Environment:  "Testing",
		Platforms:    []string{"Web"},
	}
}

func detail(step, action, scenarioType string) models.TestCase {
	return models.TestCase{
		TestStep:     step,
		StepAction:   action,
		StepExpected: "The system should respond.",
		State:        "New",
		ScenarioType: scenarioType,
		Priority:     "High",
		Platforms:    []string{"Web"},
	}
}

func titles(rows []models.TestCase) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		if r.Title != "" {
			out[i] = r.Title
		} else {
			out[i] = r.StepAction
		}
	}
	return out
}

// runStoreContract exercises the behavior every Store must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T, clock *stepClock) Store) {
	ctx := context.Background()

	t.Run("insert_assigns_ids_and_batch_timestamp", func(t *testing.T) {
		store := newStore(t, newStepClock())
		saved, err := store.Insert(ctx, []models.TestCase{header("Verify A", "Positive"), detail("1", "Open", "Positive")})
		require.NoError(t, err)
		require.Len(t, saved, 2)

		assert.NotEmpty(t, saved[0].ID)
		assert.NotEqual(t, saved[0].ID, saved[1].ID)
		assert.Equal(t, saved[0].CreatedAt, saved[1].CreatedAt)
		assert.Equal(t, saved[0].CreatedAt, saved[0].UpdatedAt)
	})

	t.Run("list_newest_batch_first", func(t *testing.T) {
		store := newStore(t, newStepClock())
		_, err := store.Insert(ctx, []models.TestCase{header("Verify first", "Positive"), detail("1", "First step", "Positive")})
		require.NoError(t, err)
		_, err = store.Insert(ctx, []models.TestCase{header("Verify second", "Negative"), detail("1", "Second step", "Negative")})
		require.NoError(t, err)

		rows, err := store.List(ctx, Filter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Verify second", "Second step", "Verify first", "First step"}, titles(rows))
	})

	t.Run("list_filters", func(t *testing.T) {
		store := newStore(t, newStepClock())
		low := header("Verify low", "Edge")
		low.Priority = "Low"
		_, err := store.Insert(ctx, []models.TestCase{header("Verify pos", "Positive"), header("Verify neg", "Negative"), low})
		require.NoError(t, err)

		tests := []struct {
			name   string
			filter Filter
			want   []string
		}{
			{name: "all", filter: Filter{}, want: []string{"Verify pos", "Verify neg", "Verify low"}},
			{name: "scenario_type", filter: Filter{ScenarioType: "Negative"}, want: []string{"Verify neg"}},
			{name: "priority", filter: Filter{Priority: "Low"}, want: []string{"Verify low"}},
			{name: "state_and_type", filter: Filter{State: "New", ScenarioType: "Edge"}, want: []string{"Verify low"}},
			{name: "limit", filter: Filter{Limit: 2}, want: []string{"Verify pos", "Verify neg"}},
			{name: "no_match", filter: Filter{State: "Closed"}, want: []string{}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rows, err := store.List(ctx, tt.filter)
				require.NoError(t, err)
				assert.Equal(t, tt.want, titles(rows))
			})
		}
	})

	t.Run("get_update_delete", func(t *testing.T) {
		store := newStore(t, newStepClock())
		saved, err := store.Insert(ctx, []models.TestCase{header("Verify editable", "Positive")})
		require.NoError(t, err)
		id := saved[0].ID

		got, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Verify editable", got.Title)

		title := "Verify edited"
		state := "Ready"
		updated, err := store.Update(ctx, id, models.TestCaseUpdate{Title: &title, State: &state})
		require.NoError(t, err)
		assert.Equal(t, id, updated.ID)
		assert.Equal(t, "Verify edited", updated.Title)
		assert.Equal(t, "Ready", updated.State)
		assert.Equal(t, "High", updated.Priority, "unset fields are kept")
		assert.Equal(t, saved[0].CreatedAt, updated.CreatedAt)
		assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

		require.NoError(t, store.Delete(ctx, id))
		_, err = store.Get(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing_ids", func(t *testing.T) {
		store := newStore(t, newStepClock())
		missing := "00000000-0000-0000-0000-000000000000"

		_, err := store.Get(ctx, missing)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = store.Update(ctx, missing, models.TestCaseUpdate{})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, store.Delete(ctx, missing), ErrNotFound)
	})

	t.Run("find_by_ids_and_delete_all", func(t *testing.T) {
		store := newStore(t, newStepClock())
		saved, err := store.Insert(ctx, []models.TestCase{header("Verify one", "Positive"), header("Verify two", "Positive"), header("Verify three", "Positive")})
		require.NoError(t, err)

		found, err := store.FindByIDs(ctx, []string{saved[2].ID, "unknown", saved[0].ID})
		require.NoError(t, err)
		assert.Equal(t, []string{"Verify one", "Verify three"}, titles(found))

		found, err = store.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, found)

		n, err := store.DeleteAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		rows, err := store.List(ctx, Filter{})
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("statistics", func(t *testing.T) {
		store := newStore(t, newStepClock())
		_, err := store.Insert(ctx, []models.TestCase{
			header("Verify a", "Positive"),
			detail("1", "Step", "Positive"),
			detail("2", "Step", "Positive"),
			header("Verify b", "Negative"),
			detail("1", "Step", "Negative"),
		})
		require.NoError(t, err)

		stats, err := store.Statistics(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, stats.Total)
		assert.Equal(t, 2, stats.HeaderCount)
		assert.Equal(t, 3, stats.StepCount)
		assert.Equal(t, map[string]int{"Positive": 3, "Negative": 2}, stats.ByScenarioType)
		assert.Equal(t, map[string]int{"High": 5}, stats.ByPriority)
		assert.Equal(t, map[string]int{"New": 5}, stats.ByState)
	})

	t.Run("ping", func(t *testing.T) {
		store := newStore(t, newStepClock())
		assert.NoError(t, store.Ping(ctx))
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T, clock *stepClock) Store {
		return NewMemoryStore(WithClock(clock.Now))
	})
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	saved, err := store.Insert(ctx, []models.TestCase{header("Verify copy", "Positive")})
	require.NoError(t, err)

	saved[0].Platforms[0] = "mutated"
	rows, err := store.List(ctx, Filter{})
	require.NoError(t, err)
	rows[0].Title = "mutated"

	got, err := store.Get(ctx, saved[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Verify copy", got.Title)
	assert.Equal(t, []string{"Web"}, got.Platforms)
}

func TestMemoryStore_ConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Insert(ctx, []models.TestCase{header("Verify", "Positive"), detail("1", "Step", "Positive")})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stats, err := store.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, stats.Total)
}
