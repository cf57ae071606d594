package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizmatters/agent-builder/testcase-generator/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS test_cases (
	id             TEXT PRIMARY KEY,
	seq            BIGSERIAL,
	work_item_id   TEXT NOT NULL DEFAULT '',
	work_item_type TEXT NOT NULL DEFAULT '',
	title          TEXT NOT NULL DEFAULT '',
	test_step      TEXT NOT NULL DEFAULT '',
	step_action    TEXT NOT NULL DEFAULT '',
	step_expected  TEXT NOT NULL DEFAULT '',
	area_path      TEXT NOT NULL DEFAULT '',
	assigned_to    TEXT NOT NULL DEFAULT '',
	state          TEXT NOT NULL DEFAULT '',
	scenario_type  TEXT NOT NULL DEFAULT '',
	priority       TEXT NOT NULL DEFAULT '',
	environment    TEXT NOT NULL DEFAULT '',
	platforms      TEXT[] NOT NULL DEFAULT '{}',
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS test_cases_created_idx ON test_cases (created_at DESC, seq ASC);
`

const selectColumns = `id, work_item_id, work_item_type, title, test_step, step_action, step_expected,
	area_path, assigned_to, state, scenario_type, priority, environment, platforms, created_at, updated_at`

const listOrder = ` ORDER BY created_at DESC, seq ASC`

// PostgresStore keeps rows in the test_cases table.
type PostgresStore struct {
	pool *pgxpool.Pool
	opts options
}

// NewPostgresStore wraps an open pool. Call EnsureSchema before first use.
func NewPostgresStore(pool *pgxpool.Pool, opts ...Option) *PostgresStore {
	return &PostgresStore{pool: pool, opts: buildOptions(opts)}
}

// Connect opens a pool, retrying the initial ping while the database starts.
func Connect(ctx context.Context, dbURL string, attempts int, delay time.Duration) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	var err error

	for i := 0; i < attempts; i++ {
		pool, err = pgxpool.New(ctx, dbURL)
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				return pool, nil
			}
			pool.Close()
		}
		log.Printf("Waiting for database... (attempt %d/%d): %v", i+1, attempts, err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, err)
}

// EnsureSchema creates the table and index if they are missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, rows []models.TestCase) ([]models.TestCase, error) {
	now := s.opts.now().UTC().Truncate(time.Microsecond)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	out := make([]models.TestCase, len(rows))
	for i, tc := range rows {
		tc.ID = uuid.NewString()
		tc.CreatedAt = now
		tc.UpdatedAt = now
		tc.Platforms = append([]string{}, tc.Platforms...)
		out[i] = tc

		batch.Queue(`INSERT INTO test_cases (id, work_item_id, work_item_type, title, test_step, step_action,
			step_expected, area_path, assigned_to, state, scenario_type, priority, environment, platforms,
			created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			tc.ID, tc.WorkItemID, tc.WorkItemType, tc.Title, tc.TestStep, tc.StepAction,
			tc.StepExpected, tc.AreaPath, tc.AssignedTo, tc.State, tc.ScenarioType, tc.Priority,
			tc.Environment, tc.Platforms, tc.CreatedAt, tc.UpdatedAt)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("failed to insert test cases: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit test cases: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) List(ctx context.Context, filter Filter) ([]models.TestCase, error) {
	var where []string
	var args []any
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		where = append(where, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("scenario_type", filter.ScenarioType)
	add("state", filter.State)
	add("priority", filter.Priority)

	query := `SELECT ` + selectColumns + ` FROM test_cases`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += listOrder
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	return s.query(ctx, query, args...)
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.TestCase, error) {
	tc, err := scanTestCase(s.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM test_cases WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get test case: %w", err)
	}
	return tc, nil
}

func (s *PostgresStore) Update(ctx context.Context, id string, patch models.TestCaseUpdate) (*models.TestCase, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tc, err := scanTestCase(tx.QueryRow(ctx, `SELECT `+selectColumns+` FROM test_cases WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get test case: %w", err)
	}

	patch.Apply(tc)
	tc.UpdatedAt = s.opts.now().UTC().Truncate(time.Microsecond)

	_, err = tx.Exec(ctx, `UPDATE test_cases SET work_item_id = $2, title = $3, test_step = $4, step_action = $5,
		step_expected = $6, area_path = $7, assigned_to = $8, state = $9, scenario_type = $10, priority = $11,
		environment = $12, platforms = $13, updated_at = $14
		WHERE id = $1`,
		tc.ID, tc.WorkItemID, tc.Title, tc.TestStep, tc.StepAction, tc.StepExpected, tc.AreaPath,
		tc.AssignedTo, tc.State, tc.ScenarioType, tc.Priority, tc.Environment, tc.Platforms, tc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update test case: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit update: %w", err)
	}
	return tc, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM test_cases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete test case: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteAll(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM test_cases`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete test cases: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) Statistics(ctx context.Context) (*models.Statistics, error) {
	rows, err := s.pool.Query(ctx, `SELECT work_item_type, scenario_type, priority, state FROM test_cases`)
	if err != nil {
		return nil, fmt.Errorf("failed to query statistics: %w", err)
	}
	defer rows.Close()

	var all []models.TestCase
	for rows.Next() {
		var tc models.TestCase
		if err := rows.Scan(&tc.WorkItemType, &tc.ScenarioType, &tc.Priority, &tc.State); err != nil {
			return nil, fmt.Errorf("failed to scan statistics row: %w", err)
		}
		all = append(all, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statistics: %w", err)
	}
	return models.NewStatistics(all), nil
}

func (s *PostgresStore) FindByIDs(ctx context.Context, ids []string) ([]models.TestCase, error) {
	if len(ids) == 0 {
		return []models.TestCase{}, nil
	}
	return s.query(ctx, `SELECT `+selectColumns+` FROM test_cases WHERE id = ANY($1)`+listOrder, ids)
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]models.TestCase, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query test cases: %w", err)
	}
	defer rows.Close()

	out := []models.TestCase{}
	for rows.Next() {
		tc, err := scanTestCase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan test case: %w", err)
		}
		out = append(out, *tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating test cases: %w", err)
	}
	return out, nil
}

func scanTestCase(row pgx.Row) (*models.TestCase, error) {
	var tc models.TestCase
	err := row.Scan(
		&tc.ID,
		&tc.WorkItemID,
		&tc.WorkItemType,
		&tc.Title,
		&tc.TestStep,
		&tc.StepAction,
		&tc.StepExpected,
		&tc.AreaPath,
		&tc.AssignedTo,
		&tc.State,
		&tc.ScenarioType,
		&tc.Priority,
		&tc.Environment,
		&tc.Platforms,
		&tc.CreatedAt,
		&tc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	tc.CreatedAt = tc.CreatedAt.UTC()
	tc.UpdatedAt = tc.UpdatedAt.UTC()
	return &tc, nil
}

var _ Store = (*PostgresStore)(nil)
