package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/bizmatters/agent-builder/testcase-generator/internal/config"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/generation"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/storage"
)

var seedMetadata = generation.Metadata{
	AreaPath:    "Testing/Authentication",
	AssignedTo:  "QA Team",
	State:       "Active",
	Priority:    "High",
	Environment: "QA",
	Platforms:   []string{"Web", "Mobile"},
}

var seedScenarios = []generation.Scenario{
	{
		Title:    "Verify user can log in with a valid email and password",
		Category: generation.Positive,
		Steps: []generation.Step{
			{Action: "Navigate to the login page and check that every element is displayed.", Expected: "The login page loads with email and password fields and a Login button."},
			{Action: "Enter \"test@example.com\" and \"ValidPass123!\".", Expected: "The credentials are accepted without errors."},
			{Action: "Click the Login button.", Expected: "The user is authenticated and redirected to the dashboard."},
		},
	},
	{
		Title:    "Verify user cannot log in with invalid credentials",
		Category: generation.Negative,
		Steps: []generation.Step{
			{Action: "Navigate to the login page.", Expected: "The login page loads."},
			{Action: "Enter \"invalid@test.com\" and \"WrongPass\" and click Login.", Expected: "The message \"Invalid credentials\" is displayed."},
			{Action: "Open the dashboard URL directly.", Expected: "The user stays on the login page and protected pages are not shown."},
		},
	},
	{
		Title:    "Verify the password field accepts exactly the maximum length",
		Category: generation.Boundary,
		Steps: []generation.Step{
			{Action: "Enter a password of exactly 128 characters.", Expected: "The password is accepted."},
			{Action: "Enter a password of 129 characters.", Expected: "A message explains the maximum password length."},
		},
	},
	{
		Title:    "Verify students cannot open a module before its release date",
		Category: generation.Edge,
		Steps: []generation.Step{
			{Action: "Log in as a student and open a module released tomorrow.", Expected: "The module is shown as locked with its release date."},
			{Action: "Open the module URL directly.", Expected: "Access is denied and the release date is displayed."},
		},
	},
}

func newSeedCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample test cases into the Postgres store",
		Long:  "seed creates the test_cases table if needed and inserts a small set of sample test cases. DATABASE_URL must be set.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for seeding")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			pool, err := storage.Connect(ctx, cfg.DatabaseURL, 3, 2*time.Second)
			if err != nil {
				return err
			}
			defer pool.Close()
			log.Println("Connected to PostgreSQL database")

			store := storage.NewPostgresStore(pool)
			if err := store.EnsureSchema(ctx); err != nil {
				return err
			}

			n, err := seedSamples(ctx, store, reset)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d rows (%d test cases)\n", n, len(seedScenarios))
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "delete every stored row before seeding")
	return cmd
}

// seedSamples inserts the sample scenarios, optionally clearing the store first.
func seedSamples(ctx context.Context, store storage.Store, reset bool) (int, error) {
	ctx, span := otel.Tracer("testcasegen").Start(ctx, "seed_samples")
	defer span.End()

	if reset {
		deleted, err := store.DeleteAll(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to clear test cases: %w", err)
		}
		log.Printf("Deleted %d existing rows", deleted)
	}

	rows := generation.TestCases(generation.Flatten(seedScenarios, seedMetadata))
	headers := 0
	for i := range rows {
		if rows[i].IsHeader() {
			headers++
			rows[i].WorkItemID = fmt.Sprintf("TC-SAMPLE-%03d", headers)
		}
	}
	saved, err := store.Insert(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("failed to insert sample test cases: %w", err)
	}
	return len(saved), nil
}
