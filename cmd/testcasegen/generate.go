package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bizmatters/agent-builder/testcase-generator/internal/config"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/export"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/generation"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/llm"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/storage"
)

type generateOptions struct {
	criteria     string
	scenarioType string
	scenarios    int
	steps        int
	format       string
	offline      bool

	priority    string
	state       string
	assignedTo  string
	areaPath    string
	environment string
	platforms   []string
}

func newGenerateCmd() *cobra.Command {
	opts := generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate test cases and print them in an export format",
		Example: `  testcasegen generate --criteria "Users can reset their password via email" --type All --format markdown
  testcasegen generate --criteria "Admins can archive projects" --scenarios 2 --steps 3 --offline`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.criteria, "criteria", "", "acceptance criteria (required)")
	f.StringVar(&opts.scenarioType, "type", "Positive", "scenario type: Positive, Negative, Boundary, Edge or All")
	f.IntVar(&opts.scenarios, "scenarios", 3, "number of scenarios (1-10, ignored for All)")
	f.IntVar(&opts.steps, "steps", 4, "steps per scenario (1-20, ignored for All)")
	f.StringVar(&opts.format, "format", "csv", "output format: csv, excel, json, markdown or yaml")
	f.BoolVar(&opts.offline, "offline", false, "skip the completion model and use built-in templates")
	f.StringVar(&opts.priority, "priority", "High", "priority written to every row")
	f.StringVar(&opts.state, "state", "New", "state written to every row")
	f.StringVar(&opts.assignedTo, "assigned-to", "Unassigned", "assignee written to every row")
	f.StringVar(&opts.areaPath, "area-path", "Subscription/Billing/Data", "area path written to every row")
	f.StringVar(&opts.environment, "environment", "Testing", "environment written to every row")
	f.StringSliceVar(&opts.platforms, "platforms", []string{"Web"}, "platforms written to every row")
	_ = cmd.MarkFlagRequired("criteria")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts generateOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	category, err := generation.ParseCategory(opts.scenarioType)
	if err != nil {
		return err
	}
	req := generation.Request{
		Criteria:      opts.criteria,
		Category:      category,
		ScenarioCount: opts.scenarios,
		StepCount:     opts.steps,
		Metadata: generation.Metadata{
			AreaPath:    opts.areaPath,
			AssignedTo:  opts.assignedTo,
			State:       opts.state,
			Priority:    opts.priority,
			Environment: opts.environment,
			Platforms:   opts.platforms,
		},
	}
	if err := req.Validate(); err != nil {
		return err
	}

	exports := export.NewRegistry()
	if _, err := exports.Lookup(opts.format); err != nil {
		return err
	}

	var completer llm.Completer = llm.Disabled{}
	if !opts.offline {
		if completer, err = llm.New(ctx, cfg.Provider()); err != nil {
			return err
		}
	}

	orchestrator := generation.NewOrchestrator(completer, cfg.Limiter(),
		generation.WithConfig(cfg.Generation()),
		generation.WithParser(cfg.Parser()),
	)
	result, err := orchestrator.Generate(ctx, req)
	if err != nil {
		return err
	}

	// Stamp ids and timestamps the same way the server does.
	rows, err := storage.NewMemoryStore().Insert(ctx, generation.TestCases(result.Rows))
	if err != nil {
		return err
	}

	doc, err := exports.Render(opts.format, rows)
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(doc.Body); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "Generated %d scenarios (%d rows), mode %s\n", len(result.Scenarios), len(rows), result.Mode)
	for _, o := range result.Outcomes {
		fmt.Fprintf(stderr, "  %-9s %-8s %d", o.Category, o.Source, o.Scenarios)
		if o.Reason != "" {
			fmt.Fprintf(stderr, " (%s)", o.Reason)
		}
		fmt.Fprintln(stderr)
	}
	if result.RateLimited {
		fmt.Fprintf(stderr, "Rate limited: retry in %d seconds for model output\n", result.RetryAfterSeconds)
	}
	if warnings := result.Warnings(); len(warnings) > 0 && !opts.offline {
		fmt.Fprintln(stderr, "Warnings:\n  "+strings.Join(warnings, "\n  "))
	}
	return nil
}
