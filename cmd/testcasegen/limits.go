package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bizmatters/agent-builder/testcase-generator/internal/config"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/generation"
)

func newLimitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "limits",
		Short: "Print the configured rate limits and generation settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Provider\t%s\n", cfg.LLMProvider)
			fmt.Fprintf(w, "Requests per minute\t%d\n", cfg.RateLimitPerMinute)
			fmt.Fprintf(w, "Requests per day\t%d\n", cfg.RateLimitPerDay)
			fmt.Fprintf(w, "Category pause\t%s\n", cfg.CategoryPause)
			fmt.Fprintf(w, "Parser\t%s\n", cfg.ParserStrategy)
			fmt.Fprintf(w, "Single pass\t%t\n", cfg.SinglePass)

			calls := 0
			for _, entry := range generation.DefaultComprehensivePlan {
				calls += 1 + entry.Scenarios
			}
			fmt.Fprintf(w, "Calls per comprehensive run\t%d\n", calls)
			return w.Flush()
		},
	}
}
