package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bizmatters/agent-builder/testcase-generator/internal/config"
)

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "testcasegen",
		Short: "Generate Azure DevOps test cases from acceptance criteria",
		Long: `testcasegen runs the test case generation pipeline outside the API server.

Settings come from the same environment variables as the server, optionally
layered over a YAML file passed with --config.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				return os.Setenv(config.FileEnv, cfgFile)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", fmt.Sprintf("config file (overrides %s)", config.FileEnv))

	root.AddCommand(newGenerateCmd(), newSeedCmd(), newLimitsCmd())
	return root
}
