package main

import (
	"bufio"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newSyncCmd())
}

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run the full pipeline: pack changed files and upload them",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			in := bufio.NewReader(os.Stdin)
			configPath, err := resolveConfigPath(cmd, in)
			if err != nil {
				return err
			}
			return runPipeline(cmd.Context(), in, configPath)
		},
	}
}
