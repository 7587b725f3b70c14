package main

import (
	"bufio"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newPackCmd())
}

func newPackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pack",
		Short: "Create an upload package from the files changed between two revisions",
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
			return runPacker(cmd.Context(), in, configPath)
		},
	}
}
