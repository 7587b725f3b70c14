package main

import (
	"bufio"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newUploadCmd())
}

func newUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload",
		Short: "Upload a previously created package to the FTP server",
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
			return runUploader(cmd.Context(), in, configPath)
		},
	}
}
