package main

import (
	"fmt"
	"time"

	"github.com/gitship/gitship/internal/config"
	"github.com/gitship/gitship/internal/journal"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newHistoryCmd())
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent sync runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			j := journal.New(config.DefaultJournalPath)
			if err := j.Open(); err != nil {
				return err
			}
			defer j.Close()

			runs, err := j.Recent(limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No runs recorded yet.")
				return nil
			}

			for _, run := range runs {
				rev := run.PackageRev
				if len(rev) > 10 {
					rev = rev[:10]
				}
				fmt.Printf("%s  %-7s %-10s changed=%-3d packed=%-3d uploaded=%-3d %s\n",
					run.StartedAt.Local().Format(time.DateTime),
					run.Action,
					statusStyle(run.Status),
					run.FilesChanged,
					run.FilesPacked,
					run.FilesUploaded,
					gray.Render(rev),
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")

	return cmd
}

func statusStyle(status string) string {
	switch status {
	case journal.StatusOK:
		return green.Render(status)
	case journal.StatusFailed:
		return red.Render(status)
	default:
		return gray.Render(status)
	}
}
