// Handles the "baasctl stats" command

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scttfrdmn/baasclient/pkg/utils"
)

func newStatsCmd(a *app) *cobra.Command {
	var human bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show storage usage of the app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res := a.client.Storage.GetStats(cmd.Context())
			if !human || res.Errors != nil {
				return printResult(cmd, res)
			}
			s := res.Data
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Buckets: %d\n", s.BucketsCount)
			fmt.Fprintf(out, "Files:   %d\n", s.ObjectsCount)
			fmt.Fprintf(out, "Size:    %s\n", utils.FormatBytes(s.ObjectsSize))
			if s.Quota > 0 {
				fmt.Fprintf(out, "Quota:   %s (%.1f%% used)\n", utils.FormatBytes(s.Quota),
					float64(s.ObjectsSize)/float64(s.Quota)*100)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&human, "human", false, "print a human readable summary instead of JSON")
	return cmd
}
