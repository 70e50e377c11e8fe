package main

import (
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded prediction runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rec := openRecorder()
		defer rec.Close()

		runs, err := rec.ListRuns(historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TIME\tSYMBOL\tINPUT\tR2\tTRAIN\tTEST")
		for _, r := range runs {
			r2 := "NaN"
			if !math.IsNaN(r.R2Score) {
				r2 = fmt.Sprintf("%.6f", r.R2Score)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n",
				r.CreatedAt.Format("2006-01-02 15:04:05"), r.Symbol, r.InputPath, r2, r.TrainRows, r.TestRows)
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "number of runs to show")
}
