package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"StockLens/internal/calculator"
	"StockLens/internal/dataset"
	"StockLens/internal/prediction"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <csv>",
	Short: "Show shape, schema and column summaries of a price file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		frame, err := dataset.Load(args[0])
		if err != nil {
			return err
		}
		rows, cols := frame.Shape()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Shape: %d rows x %d columns\n", rows, cols)
		fmt.Fprintf(out, "Columns: %v\n", frame.Columns)

		if err := prediction.ValidateSchema(frame); err != nil {
			return err
		}
		cleaned, err := prediction.Clean(frame)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Rows with finite values: %d of %d\n\n", cleaned.RowsAfter, cleaned.RowsBefore)

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "column\tcount\tmean\tstd\tmin\tmax\t")
		for _, s := range calculator.SummarizeTable(cleaned.Table) {
			fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t\n", s.Name, s.Count, s.Mean, s.Std, s.Min, s.Max)
		}
		return tw.Flush()
	},
}
