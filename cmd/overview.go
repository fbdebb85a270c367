package cmd

import (
	"github.com/spf13/cobra"

	"github.com/peekknuf/eda/internal/profiler"
)

var overviewColumn string

var overviewCmd = &cobra.Command{
	Use:   "overview <file>",
	Short: "Null share, unique values and value counts of a column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := loadTable(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		ov, err := profiler.Overview(tbl, overviewColumn)
		if err != nil {
			return err
		}
		return renderer.Overview(cmd.OutOrStdout(), ov)
	},
}

func init() {
	rootCmd.AddCommand(overviewCmd)
	overviewCmd.Flags().StringVarP(&overviewColumn, "column", "c", "", "Column to describe (required)")
	overviewCmd.MarkFlagRequired("column")
}
