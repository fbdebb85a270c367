package cmd

import (
	"github.com/spf13/cobra"

	"github.com/peekknuf/eda/internal/profiler"
)

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Per-column summary statistics",
	Long: `Describe every column of a dataset: count, mean, standard deviation
and quartiles for numeric columns; unique count and most frequent
value for the others`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := loadTable(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return renderer.Describe(cmd.OutOrStdout(), args[0], profiler.Describe(tbl))
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
