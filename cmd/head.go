package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var headRows int

var headCmd = &cobra.Command{
	Use:   "head <file>",
	Short: "Print the first rows with their column kinds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if headRows <= 0 {
			return fmt.Errorf("-n must be positive, got %d", headRows)
		}
		tbl, err := loadTable(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		df := tbl.DataFrame()
		if df.Nrow() > headRows {
			idx := make([]int, headRows)
			for i := range idx {
				idx[i] = i
			}
			df = df.Subset(idx)
		}
		if df.Err != nil {
			return df.Err
		}

		if outFormat == "json" {
			return df.WriteJSON(cmd.OutOrStdout())
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), df.String())
		return err
	},
}

func init() {
	rootCmd.AddCommand(headCmd)
	headCmd.Flags().IntVarP(&headRows, "rows", "n", 10, "Number of rows to show")
}
