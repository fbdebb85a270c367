package cmd

import (
	"github.com/spf13/cobra"

	"github.com/peekknuf/eda/internal/profiler"
)

var (
	missingLimit  float64
	missingColumn string
)

var missingCmd = &cobra.Command{
	Use:   "missing <file>",
	Short: "Columns whose share of missing values reaches a limit",
	Long: `Report every column whose percentage of missing values is at least
--limit. With --column, report the percentage of that column only.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := loadTable(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if missingColumn != "" {
			col, err := tbl.Column(missingColumn)
			if err != nil {
				return err
			}
			pct, err := profiler.ColumnMissing(col)
			if err != nil {
				return err
			}
			return renderer.ColumnMissing(cmd.OutOrStdout(), col.Name(), pct)
		}

		limit := cfg.MissingLimit
		if cmd.Flags().Changed("limit") {
			limit = missingLimit
		}
		summary, err := profiler.TableMissing(tbl, limit)
		if err != nil {
			return err
		}
		return renderer.Missing(cmd.OutOrStdout(), summary)
	},
}

func init() {
	rootCmd.AddCommand(missingCmd)
	missingCmd.Flags().Float64VarP(&missingLimit, "limit", "l", 10, "Minimum missing percentage to report")
	missingCmd.Flags().StringVarP(&missingColumn, "column", "c", "", "Report a single column")
}
