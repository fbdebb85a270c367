package cmd

import (
	"github.com/spf13/cobra"

	"github.com/peekknuf/eda/internal/profiler"
)

var mixedCmd = &cobra.Command{
	Use:   "mixed <file>",
	Short: "Find text/object columns holding more than one value type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := loadTable(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return renderer.MixedTypes(cmd.OutOrStdout(), profiler.CheckMixedTypes(tbl))
	},
}

func init() {
	rootCmd.AddCommand(mixedCmd)
}
