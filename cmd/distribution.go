package cmd

import (
	"github.com/spf13/cobra"

	"github.com/peekknuf/eda/internal/chart"
	"github.com/peekknuf/eda/internal/profiler"
)

var (
	distColumn string
	distBins   int
	distPlot   string
)

var distributionCmd = &cobra.Command{
	Use:   "distribution <file>",
	Short: "Summary statistics, histogram and boxplot of a numeric column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := loadTable(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		col, err := tbl.Column(distColumn)
		if err != nil {
			return err
		}

		bins := cfg.Bins
		if cmd.Flags().Changed("bins") {
			bins = distBins
		}
		rep, err := profiler.Distribution(col, profiler.DistributionOptions{Bins: bins})
		if err != nil {
			return err
		}
		if rep.Excluded > 0 {
			logger.WithField("column", distColumn).Debugf("%d values excluded", rep.Excluded)
		}

		if distPlot != "" {
			opts := chart.Options{Width: cfg.Chart.Width, Height: cfg.Chart.Height}
			if err := chart.Save(distPlot, rep, opts); err != nil {
				return err
			}
			logger.WithField("path", distPlot).Info("chart written")
		}
		return renderer.Distribution(cmd.OutOrStdout(), rep)
	},
}

func init() {
	rootCmd.AddCommand(distributionCmd)
	distributionCmd.Flags().StringVarP(&distColumn, "column", "c", "", "Numeric column (required)")
	distributionCmd.Flags().IntVar(&distBins, "bins", profiler.DefaultBins, "Histogram bins")
	distributionCmd.Flags().StringVar(&distPlot, "plot", "", "Write the distribution figure to this file (.png, .svg, .pdf)")
	distributionCmd.MarkFlagRequired("column")
}
