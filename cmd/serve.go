package cmd

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/peekknuf/eda/internal/chart"
	"github.com/peekknuf/eda/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve <file>",
	Short: "Serve the reports of one dataset over HTTP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := loadTable(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		addr := cfg.Server.Addr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}
		srv := server.New(tbl, server.Options{
			Source:       args[0],
			Bins:         cfg.Bins,
			MissingLimit: cfg.MissingLimit,
			Chart:        chart.Options{Width: cfg.Chart.Width, Height: cfg.Chart.Height},
			Logger:       logger,
		})
		if err := srv.ListenAndServe(cmd.Context(), addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
}
