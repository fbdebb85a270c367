package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"
	"unicode/utf8"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/peekknuf/eda/internal/config"
	"github.com/peekknuf/eda/internal/frame"
	"github.com/peekknuf/eda/internal/loader"
	"github.com/peekknuf/eda/internal/render"
)

var (
	cfgFile   string
	outFormat string
	colorMode string
	logLevel  string
	sqlDriver string
	sqlDSN    string
	sheet     string
	delimiter string

	cfg      *config.Config
	logger   = logrus.New()
	renderer render.Renderer
)

var rootCmd = &cobra.Command{
	Use:   "eda",
	Short: "Exploratory data analysis helpers",
	Long: `Quick exploratory checks for tabular data: value distributions,
column overviews, mixed-type detection and missing-value reports
for CSV, JSONL, XLSX, Parquet files and SQL queries`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	logger.SetOutput(os.Stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/"+config.FileName+")")
	flags.StringVar(&outFormat, "format", "text", "Output format (text, json)")
	flags.StringVar(&colorMode, "color", "auto", "Colour output (auto, always, never)")
	flags.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.StringVar(&sqlDriver, "sql-driver", "", "Read from a database (postgres, sqlite3); the file argument is then a query")
	flags.StringVar(&sqlDSN, "sql-dsn", "", "Database connection string")
	flags.StringVar(&sheet, "sheet", "", "XLSX worksheet (default is the first one)")
	flags.StringVar(&delimiter, "delimiter", "", "CSV field delimiter (default is detected)")
}

// setup resolves the configuration and builds the logger and renderer.
// Flags given on the command line win over every other source.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfg, err = config.Load(cfgFile); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("color") {
		cfg.Color = colorMode
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("sql-driver") {
		cfg.SQL.Driver = sqlDriver
	}
	if flags.Changed("sql-dsn") {
		cfg.SQL.DSN = sqlDSN
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if delimiter == `\t` {
		delimiter = "\t"
	}
	if utf8.RuneCountInString(delimiter) > 1 {
		return fmt.Errorf("--delimiter must be a single character, got %q", delimiter)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	color, err := render.ColorEnabled(cfg.Color, os.Stdout)
	if err != nil {
		return err
	}
	renderer, err = render.New(outFormat, color)
	return err
}

// loadTable reads the dataset named by arg: a file path, or a query when a
// SQL driver is configured.
func loadTable(ctx context.Context, arg string) (*frame.Table, error) {
	start := time.Now()
	var (
		tbl *frame.Table
		err error
	)
	if cfg.SQL.Driver != "" {
		db, err := loader.OpenDB(ctx, cfg.SQL.Driver, cfg.SQL.DSN)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		tbl, err = loader.LoadSQL(ctx, db, arg)
		if err != nil {
			return nil, err
		}
	} else {
		tbl, err = loader.Load(ctx, arg, loadOptions())
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", arg, err)
		}
	}

	rows, cols := tbl.Shape()
	logger.WithFields(logrus.Fields{
		"source":   arg,
		"rows":     rows,
		"columns":  cols,
		"duration": time.Since(start).Round(time.Millisecond),
	}).Info("table loaded")
	return tbl, nil
}

func loadOptions() loader.Options {
	opts := loader.Options{MissingTokens: cfg.MissingTokens, Sheet: sheet}
	if delimiter != "" {
		opts.Delimiter, _ = utf8.DecodeRuneInString(delimiter)
	}
	return opts
}
