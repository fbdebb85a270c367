package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/peekknuf/eda/internal/connectors"
	"github.com/peekknuf/eda/internal/loader"
	"github.com/peekknuf/eda/internal/profiler"
)

var (
	dirPath    string
	recursive  bool
	scanLimit  float64
	workers    int
	minSize    int64
	maxSize    int64
	extensions []string
	describe   bool
)

type scanResult struct {
	file    connectors.FileMeta
	quality profiler.QualitySummary
	missing profiler.MissingValueSummary
	columns []profiler.ColumnDescription
	err     error
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan directory for data files",
	Long: `Scan a directory and report quality metrics and missing-value
columns for every dataset found`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if workers <= 0 {
			return fmt.Errorf("--workers must be positive, got %d", workers)
		}
		limit := cfg.MissingLimit
		if cmd.Flags().Changed("limit") {
			limit = scanLimit
		}

		options := connectors.DiscoveryOptions{
			Recursive: recursive,
			MinSize:   minSize,
			MaxSize:   maxSize,
		}
		files, err := connectors.DiscoverFiles(dirPath, matchExtensions(extensions), options)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		var total int64
		for _, f := range files {
			total += f.Size
		}
		logger.WithFields(logrus.Fields{
			"dir":   dirPath,
			"files": len(files),
			"size":  humanize.Bytes(uint64(total)),
		}).Info("files discovered")

		bar := progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetDescription("[cyan][reset] Processing files..."),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(os.Stderr)
			}),
		)

		// Files are profiled concurrently; results are printed afterwards in
		// discovery order so the output does not depend on scheduling.
		results := make([]scanResult, len(files))
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(workers)
		for i, file := range files {
			g.Go(func() error {
				results[i] = scanFile(ctx, file, limit)
				bar.Add(1)
				return ctx.Err()
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		bar.Finish()

		out := cmd.OutOrStdout()
		failed := 0
		for _, res := range results {
			if res.err != nil {
				failed++
				logger.WithError(res.err).WithField("file", res.file.Path).Warn("failed to profile")
				continue
			}
			source := fmt.Sprintf("%s (%s)", res.file.Path, humanize.Bytes(uint64(res.file.Size)))
			if err := renderer.Quality(out, source, res.quality); err != nil {
				return err
			}
			if err := renderer.Missing(out, res.missing); err != nil {
				return err
			}
			if describe {
				if err := renderer.Describe(out, res.file.Path, res.columns); err != nil {
					return err
				}
			}
		}
		if failed == len(results) {
			return fmt.Errorf("none of the %d files could be profiled", failed)
		}
		return nil
	},
}

func scanFile(ctx context.Context, file connectors.FileMeta, limit float64) scanResult {
	res := scanResult{file: file}
	tbl, err := loader.Load(ctx, file.Path, loadOptions())
	if err != nil {
		res.err = err
		return res
	}
	if res.quality, err = profiler.Quality(tbl); err != nil {
		res.err = err
		return res
	}
	if res.missing, err = profiler.TableMissing(tbl, limit); err != nil {
		res.err = err
		return res
	}
	if describe {
		res.columns = profiler.Describe(tbl)
	}
	return res
}

// matchExtensions accepts loadable files, restricted to exts when given.
func matchExtensions(exts []string) func(string) bool {
	return func(path string) bool {
		if !loader.Supported(path) {
			return false
		}
		if len(exts) == 0 {
			return true
		}
		format, _, err := loader.Detect(path)
		if err != nil {
			return false
		}
		for _, ext := range exts {
			if strings.EqualFold(strings.TrimPrefix(ext, "."), string(format)) {
				return true
			}
		}
		return false
	}
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVarP(&dirPath, "dir", "d", "",
		"Directory to scan (required)")
	scanCmd.Flags().StringSliceVarP(&extensions, "type", "t", nil,
		"Only scan these formats (csv, jsonl, xlsx, parquet)")
	scanCmd.Flags().BoolVarP(&recursive, "recursive", "r", false,
		"Search directories recursively")
	scanCmd.Flags().Float64VarP(&scanLimit, "limit", "l", 10,
		"Minimum missing percentage to report per column")
	scanCmd.Flags().BoolVar(&describe, "describe", false,
		"Also print per-column statistics for every file")
	scanCmd.Flags().IntVarP(&workers, "workers", "w", 4,
		"Files profiled in parallel")
	scanCmd.Flags().Int64Var(&minSize, "min-size", 0,
		"Minimum file size in bytes")
	scanCmd.Flags().Int64Var(&maxSize, "max-size", 0,
		"Maximum file size in bytes")

	scanCmd.MarkFlagRequired("dir")
}
