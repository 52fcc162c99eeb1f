//nolint:wrapcheck
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/urfave/cli/v3"

	"github.com/farcloser/mailtop"
	"github.com/farcloser/mailtop/internal/input"
	"github.com/farcloser/mailtop/internal/output"
)

const (
	defaultOutputFile = "mailtop-report.jsonl"
	defaultPattern    = "*mail*"
)

var (
	errReportArgs   = errors.New("expected exactly one argument: folder path")
	errNotDirectory = errors.New("not a directory")
	errNoLogFiles   = errors.New("no mail log files found")
)

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "Scan a log directory and write a mailtop JSONL report",
		ArgsUsage: "<folder>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "redact-path",
				Usage: "Strip file paths from the report",
			},
			&cli.StringFlag{
				Name:    "pattern",
				Aliases: []string{"p"},
				Usage:   "Glob matched against lowercased file names",
				Value:   defaultPattern,
			},
			&cli.IntFlag{
				Name:    "top",
				Aliases: []string{"t"},
				Usage:   "Number of rows per report",
				Value:   mailtop.DefaultTopCount,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Report file",
				Value:   defaultOutputFile,
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"j"},
				Usage:   "Number of concurrent workers",
				Value:   runtime.NumCPU(),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return errReportArgs
			}

			opts := mailtop.DefaultOptions()
			opts.TopCount = cmd.Int("top")

			if err := opts.Validate(); err != nil {
				return err
			}

			if _, err := filepath.Match(cmd.String("pattern"), ""); err != nil {
				return fmt.Errorf("--pattern: %w", err)
			}

			return runReport(ctx, reportSettings{
				folder:  cmd.Args().First(),
				pattern: cmd.String("pattern"),
				output:  cmd.String("output"),
				redact:  cmd.Bool("redact-path"),
				workers: max(cmd.Int("workers"), 1),
				opts:    opts,
			})
		},
	}
}

type reportSettings struct {
	folder  string
	pattern string
	output  string
	redact  bool
	workers int
	opts    mailtop.Options
}

func runReport(ctx context.Context, settings reportSettings) error {
	info, err := os.Stat(settings.folder)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%q: %w", settings.folder, errNotDirectory)
	}

	// The report itself may live in the scanned folder.
	exclude := []string{settings.output, settings.output + ".gz"}

	files, err := collectLogFiles(settings.folder, settings.pattern, exclude)
	if err != nil {
		return fmt.Errorf("scanning folder: %w", err)
	}

	if len(files) == 0 {
		return fmt.Errorf("%q: %w", settings.folder, errNoLogFiles)
	}

	fmt.Fprintf(os.Stderr, "Found %d files to analyze (%d workers)\n", len(files), settings.workers)

	// Every file is an independent run; workers share nothing but the results slice.
	startTime := time.Now()
	results := make([]Record, len(files))

	var progress atomic.Int64

	sem := make(chan struct{}, settings.workers)

	var waitGroup sync.WaitGroup

	for idx, filePath := range files {
		waitGroup.Add(1)

		go func(idx int, filePath string) {
			defer waitGroup.Done()

			sem <- struct{}{}

			defer func() { <-sem }()

			results[idx] = processFile(ctx, filePath, settings.opts)

			done := progress.Add(1)
			fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", done, len(files), filePath)
		}(idx, filePath)
	}

	waitGroup.Wait()

	failed, err := writeRecords(settings.output, results, settings.redact)
	if err != nil {
		return err
	}

	if err := compressFile(settings.output); err != nil {
		slog.Error("compressing report", "error", err)
	}

	elapsed := time.Since(startTime)

	fmt.Fprintf(os.Stderr, "\nDone: %d files in %s (%d failed)\n", len(files), elapsed.Truncate(time.Millisecond), failed)
	fmt.Fprintf(os.Stderr, "Report written to %s (and %s.gz)\n\n", settings.output, settings.output)

	return runDigest(os.Stdout, settings.output, "")
}

func writeRecords(path string, records []Record, redact bool) (int, error) {
	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	failed := 0

	for idx := range records {
		record := &records[idx]

		if record.Error != "" {
			failed++
		}

		file := record.File
		if redact {
			record.File = ""
		}

		if err := enc.Encode(record); err != nil {
			slog.Error("writing record", "file", file, "error", err)
		}
	}

	return failed, out.Close()
}

func processFile(ctx context.Context, filePath string, opts mailtop.Options) Record {
	fileStart := time.Now()
	timing := &RecordTiming{}

	source, err := input.Open(ctx, filePath)

	timing.OpenMs = durationMs(time.Since(fileStart))

	if err != nil {
		return Record{File: filePath, Error: fmt.Sprintf("open failed: %v", err), Timing: timing}
	}
	defer source.Close()

	analyzeStart := time.Now()

	result, err := mailtop.Analyze(source, opts)

	timing.AnalyzeMs = durationMs(time.Since(analyzeStart))
	timing.TotalMs = durationMs(time.Since(fileStart))

	if err != nil {
		return Record{File: filePath, Error: fmt.Sprintf("analysis failed: %v", err), Timing: timing}
	}

	return Record{
		File:        filePath,
		Compression: source.Compression().String(),
		Analysis:    output.ResultToMap(result),
		Timing:      timing,
	}
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}

func collectLogFiles(root, pattern string, exclude []string) ([]string, error) {
	var files []string

	skip := make(map[string]bool, len(exclude))
	for _, path := range exclude {
		if abs, err := filepath.Abs(path); err == nil {
			skip[abs] = true
		}
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if matched, _ := filepath.Match(pattern, strings.ToLower(d.Name())); !matched {
			return nil
		}

		if abs, err := filepath.Abs(path); err == nil && skip[abs] {
			return nil
		}

		files = append(files, path)

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)

	return files, nil
}

func compressFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // reading our own output file
	if err != nil {
		return err
	}

	gzFile, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}
	defer gzFile.Close()

	gzWriter := gzip.NewWriter(gzFile)

	if _, err := gzWriter.Write(data); err != nil {
		return err
	}

	return gzWriter.Close()
}
