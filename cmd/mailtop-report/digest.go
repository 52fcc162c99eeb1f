//nolint:wrapcheck
package main

import (
	"bufio"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/farcloser/primordium/fault"
	"github.com/urfave/cli/v3"

	"github.com/farcloser/mailtop"
)

const (
	statMailSize = "mail-size"
	statSMTP     = "smtp-codes"

	detailRows = 20
)

var (
	errDigestArgs       = errors.New("expected exactly one argument: path to report.jsonl")
	errUnknownStatistic = errors.New("unknown statistic")
)

func digestCommand() *cli.Command {
	return &cli.Command{
		Name:      "digest",
		Usage:     "Produce a summary digest from a mailtop JSONL report",
		ArgsUsage: "<report.jsonl>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "statistic",
				Usage: "Merge one statistic across all files (e.g., mail-from, smtp-codes, deferred)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return errDigestArgs
			}

			return runDigest(os.Stdout, cmd.Args().First(), cmd.String("statistic"))
		},
	}
}

func runDigest(out io.Writer, reportPath, statFilter string) error {
	if statFilter != "" && !knownStatistic(statFilter) {
		return fmt.Errorf("%w: %q", errUnknownStatistic, statFilter)
	}

	records, err := readRecords(reportPath)
	if err != nil {
		return err
	}

	printDigest(out, records)

	if statFilter != "" {
		printStatisticDetail(out, records, statFilter)
	}

	return nil
}

func knownStatistic(name string) bool {
	for _, stat := range mailtop.Statistics() {
		if stat.String() == name {
			return true
		}
	}

	return false
}

func readRecords(path string) ([]digestRecord, error) {
	file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified report files
	if err != nil {
		return nil, fmt.Errorf("opening report: %w", err)
	}
	defer file.Close()

	var records []digestRecord

	scanner := bufio.NewScanner(file)

	const maxLineSize = 1024 * 1024 // 1MB
	scanner.Buffer(make([]byte, 0, maxLineSize), maxLineSize)

	for scanner.Scan() {
		var rec digestRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			records = append(records, digestRecord{Error: fmt.Sprintf("%v: %v", fault.ErrInvalidJSON, err)})

			continue
		}

		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}

	return records, nil
}

func printDigest(out io.Writer, records []digestRecord) {
	var (
		failed  int
		lines   int
		empty   int
		senders int
	)

	codes := map[string]*codeBreakdown{}

	for _, rec := range records {
		if rec.Error != "" || rec.Analysis == nil {
			failed++

			continue
		}

		summary := rec.Analysis.Summary
		lines += summary.Lines
		senders += summary.DistinctSenders

		if summary.Lines == 0 {
			empty++
		}

		for _, report := range rec.Analysis.Reports {
			if report.Statistic != statSMTP {
				continue
			}

			for _, row := range report.Rows {
				breakdown, ok := codes[row.Label]
				if !ok {
					breakdown = &codeBreakdown{Code: row.Label, Description: row.Description}
					codes[row.Label] = breakdown
				}

				breakdown.Files++
				breakdown.Count += row.Metric
			}
		}
	}

	fmt.Fprintln(out, "=== Mailtop Report Digest ===")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Total files:   %d\n", len(records))
	fmt.Fprintf(out, "Failed:        %d\n", failed)
	fmt.Fprintf(out, "Analyzed:      %d\n", len(records)-failed)
	fmt.Fprintf(out, "Empty:         %d\n", empty)
	fmt.Fprintf(out, "Lines:         %d\n", lines)
	fmt.Fprintf(out, "Senders:       %d (summed per file)\n", senders)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "--- Per File ---")

	for _, rec := range records {
		name := displayName(rec.File)

		switch {
		case rec.Error != "":
			fmt.Fprintf(out, "  %s: %s\n", name, rec.Error)
		case rec.Analysis == nil:
			fmt.Fprintf(out, "  %s: no analysis\n", name)
		default:
			summary := rec.Analysis.Summary
			fmt.Fprintf(out, "  %s: %d lines, %d senders, %d recipients, %d codes\n",
				name, summary.Lines, summary.DistinctSenders, summary.DistinctRecipients, summary.DistinctCodes)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "--- SMTP Codes By File Count ---")

	breakdowns := make([]*codeBreakdown, 0, len(codes))
	for _, bd := range codes {
		breakdowns = append(breakdowns, bd)
	}

	slices.SortFunc(breakdowns, func(a, b *codeBreakdown) int {
		if c := cmp.Compare(b.Files, a.Files); c != 0 {
			return c
		}

		return cmp.Compare(a.Code, b.Code)
	})

	if len(breakdowns) == 0 {
		fmt.Fprintln(out, "  none")
	}

	for _, bd := range breakdowns {
		fmt.Fprintf(out, "  %s (%s)\n", bd.Code, bd.Description)
		fmt.Fprintf(out, "    files: %d  count: %d\n", bd.Files, bd.Count)
	}
}

// printStatisticDetail merges one statistic's rows across files. Counts add up; mail sizes keep the
// largest value seen for an address.
func printStatisticDetail(out io.Writer, records []digestRecord, stat string) {
	type merged struct {
		label  string
		metric int64
		files  int
	}

	var (
		title string
		rows  []*merged
	)

	index := map[string]*merged{}

	for _, rec := range records {
		if rec.Error != "" || rec.Analysis == nil {
			continue
		}

		for _, report := range rec.Analysis.Reports {
			if report.Statistic != stat {
				continue
			}

			if len(report.Columns) == 2 {
				title = report.Columns[0] + "\t" + report.Columns[1]
			}

			for _, row := range report.Rows {
				label := row.Label
				if row.Description != "" {
					label = fmt.Sprintf("%s (%s)", row.Label, row.Description)
				}

				entry, ok := index[label]
				if !ok {
					entry = &merged{label: label}
					index[label] = entry
					rows = append(rows, entry)
				}

				entry.files++

				if stat == statMailSize {
					entry.metric = max(entry.metric, row.Metric)
				} else {
					entry.metric += row.Metric
				}
			}
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "--- %s across files ---\n", stat)

	if len(rows) == 0 {
		fmt.Fprintln(out, "  no rows")

		return
	}

	slices.SortStableFunc(rows, func(a, b *merged) int {
		return cmp.Compare(b.metric, a.metric)
	})

	if title != "" {
		fmt.Fprintf(out, "  %s\tFiles\n", title)
	}

	for _, row := range rows[:min(len(rows), detailRows)] {
		fmt.Fprintf(out, "  %d\t%s\t%d\n", row.metric, row.label, row.files)
	}
}

func displayName(file string) string {
	if file == "" {
		return "(redacted)"
	}

	return file
}
