// Package output provides shared result serialization for mailtop JSON output.
package output

import (
	"github.com/farcloser/mailtop"
	"github.com/farcloser/mailtop/internal/stats"
)

// ResultToMap converts an analysis result into the canonical map structure
// used for JSON and JSONL serialization.
func ResultToMap(result *mailtop.Result) map[string]any {
	meta := map[string]any{
		"summary": map[string]any{
			"lines":               result.Lines,
			"distinct_senders":    result.DistinctSenders,
			"distinct_recipients": result.DistinctRecipients,
			"distinct_codes":      result.DistinctCodes,
		},
	}

	reports := make([]any, 0, len(result.Reports))
	for _, report := range result.Reports {
		reports = append(reports, ReportToMap(report))
	}

	meta["reports"] = reports

	meta["distribution"] = map[string]any{
		"delay": SummaryToMap(result.Delay),
		"size":  SummaryToMap(result.Size),
	}

	return meta
}

// ReportToMap converts one top-N report to a map.
func ReportToMap(report mailtop.Report) map[string]any {
	rows := make([]any, 0, len(report.Rows))
	for _, row := range report.Rows {
		entry := map[string]any{
			"metric": row.Metric,
			"label":  row.Label,
		}
		if row.Description != "" {
			entry["description"] = row.Description
		}

		rows = append(rows, entry)
	}

	return map[string]any{
		"statistic": report.Statistic.String(),
		"title":     report.Title,
		"columns":   []any{report.Columns[0], report.Columns[1]},
		"rows":      rows,
	}
}

// SummaryToMap converts a distribution summary to a map.
func SummaryToMap(summary stats.Summary) map[string]any {
	return map[string]any{
		"samples": summary.Samples,
		"mean":    summary.Mean,
		"stddev":  summary.StdDev,
		"median":  summary.Median,
		"p95":     summary.P95,
		"max":     summary.Max,
	}
}
