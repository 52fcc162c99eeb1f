package mailtop

import (
	"fmt"

	"github.com/farcloser/mailtop/internal/extract"
	"github.com/farcloser/mailtop/internal/rank"
	"github.com/farcloser/mailtop/internal/smtpcode"
	"github.com/farcloser/mailtop/internal/stats"
	"github.com/farcloser/mailtop/internal/tally"
	"github.com/farcloser/mailtop/internal/types"
)

/*
Usage:

source, err := input.Open(ctx, "/var/log/maillog")
if err != nil {
    return err
}
defer source.Close()

result, err := mailtop.Analyze(source, mailtop.DefaultOptions())

// Top 25, with a callback on every extraction
opts := mailtop.DefaultOptions()
opts.TopCount = 25
opts.Verbose = true
opts.OnMatch = func(m types.Match) { slog.Info("match", "kind", m.Kind, "value", m.Value) }
result, err := mailtop.Analyze(source, opts)

// Iterate reports
for _, report := range result.Reports {
    fmt.Println(report.Title)
    for _, row := range report.Rows {
        fmt.Printf("%d\t%s\n", row.Metric, row.Label)
    }
}

*/

// Analyze makes a single pass over the source and ranks every statistic.
// No partial result is returned when the source fails mid-pass.
func Analyze(source LineSource, opts Options) (*Result, error) {
	if opts.TopCount == 0 {
		opts.TopCount = DefaultTopCount
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var observer tally.Observer
	if opts.Verbose && opts.OnMatch != nil {
		observer = opts.OnMatch
	}

	run := tally.New(observer)

	for line := range source.Lines() {
		run.Process(line)
	}

	if err := source.Err(); err != nil {
		return nil, err
	}

	return buildResult(run, opts.TopCount), nil
}

func buildResult(run *tally.Tally, topCount int) *Result {
	result := &Result{
		Lines:              run.Lines(),
		DistinctSenders:    run.DistinctSenders(),
		DistinctRecipients: run.DistinctRecipients(),
		DistinctCodes:      run.DistinctCodes(),
		Delay:              stats.Weighted(run.MailDelay.Entries()),
		Size:               stats.Metrics(run.MailSize.Entries()),
	}

	result.Reports = []Report{
		newReport(StatMailFrom, topCount, run.MailFrom.Entries(), nil),
		newReport(StatMailTo, topCount, run.MailTo.Entries(), nil),
		newReport(StatSMTPCode, topCount, run.SMTPCode.Entries(), func(row *Row) {
			row.Description = smtpcode.Describe(row.Label)
		}),
		newReport(StatMailSize, topCount, run.MailSize.Entries(), nil),
		newReport(StatDeferReason, topCount, run.DeferReason.Entries(), func(row *Row) {
			row.Label = extract.TrimDelimiters(row.Label)
		}),
		newReport(StatMailDelay, topCount, run.MailDelay.Entries(), nil),
	}

	return result
}

func newReport(stat Statistic, topCount int, entries []types.Entry, decorate func(*Row)) Report {
	metric, label := stat.Columns()

	ranked := rank.TopN(entries, topCount)
	rows := make([]Row, 0, len(ranked))

	for _, entry := range ranked {
		row := Row{Metric: entry.Metric, Label: entry.Label}
		if decorate != nil {
			decorate(&row)
		}

		rows = append(rows, row)
	}

	return Report{
		Statistic: stat,
		Title:     fmt.Sprintf("TOP %d %s", topCount, stat.Title()),
		Columns:   [2]string{metric, label},
		Rows:      rows,
	}
}
