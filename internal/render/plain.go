package render

import (
	"bufio"
	"fmt"
	"io"

	"github.com/farcloser/mailtop"
	"github.com/farcloser/mailtop/internal/stats"
)

// Plain prints tab separated columns. It needs nothing from the terminal.
type Plain struct{}

func (*Plain) Render(out io.Writer, result *mailtop.Result) error {
	writer := bufio.NewWriter(out)

	fmt.Fprintf(writer, "Total unique mail_from:\t%d\n", result.DistinctSenders)
	fmt.Fprintf(writer, "Total unique mail_to:\t%d\n", result.DistinctRecipients)
	fmt.Fprintf(writer, "Total unique errors:\t%d\n", result.DistinctCodes)

	for _, report := range result.Reports {
		fmt.Fprintf(writer, "\n%s\n\n%s\t%s\n\n", report.Title, report.Columns[0], report.Columns[1])

		for _, row := range report.Rows {
			fmt.Fprintf(writer, "%d\t%s\n", row.Metric, rowLabel(row))
		}
	}

	fmt.Fprintln(writer)

	// bufio keeps the first write error; Flush reports it.
	_ = writeSummary(writer, "Delay (s)", result.Delay)
	_ = writeSummary(writer, "Size (bytes)", result.Size)

	return writer.Flush()
}

func writeSummary(out io.Writer, name string, summary stats.Summary) error {
	if summary.Samples == 0 {
		_, err := fmt.Fprintf(out, "%s:\tno samples\n", name)

		return err
	}

	_, err := fmt.Fprintf(out, "%s:\tsamples %.0f, mean %.1f, stddev %.1f, median %.0f, p95 %.0f, max %.0f\n",
		name, summary.Samples, summary.Mean, summary.StdDev, summary.Median, summary.P95, summary.Max)

	return err
}
