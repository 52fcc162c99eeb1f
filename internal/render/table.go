package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/farcloser/mailtop"
)

//nolint:gochecknoglobals // styles, effectively const
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	metricStyle = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	labelStyle  = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Left)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Table prints bordered tables, one per report.
type Table struct{}

func (*Table) Render(out io.Writer, result *mailtop.Result) error {
	totals := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(cellStyle).
		Headers("Total unique", "").
		Row("mail_from", strconv.Itoa(result.DistinctSenders)).
		Row("mail_to", strconv.Itoa(result.DistinctRecipients)).
		Row("errors", strconv.Itoa(result.DistinctCodes))

	if _, err := fmt.Fprintln(out, totals.Render()); err != nil {
		return err
	}

	for _, report := range result.Reports {
		rows := make([][]string, 0, len(report.Rows))
		for _, row := range report.Rows {
			rows = append(rows, []string{strconv.FormatInt(row.Metric, 10), rowLabel(row)})
		}

		tbl := table.New().
			Border(lipgloss.NormalBorder()).
			StyleFunc(cellStyle).
			Headers(report.Columns[0], report.Columns[1]).
			Rows(rows...)

		if _, err := fmt.Fprintf(out, "%s\n%s\n", titleStyle.Render(report.Title), tbl.Render()); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(out); err != nil {
		return err
	}

	if err := writeSummary(out, dimStyle.Render("Delay (s)"), result.Delay); err != nil {
		return err
	}

	return writeSummary(out, dimStyle.Render("Size (bytes)"), result.Size)
}

func cellStyle(row, col int) lipgloss.Style {
	switch {
	case row == table.HeaderRow:
		return headerStyle
	case col == 0:
		return metricStyle
	default:
		return labelStyle
	}
}
