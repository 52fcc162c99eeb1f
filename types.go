package mailtop

import (
	"errors"
	"fmt"
	"iter"

	"github.com/farcloser/mailtop/internal/stats"
	"github.com/farcloser/mailtop/internal/types"
)

// DefaultTopCount is the number of rows per report when Options.TopCount is not set.
const DefaultTopCount = 10

// ErrInvalidTopCount is returned when a report size below 1 is requested.
var ErrInvalidTopCount = errors.New("top count must be a positive integer")

// Statistic identifies one report.
type Statistic int

const (
	StatMailFrom Statistic = iota
	StatMailTo
	StatSMTPCode
	StatMailSize
	StatDeferReason
	StatMailDelay
)

// Statistics returns every statistic in report order.
func Statistics() []Statistic {
	return []Statistic{StatMailFrom, StatMailTo, StatSMTPCode, StatMailSize, StatDeferReason, StatMailDelay}
}

func (s Statistic) String() string {
	switch s {
	case StatMailFrom:
		return "mail-from"
	case StatMailTo:
		return "mail-to"
	case StatSMTPCode:
		return "smtp-codes"
	case StatMailSize:
		return "mail-size"
	case StatDeferReason:
		return "deferred"
	case StatMailDelay:
		return "mail-delay"
	}

	return "unknown"
}

// Title returns the human name of the statistic, as used in report headings.
func (s Statistic) Title() string {
	switch s {
	case StatMailFrom:
		return "Mail From"
	case StatMailTo:
		return "Mail To"
	case StatSMTPCode:
		return "SMTP error codes"
	case StatMailSize:
		return "Biggest mails"
	case StatDeferReason:
		return "Mail deferred"
	case StatMailDelay:
		return "Mail delays"
	}

	return "Unknown"
}

// Columns returns the metric and label column headers.
func (s Statistic) Columns() (string, string) {
	switch s {
	case StatMailFrom, StatMailTo:
		return "Count", "Address"
	case StatSMTPCode:
		return "Count", "Code"
	case StatMailSize:
		return "Size", "Mail From"
	case StatDeferReason:
		return "Count", "Reason"
	case StatMailDelay:
		return "Count", "Delay"
	}

	return "Count", "Value"
}

// LineSource yields the lines of one input, once. Err reports a read failure after iteration stops.
type LineSource interface {
	Lines() iter.Seq[string]
	Err() error
}

// Options configures a run.
type Options struct {
	TopCount int // rows per report (default: DefaultTopCount)

	// Verbose enables OnMatch. When false no match events are produced.
	Verbose bool
	OnMatch func(types.Match)
}

// DefaultOptions returns the options of a plain run.
func DefaultOptions() Options {
	return Options{TopCount: DefaultTopCount}
}

// Validate reports configuration errors.
func (o Options) Validate() error {
	if o.TopCount < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidTopCount, o.TopCount)
	}

	return nil
}

// Row is one ranked line of a report.
type Row struct {
	Metric      int64
	Label       string // display label (deferred reasons have their delimiters stripped)
	Description string // SMTP code meaning, empty for other statistics
}

// Report is the top-N view of one statistic.
type Report struct {
	Statistic Statistic
	Title     string
	Columns   [2]string
	Rows      []Row
}

// Result contains everything a renderer needs.
type Result struct {
	Lines int

	DistinctSenders    int
	DistinctRecipients int
	DistinctCodes      int

	// Reports in display order: from, to, codes, sizes, deferred, delays.
	Reports []Report

	Delay stats.Summary
	Size  stats.Summary
}

// Report returns the report for a statistic.
func (r *Result) Report(stat Statistic) (Report, bool) {
	for _, report := range r.Reports {
		if report.Statistic == stat {
			return report, true
		}
	}

	return Report{}, false
}
