//nolint:tagliatelle
package main

// Record is a single line in the JSONL report file.
type Record struct {
	File        string         `json:"file,omitempty"`
	Compression string         `json:"compression,omitempty"`
	Analysis    map[string]any `json:"analysis,omitempty"`
	Error       string         `json:"error,omitempty"`
	Timing      *RecordTiming  `json:"timing,omitempty"`
}

// RecordTiming captures per-file processing durations in milliseconds.
type RecordTiming struct {
	OpenMs    float64 `json:"open_ms"`
	AnalyzeMs float64 `json:"analyze_ms"`
	TotalMs   float64 `json:"total_ms"`
}

// digestRecord holds the typed fields needed by the digest command.
type digestRecord struct {
	File     string          `json:"file,omitempty"`
	Analysis *digestAnalysis `json:"analysis,omitempty"`
	Error    string          `json:"error,omitempty"`
}

type digestAnalysis struct {
	Summary digestSummary  `json:"summary"`
	Reports []digestReport `json:"reports"`
}

type digestSummary struct {
	Lines              int `json:"lines"`
	DistinctSenders    int `json:"distinct_senders"`
	DistinctRecipients int `json:"distinct_recipients"`
	DistinctCodes      int `json:"distinct_codes"`
}

type digestReport struct {
	Statistic string      `json:"statistic"`
	Title     string      `json:"title"`
	Columns   []string    `json:"columns"`
	Rows      []digestRow `json:"rows"`
}

type digestRow struct {
	Metric      int64  `json:"metric"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// codeBreakdown tracks in how many files an SMTP code ranks, and its summed count there.
type codeBreakdown struct {
	Code        string
	Description string
	Files       int
	Count       int64
}
