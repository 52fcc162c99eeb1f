// Package tally drives the extractors over each line of a single pass and owns the aggregates.
package tally

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/farcloser/mailtop/internal/aggregate"
	"github.com/farcloser/mailtop/internal/extract"
	"github.com/farcloser/mailtop/internal/types"
)

// Observer receives every successful extraction.
type Observer func(types.Match)

// Tally holds the aggregates of one pass. It is not safe for concurrent use.
type Tally struct {
	MailFrom    *aggregate.Counter
	MailTo      *aggregate.Counter
	MailDelay   *aggregate.Counter
	SMTPCode    *aggregate.Counter
	DeferReason *aggregate.Counter

	// MailSize is keyed by the sender in effect when the size was seen, not by message.
	// A sender with several messages keeps only the last size.
	MailSize *aggregate.LastValue

	// currentSender is the last MailFrom value of the pass. It is only written by MailFrom hits and
	// only read when attributing a size.
	currentSender string
	hasSender     bool

	lines    int
	observer Observer

	// trace is resolved once so the per-line debug record costs nothing when debug is off.
	trace bool
}

// New returns an empty Tally. observer may be nil.
func New(observer Observer) *Tally {
	return &Tally{
		MailFrom:    aggregate.NewCounter(),
		MailTo:      aggregate.NewCounter(),
		MailDelay:   aggregate.NewCounter(),
		SMTPCode:    aggregate.NewCounter(),
		DeferReason: aggregate.NewCounter(),
		MailSize:    aggregate.NewLastValue(),
		observer:    observer,
		trace:       slog.Default().Enabled(context.Background(), slog.LevelDebug),
	}
}

func (t *Tally) emit(kind types.Kind, value string) {
	if t.observer != nil {
		t.observer(types.Match{Kind: kind, Value: value})
	}
}

// Process feeds one line to every extractor. The sender is extracted first so a size on the same
// line is attributed to it.
func (t *Tally) Process(line string) {
	t.lines++

	if t.trace {
		slog.Debug("tally.Process", "line", t.lines)
	}

	if sender, ok := extract.MailFrom(line); ok {
		t.currentSender = sender
		t.hasSender = true
		t.MailFrom.Add(sender)
		t.emit(types.KindMailFrom, sender)
	}

	if recipient, ok := extract.MailTo(line); ok {
		t.MailTo.Add(recipient)
		t.emit(types.KindMailTo, recipient)
	}

	// A size seen before any sender cannot be attributed and is dropped.
	if size, ok := extract.MailSize(line); ok && t.hasSender {
		t.MailSize.Set(t.currentSender, size)
		t.emit(types.KindMailSize, strconv.FormatInt(size, 10))
	}

	if delay, ok := extract.MailDelay(line); ok {
		t.MailDelay.Add(delay)
		t.emit(types.KindMailDelay, delay)
	}

	if code, ok := extract.SMTPCode(line); ok {
		t.SMTPCode.Add(code)
		t.emit(types.KindSMTPCode, code)
	}

	if reason, ok := extract.DeferReason(line); ok {
		t.DeferReason.Add(reason)
		t.emit(types.KindDeferReason, reason)
	}
}

// CurrentSender returns the correlation key sizes are currently attributed to.
func (t *Tally) CurrentSender() (string, bool) {
	return t.currentSender, t.hasSender
}

// Lines returns the number of lines processed.
func (t *Tally) Lines() int {
	return t.lines
}

// DistinctSenders returns the number of distinct MailFrom values.
func (t *Tally) DistinctSenders() int {
	return t.MailFrom.Len()
}

// DistinctRecipients returns the number of distinct MailTo values.
func (t *Tally) DistinctRecipients() int {
	return t.MailTo.Len()
}

// DistinctCodes returns the number of distinct SMTP reply codes.
func (t *Tally) DistinctCodes() int {
	return t.SMTPCode.Len()
}
