// Package extract holds the field extractors for MTA log lines.
//
// The line grammar is loose: each extractor anchors on a literal token and
// captures what follows it. Lines not carrying an anchor are a miss for that
// extractor, never an error.
//
//	from=<sender>,            MailFrom
//	to=<recipient>,           MailTo
//	size=12345,               MailSize
//	delay=3,                  MailDelay
//	said: 550 ...             SMTPCode
//	status=deferred (reason)  DeferReason
package extract

import (
	"regexp"
	"strconv"

	"github.com/farcloser/mailtop/internal/types"
)

// Unknown replaces an empty address (the null sender <>).
const Unknown = "UNKNOWN"

//nolint:gochecknoglobals // compiled patterns, effectively const
var (
	mailFromPattern    = regexp.MustCompile(`from=<(.*?)>,`)
	mailToPattern      = regexp.MustCompile(`to=<(.*?)>,`)
	mailSizePattern    = regexp.MustCompile(`size=(\d+),`)
	mailDelayPattern   = regexp.MustCompile(`delay=(\d+),`)
	smtpCodePattern    = regexp.MustCompile(`said: (\d+) `)
	deferReasonPattern = regexp.MustCompile(`status=deferred (.*)`)
)

func capture(pattern *regexp.Regexp, line string) (string, bool) {
	matches := pattern.FindStringSubmatch(line)
	if matches == nil {
		return "", false
	}

	return matches[1], true
}

func address(pattern *regexp.Regexp, line string) (string, bool) {
	value, ok := capture(pattern, line)
	if !ok {
		return "", false
	}

	if value == "" {
		return Unknown, true
	}

	return value, true
}

// MailFrom returns the sender address of a line.
func MailFrom(line string) (string, bool) {
	return address(mailFromPattern, line)
}

// MailTo returns the recipient address of a line.
func MailTo(line string) (string, bool) {
	return address(mailToPattern, line)
}

// MailSize returns the message size in bytes. Values overflowing int64 are a miss.
func MailSize(line string) (int64, bool) {
	value, ok := capture(mailSizePattern, line)
	if !ok {
		return 0, false
	}

	size, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false
	}

	return size, true
}

// MailDelay returns the delivery delay as its digit string. Delays are counted per distinct value, never summed.
func MailDelay(line string) (string, bool) {
	return capture(mailDelayPattern, line)
}

// SMTPCode returns the reply code quoted from a remote server.
func SMTPCode(line string) (string, bool) {
	return capture(smtpCodePattern, line)
}

// DeferReason returns everything after "status=deferred ", verbatim.
func DeferReason(line string) (string, bool) {
	return capture(deferReasonPattern, line)
}

// All runs every extractor over the line and returns the hits in processing order.
func All(line string) []types.Match {
	var matches []types.Match

	if value, ok := MailFrom(line); ok {
		matches = append(matches, types.Match{Kind: types.KindMailFrom, Value: value})
	}

	if value, ok := MailTo(line); ok {
		matches = append(matches, types.Match{Kind: types.KindMailTo, Value: value})
	}

	if size, ok := MailSize(line); ok {
		matches = append(matches, types.Match{Kind: types.KindMailSize, Value: strconv.FormatInt(size, 10)})
	}

	if value, ok := MailDelay(line); ok {
		matches = append(matches, types.Match{Kind: types.KindMailDelay, Value: value})
	}

	if value, ok := SMTPCode(line); ok {
		matches = append(matches, types.Match{Kind: types.KindSMTPCode, Value: value})
	}

	if value, ok := DeferReason(line); ok {
		matches = append(matches, types.Match{Kind: types.KindDeferReason, Value: value})
	}

	return matches
}

// TrimDelimiters drops exactly one leading and one trailing character, as deferred reasons are
// logged wrapped in parentheses or quotes.
func TrimDelimiters(reason string) string {
	runes := []rune(reason)
	if len(runes) < 2 {
		return ""
	}

	return string(runes[1 : len(runes)-1])
}
