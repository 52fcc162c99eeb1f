package types

// Kind identifies the field a pattern extracts from a log line.
type Kind int

const (
	KindMailFrom Kind = iota
	KindMailTo
	KindMailSize
	KindMailDelay
	KindSMTPCode
	KindDeferReason
)

func (k Kind) String() string {
	switch k {
	case KindMailFrom:
		return "mail-from"
	case KindMailTo:
		return "mail-to"
	case KindMailSize:
		return "mail-size"
	case KindMailDelay:
		return "mail-delay"
	case KindSMTPCode:
		return "smtp-code"
	case KindDeferReason:
		return "defer-reason"
	}

	return "unknown"
}

// Match is a single successful extraction.
type Match struct {
	Kind  Kind
	Value string
}

// Entry is one aggregated key with its metric (a count or a size).
type Entry struct {
	Label  string
	Metric int64
}
