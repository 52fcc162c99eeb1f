// Package aggregate provides the running tallies fed by the line processor.
//
// Both aggregates remember the order in which keys were first seen, so that a stable sort over
// Entries breaks ties by first appearance.
package aggregate

import "github.com/farcloser/mailtop/internal/types"

type ordered struct {
	index   map[string]int
	entries []types.Entry
}

func newOrdered() ordered {
	return ordered{index: make(map[string]int)}
}

func (o *ordered) slot(key string) *types.Entry {
	pos, ok := o.index[key]
	if !ok {
		pos = len(o.entries)
		o.index[key] = pos
		o.entries = append(o.entries, types.Entry{Label: key})
	}

	return &o.entries[pos]
}

// Len returns the number of distinct keys.
func (o *ordered) Len() int {
	return len(o.entries)
}

// Get returns the metric for key.
func (o *ordered) Get(key string) (int64, bool) {
	pos, ok := o.index[key]
	if !ok {
		return 0, false
	}

	return o.entries[pos].Metric, true
}

// Entries returns a copy of all entries in first-insertion order.
func (o *ordered) Entries() []types.Entry {
	out := make([]types.Entry, len(o.entries))
	copy(out, o.entries)

	return out
}

// Counter counts occurrences per distinct value.
type Counter struct {
	ordered
}

func NewCounter() *Counter {
	return &Counter{ordered: newOrdered()}
}

// Add increments the count for value.
func (c *Counter) Add(value string) {
	c.slot(value).Metric++
}

// LastValue keeps the most recent metric per key. Overwriting a key keeps its original position.
type LastValue struct {
	ordered
}

func NewLastValue() *LastValue {
	return &LastValue{ordered: newOrdered()}
}

// Set records metric for key, replacing any previous one.
func (l *LastValue) Set(key string, metric int64) {
	l.slot(key).Metric = metric
}
