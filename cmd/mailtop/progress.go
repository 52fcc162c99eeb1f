package main

import (
	"iter"

	"github.com/farcloser/mailtop/internal/input"
	"github.com/farcloser/mailtop/internal/progress"
)

// trackedSource advances the progress bar as lines are consumed.
type trackedSource struct {
	*input.Source

	bar *progress.Bar
}

func (t *trackedSource) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range t.Source.Lines() {
			t.bar.Update(t.Consumed())

			if !yield(line) {
				return
			}
		}
	}
}
