// Package progress renders a single-line progress bar for the analysis pass.
package progress

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
)

const width = 40

// Bar tracks raw bytes consumed against a known total. The zero total disables it.
type Bar struct {
	out   io.Writer
	total int64
	model progress.Model
	last  int
	drawn bool
}

// New returns a bar writing to out. A total of 0 or less (empty input, stdin) yields a disabled bar.
func New(out io.Writer, total int64) *Bar {
	return &Bar{
		out:   out,
		total: total,
		model: progress.New(progress.WithDefaultGradient(), progress.WithWidth(width)),
		last:  -1,
	}
}

// Enabled reports whether the bar will draw anything.
func (b *Bar) Enabled() bool {
	return b != nil && b.total > 0
}

// Update redraws the bar when the whole percentage changes.
func (b *Bar) Update(done int64) {
	if !b.Enabled() {
		return
	}

	done = min(max(done, 0), b.total)

	percent := int(done * 100 / b.total)
	if percent == b.last {
		return
	}

	b.last = percent
	b.drawn = true

	fmt.Fprintf(b.out, "\r%s", b.model.ViewAs(float64(done)/float64(b.total)))
}

// Done completes the line, if one was drawn.
func (b *Bar) Done() {
	if b == nil || !b.drawn {
		return
	}

	b.Update(b.total)
	fmt.Fprintln(b.out)
}
