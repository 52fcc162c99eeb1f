// Package render prints analysis results. The core never depends on it.
package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/farcloser/primordium/format"

	"github.com/farcloser/mailtop"
	"github.com/farcloser/mailtop/internal/output"
)

const (
	FormatAuto  = "auto"
	FormatPlain = "plain"
	FormatTable = "table"
)

// ErrUnknownFormat is returned for a format name no renderer handles.
var ErrUnknownFormat = errors.New("unknown output format")

// Renderer prints a result.
type Renderer interface {
	Render(out io.Writer, result *mailtop.Result) error
}

// New returns the renderer for name. "auto" picks the table on a terminal and plain text otherwise.
// Any other name is handed to the structured formatters (console, json, markdown). object names the
// analyzed input in structured output.
func New(name, object string, terminal bool) (Renderer, error) {
	switch name {
	case FormatAuto, "":
		if terminal {
			return &Table{}, nil
		}

		return &Plain{}, nil
	case FormatPlain:
		return &Plain{}, nil
	case FormatTable:
		return &Table{}, nil
	}

	formatter, err := format.GetFormatter(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknownFormat, name, err)
	}

	return &Structured{printAll: formatter.PrintAll, object: object}, nil
}

// Structured renders through a primordium formatter.
type Structured struct {
	printAll func(data []*format.Data, out io.Writer) error
	object   string
}

func (s *Structured) Render(out io.Writer, result *mailtop.Result) error {
	data := &format.Data{
		Object: s.object,
		Meta:   output.ResultToMap(result),
	}

	return s.printAll([]*format.Data{data}, out)
}

func rowLabel(row mailtop.Row) string {
	if row.Description == "" {
		return row.Label
	}

	return fmt.Sprintf("%s (%s)", row.Label, row.Description)
}
