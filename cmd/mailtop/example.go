//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/mailtop/internal/extract"
	"github.com/farcloser/mailtop/internal/input"
)

var (
	errExampleArgs = errors.New("expected exactly one argument: log file path or \"-\" for stdin")
	errEmptyInput  = errors.New("input has no lines")
)

func exampleCommand() *cli.Command {
	return &cli.Command{
		Name:      "example",
		Usage:     "Display the first log line split into columns, with the fields mailtop extracts from it",
		ArgsUsage: "<file | ->",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errExampleArgs, cmd.NArg())
			}

			source, err := input.Open(ctx, cmd.Args().First())
			if err != nil {
				return err
			}
			defer source.Close()

			next, stop := iter.Pull(source.Lines())
			defer stop()

			if line, ok := next(); ok {
				return printExample(os.Stdout, line)
			}

			if err := source.Err(); err != nil {
				return err
			}

			return fmt.Errorf("%s: %w", source.Name(), errEmptyInput)
		},
	}
}

func printExample(out io.Writer, line string) error {
	var builder strings.Builder

	builder.WriteString("Displaying the first maillog line:\n\ncol:\tvalue:\n\n")

	for idx, part := range strings.Split(line, " ") {
		fmt.Fprintf(&builder, "%d:\t%s\n", idx, part)
	}

	matches := extract.All(line)
	if len(matches) > 0 {
		builder.WriteString("\nfield:\tvalue:\n\n")

		for _, match := range matches {
			fmt.Fprintf(&builder, "%s:\t%s\n", match.Kind, match.Value)
		}
	}

	_, err := io.WriteString(out, builder.String())

	return err
}
