//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/farcloser/mailtop"
	"github.com/farcloser/mailtop/internal/config"
	"github.com/farcloser/mailtop/internal/input"
	"github.com/farcloser/mailtop/internal/progress"
	"github.com/farcloser/mailtop/internal/render"
	"github.com/farcloser/mailtop/internal/types"
)

var errInvalidArgCount = errors.New("expected exactly one argument: log file path or \"-\" for stdin")

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Rank senders, recipients, SMTP codes, sizes, deferral reasons and delays of a mail log",
		ArgsUsage: "<file | ->",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "top",
				Aliases: []string{"t"},
				Usage:   "Number of rows per report",
				Value:   mailtop.DefaultTopCount,
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log every extracted field",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: auto, plain, table, console, json, markdown",
				Value:   render.FormatAuto,
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "Do not draw the progress bar",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file (default: $HOME/.config/mailtop/config.yml)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
			}

			inputPath := cmd.Args().First()

			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}

			renderer, err := render.New(cfg.Format, inputPath, isTerminal(os.Stdout))
			if err != nil {
				return err
			}

			source, err := input.Open(ctx, inputPath)
			if err != nil {
				return err
			}
			defer source.Close()

			fmt.Fprintf(os.Stderr, "Parsing logfile %s\n", source.Name())

			opts := cfg.Options()
			opts.OnMatch = logMatch

			var total int64
			if cfg.Progress && isTerminal(os.Stderr) {
				total = source.Size()
			}

			bar := progress.New(os.Stderr, total)

			result, err := mailtop.Analyze(&trackedSource{Source: source, bar: bar}, opts)

			bar.Done()

			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Analyzed %d lines\n\n", result.Lines)

			return renderer.Render(os.Stdout, result)
		},
	}
}

// resolveConfig layers explicitly set flags over the config file and environment.
func resolveConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return cfg, err
	}

	if cfg.ConfigPath != "" {
		slog.Debug("config loaded", "path", cfg.ConfigPath)
	}

	if cmd.IsSet("top") {
		cfg.Top = cmd.Int("top")
	}

	if cmd.IsSet("verbose") {
		cfg.Verbose = cmd.Bool("verbose")
	}

	if cmd.IsSet("format") {
		cfg.Format = cmd.String("format")
	}

	if cmd.Bool("no-progress") {
		cfg.Progress = false
	}

	return cfg, cfg.Validate()
}

func logMatch(match types.Match) {
	slog.Info("match", "kind", match.Kind.String(), "value", match.Value)
}

func isTerminal(file *os.File) bool {
	return term.IsTerminal(int(file.Fd())) //nolint:gosec // file descriptors fit in int
}
