package xz

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/mailtop/internal/integration/binary"
)

// Available reports whether xz streams can be decompressed on this system.
func Available() bool {
	_, found := binary.Available(name)

	return found
}

// Reader streams the decompressed output of an xz process. It is not safe for concurrent use.
type Reader struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer
	waited bool
	err    error
}

// NewReader starts xz on input. A corrupt stream is reported by Read once the output ends.
func NewReader(ctx context.Context, input io.Reader) (*Reader, error) {
	slog.Debug("xz.NewReader", "stage", "start")

	xzPath, err := binary.Require(name)
	if err != nil {
		return nil, err
	}

	reader := &Reader{}

	cmd := exec.CommandContext(ctx, xzPath, "--decompress", "--stdout", "--quiet")
	cmd.Stdin = input
	cmd.Stderr = &reader.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrCommandFailure, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrCommandFailure, err)
	}

	reader.cmd = cmd
	reader.stdout = stdout

	return reader, nil
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.stdout.Read(p)
	if errors.Is(err, io.EOF) {
		if waitErr := r.wait(); waitErr != nil {
			return n, waitErr
		}
	}

	return n, err
}

func (r *Reader) wait() error {
	if r.waited {
		return r.err
	}

	r.waited = true

	if err := r.cmd.Wait(); err != nil {
		slog.Debug("xz.Reader", "stage", "error")

		r.err = fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, strings.TrimSpace(r.stderr.String()), err)

		return r.err
	}

	slog.Debug("xz.Reader", "stage", "done")

	return nil
}

// Close stops xz and reaps it. Stopping before the end of the stream is not an error.
func (r *Reader) Close() error {
	if r.waited {
		return nil
	}

	// Closing our end makes a still-writing xz exit on a broken pipe.
	_ = r.stdout.Close()
	_ = r.wait()

	return nil
}
