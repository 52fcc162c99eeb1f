// Package input opens mail logs as line sources, transparently decompressing rotated archives.
package input

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
	"sync/atomic"

	"github.com/farcloser/primordium/fault"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/farcloser/mailtop/internal/integration/xz"
)

// Stdin is the path naming standard input.
const Stdin = "-"

var errNotRegular = errors.New("not a regular file")

// Compression identifies the container of an input.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
	CompressionBzip2
	CompressionXz
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	case CompressionBzip2:
		return "bzip2"
	case CompressionXz:
		return "xz"
	}

	return "unknown"
}

//nolint:gochecknoglobals // magic numbers, effectively const
var magics = []struct {
	prefix      []byte
	compression Compression
}{
	{prefix: []byte{0x1f, 0x8b}, compression: CompressionGzip},
	{prefix: []byte{0x28, 0xb5, 0x2f, 0xfd}, compression: CompressionZstd},
	{prefix: []byte("BZh"), compression: CompressionBzip2},
	{prefix: []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}, compression: CompressionXz},
}

// Detect sniffs the compression of the stream behind reader without consuming it.
func Detect(reader *bufio.Reader) Compression {
	// A short or empty stream is plain text.
	head, _ := reader.Peek(6)

	for _, magic := range magics {
		if bytes.HasPrefix(head, magic.prefix) {
			return magic.compression
		}
	}

	return CompressionNone
}

// countingReader may be drained by an external decoder's copy goroutine while Consumed is polled.
type countingReader struct {
	reader io.Reader
	count  atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.count.Add(int64(n))

	return n, err
}

// Source is a single-use sequence of lines.
type Source struct {
	name        string
	size        int64
	compression Compression
	raw         *countingReader
	reader      *bufio.Reader
	closers     []io.Closer
	err         error
}

// Open opens path, or standard input for "-". A missing or unreadable file fails here, before any
// line is read.
func Open(ctx context.Context, path string) (*Source, error) {
	if path == Stdin {
		return NewSource(ctx, "stdin", os.Stdin, 0)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", path, err)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, errNotRegular)
	}

	file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified log files
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	source, err := NewSource(ctx, path, file, info.Size())
	if err != nil {
		file.Close()

		return nil, err
	}

	source.closers = append(source.closers, file)

	return source, nil
}

// NewSource wraps reader. size is the raw byte length when known, 0 otherwise.
func NewSource(ctx context.Context, name string, reader io.Reader, size int64) (*Source, error) {
	raw := &countingReader{reader: reader}
	sniffer := bufio.NewReader(raw)

	source := &Source{
		name:        name,
		size:        size,
		compression: Detect(sniffer),
		raw:         raw,
	}

	var decoded io.Reader

	switch source.compression {
	case CompressionGzip:
		gz, err := gzip.NewReader(sniffer)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", fault.ErrReadFailure, name, err)
		}

		source.closers = append(source.closers, gz)
		decoded = gz
	case CompressionZstd:
		decoder, err := zstd.NewReader(sniffer)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", fault.ErrReadFailure, name, err)
		}

		source.closers = append(source.closers, decoder.IOReadCloser())
		decoded = decoder
	case CompressionBzip2:
		decoded = bzip2.NewReader(sniffer)
	case CompressionXz:
		decoder, err := xz.NewReader(ctx, sniffer)
		if err != nil {
			return nil, fmt.Errorf("decompressing %s: %w", name, err)
		}

		source.closers = append(source.closers, decoder)
		decoded = decoder
	default:
		decoded = sniffer
	}

	source.reader = bufio.NewReader(decoded)

	return source, nil
}

// Name returns the path the source was opened from.
func (s *Source) Name() string {
	return s.name
}

// Size returns the raw (possibly compressed) size in bytes, or 0 when unknown.
func (s *Source) Size() int64 {
	return s.size
}

// Consumed returns the number of raw bytes read so far.
func (s *Source) Consumed() int64 {
	return s.raw.count.Load()
}

// Compression returns the detected container.
func (s *Source) Compression() Compression {
	return s.compression
}

// Lines yields every line without its terminator. Iteration stops at the first read error, which
// Err then reports.
func (s *Source) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			line, err := s.reader.ReadString('\n')
			if len(line) > 0 {
				if !yield(strings.TrimRight(line, "\r\n")) {
					return
				}
			}

			if errors.Is(err, io.EOF) {
				return
			}

			if err != nil {
				s.err = fmt.Errorf("%w: %s: %w", fault.ErrReadFailure, s.name, err)

				return
			}
		}
	}
}

// Err returns the read error that ended iteration, if any.
func (s *Source) Err() error {
	return s.err
}

// Close releases decoders, then the underlying file they read from.
func (s *Source) Close() error {
	var errs []error

	for _, closer := range s.closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
