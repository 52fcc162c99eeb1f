package input_test

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/farcloser/primordium/fault"
	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/farcloser/mailtop/internal/input"
)

const fixture = "first from=<a@x>, size=1,\r\nsecond to=<b@y>, delay=2,\nlast line without newline"

//nolint:gochecknoglobals // test data
var fixtureLines = []string{
	"first from=<a@x>, size=1,",
	"second to=<b@y>, delay=2,",
	"last line without newline",
}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	return path
}

func readAll(t *testing.T, path string) (*input.Source, []string) {
	t.Helper()

	source, err := input.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open(%s): %v", path, err)
	}

	t.Cleanup(func() { _ = source.Close() })

	lines := slices.Collect(source.Lines())
	if err := source.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}

	return source, lines
}

func gzipped(t *testing.T, content string) []byte {
	t.Helper()

	var buf bytes.Buffer

	writer := gzip.NewWriter(&buf)
	if _, err := writer.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}

	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	return buf.Bytes()
}

func zstded(t *testing.T, content string) []byte {
	t.Helper()

	var buf bytes.Buffer

	encoder, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := encoder.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}

	if err := encoder.Close(); err != nil {
		t.Fatal(err)
	}

	return buf.Bytes()
}

func TestOpenPlain(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "maillog", []byte(fixture))
	source, lines := readAll(t, path)

	if diff := cmp.Diff(fixtureLines, lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}

	if source.Compression() != input.CompressionNone {
		t.Errorf("Compression = %s, want none", source.Compression())
	}

	if source.Size() != int64(len(fixture)) || source.Consumed() != int64(len(fixture)) {
		t.Errorf("Size = %d, Consumed = %d, want %d", source.Size(), source.Consumed(), len(fixture))
	}
}

func TestOpenCompressed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content []byte
		want    input.Compression
	}{
		{name: "maillog.1.gz", content: gzipped(t, fixture), want: input.CompressionGzip},
		{name: "maillog.2.zst", content: zstded(t, fixture), want: input.CompressionZstd},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			source, lines := readAll(t, writeFile(t, tc.name, tc.content))

			if source.Compression() != tc.want {
				t.Errorf("Compression = %s, want %s", source.Compression(), tc.want)
			}

			if diff := cmp.Diff(fixtureLines, lines); diff != "" {
				t.Errorf("lines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOpenBzip2(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("bzip2"); err != nil {
		t.Skip("bzip2 binary not available")
	}

	cmd := exec.Command("bzip2", "--compress", "--stdout")
	cmd.Stdin = strings.NewReader(fixture)

	compressed, err := cmd.Output()
	if err != nil {
		t.Fatalf("compressing fixture: %v", err)
	}

	source, lines := readAll(t, writeFile(t, "maillog.3.bz2", compressed))

	if source.Compression() != input.CompressionBzip2 {
		t.Errorf("Compression = %s, want bzip2", source.Compression())
	}

	if diff := cmp.Diff(fixtureLines, lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenXzStreamsLines(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("xz"); err != nil {
		t.Skip("xz binary not available")
	}

	// Big enough that xz is still producing output when the first line is handed out.
	const repeat = 1 << 14

	content := strings.Repeat(fixture+"\n", repeat)

	cmd := exec.Command("xz", "--compress", "--stdout")
	cmd.Stdin = strings.NewReader(content)

	compressed, err := cmd.Output()
	if err != nil {
		t.Fatalf("compressing fixture: %v", err)
	}

	path := writeFile(t, "maillog.4.xz", compressed)

	source, lines := readAll(t, path)

	if source.Compression() != input.CompressionXz {
		t.Errorf("Compression = %s, want xz", source.Compression())
	}

	if len(lines) != repeat*len(fixtureLines) {
		t.Fatalf("got %d lines, want %d", len(lines), repeat*len(fixtureLines))
	}

	if diff := cmp.Diff(fixtureLines, lines[:len(fixtureLines)]); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}

	// Stopping after the first line must not hang nor fail.
	partial, err := input.Open(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}

	next, stop := iter.Pull(partial.Lines())

	if first, ok := next(); !ok || first != fixtureLines[0] {
		t.Errorf("first line = %q, %v", first, ok)
	}

	stop()

	if err := partial.Close(); err != nil {
		t.Errorf("Close after partial read: %v", err)
	}
}

func TestOpenCorruptXz(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("xz"); err != nil {
		t.Skip("xz binary not available")
	}

	corrupt := append([]byte{0xfd, '7', 'z', 'X', 'Z', 0x00}, []byte("not really xz")...)

	source, err := input.Open(context.Background(), writeFile(t, "maillog.5.xz", corrupt))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	t.Cleanup(func() { _ = source.Close() })

	for range source.Lines() {
	}

	if !errors.Is(source.Err(), fault.ErrReadFailure) {
		t.Errorf("Err = %v, want ErrReadFailure", source.Err())
	}
}

func TestOpenEmpty(t *testing.T) {
	t.Parallel()

	source, lines := readAll(t, writeFile(t, "empty", nil))

	if len(lines) != 0 || source.Size() != 0 {
		t.Errorf("empty file: lines = %v, size = %d", lines, source.Size())
	}
}

func TestOpenFailures(t *testing.T) {
	t.Parallel()

	if _, err := input.Open(context.Background(), filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Open(missing) should fail")
	}

	if _, err := input.Open(context.Background(), t.TempDir()); err == nil {
		t.Error("Open(directory) should fail")
	}

	if _, err := input.Open(context.Background(), writeFile(t, "broken.gz", []byte{0x1f, 0x8b, 0x00})); err == nil {
		t.Error("Open(truncated gzip) should fail")
	}
}

func TestNewSourceFromReader(t *testing.T) {
	t.Parallel()

	source, err := input.NewSource(context.Background(), "stdin", strings.NewReader("a\nb\n"), 0)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"a", "b"}, slices.Collect(source.Lines())); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}

	if source.Name() != "stdin" || source.Size() != 0 {
		t.Errorf("Name = %q, Size = %d", source.Name(), source.Size())
	}
}
