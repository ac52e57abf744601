package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// CompressedExt marks output paths that are written as LZ4 frames.
const CompressedExt = ".lz4"

// IsCompressedPath reports whether path ends with CompressedExt.
func IsCompressedPath(path string) bool {
	return strings.HasSuffix(path, CompressedExt)
}

// NewCompressedWriter wraps w in an LZ4 frame writer. Close flushes the frame
// but does not close w.
func NewCompressedWriter(w io.Writer) io.WriteCloser {
	return lz4.NewWriter(w)
}

// NewCompressedReader decompresses an LZ4 frame stream.
func NewCompressedReader(r io.Reader) io.Reader {
	return lz4.NewReader(r)
}

// Create opens path for writing, compressing the stream if the path has the
// CompressedExt suffix. An empty path or "-" writes to stdout.
func Create(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}

	if !IsCompressedPath(path) {
		return file, nil
	}

	return &compressedFile{WriteCloser: NewCompressedWriter(file), file: file}, nil
}

// Open opens path for reading, decompressing *.lz4 files. "-" reads stdin.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	if !IsCompressedPath(path) {
		return file, nil
	}

	return struct {
		io.Reader
		io.Closer
	}{NewCompressedReader(file), file}, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

type compressedFile struct {
	io.WriteCloser

	file *os.File
}

func (c *compressedFile) Close() error {
	return errors.Join(c.WriteCloser.Close(), c.file.Close())
}
