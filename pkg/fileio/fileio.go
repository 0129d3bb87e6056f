// Package fileio opens map and graph files, transparently handling compressed variants.
package fileio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var ErrUnknownCompression = errors.New("fileio: unknown compression")

type Compression int

const (
	None Compression = iota
	Gzip
	Zstd
)

// CompressionOf derives the compression from the file extension
func CompressionOf(filename string) Compression {
	switch {
	case strings.HasSuffix(filename, ".gz"):
		return Gzip
	case strings.HasSuffix(filename, ".zst"):
		return Zstd
	}
	return None
}

type readCloser struct {
	io.Reader
	closers []func() error
}

func (rc *readCloser) Close() error {
	var errs []error
	for _, c := range rc.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open returns a reader of the decompressed content of filename
func Open(filename string) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(bufio.NewReader(file), CompressionOf(filename))
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}
	return &readCloser{Reader: r, closers: []func() error{r.Close, file.Close}}, nil
}

// NewReader wraps r with a decompressor
func NewReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case None:
		return io.NopCloser(r), nil
	case Gzip:
		return gzip.NewReader(r)
	case Zstd:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	}
	return nil, ErrUnknownCompression
}

type writeCloser struct {
	io.Writer
	closers []func() error
}

func (wc *writeCloser) Close() error {
	var errs []error
	for _, c := range wc.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Create creates filename and returns a writer compressing according to its extension.
// Close flushes the compressor and closes the file.
func Create(filename string) (io.WriteCloser, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	buffered := bufio.NewWriter(file)
	var w io.WriteCloser
	switch CompressionOf(filename) {
	case Gzip:
		w = gzip.NewWriter(buffered)
	case Zstd:
		w, err = zstd.NewWriter(buffered)
		if err != nil {
			file.Close()
			return nil, err
		}
	default:
		w = nopWriteCloser{buffered}
	}
	return &writeCloser{Writer: w, closers: []func() error{w.Close, buffered.Flush, file.Close}}, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
