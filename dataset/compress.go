package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Suffixes tried, in order, when a file is not found uncompressed.
const (
	suffixGzip = ".gz"
	suffixZstd = ".zst"
)

// reader reads dataset files, decompressing by suffix.
type reader struct {
	zstd *zstd.Decoder
}

func newReader() (*reader, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("dataset: zstd decoder: %w", err)
	}
	return &reader{zstd: dec}, nil
}

func (r *reader) close() {
	r.zstd.Close()
}

// readFile returns the contents of path, or of path.gz or path.zst when
// path itself does not exist. A path that already carries one of those
// suffixes is decompressed as well.
func (r *reader) readFile(path string) ([]byte, error) {
	for _, candidate := range []string{path, path + suffixGzip, path + suffixZstd} {
		data, err := os.ReadFile(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return r.decode(candidate, data)
	}
	return nil, fmt.Errorf("dataset: open %s: %w", path, fs.ErrNotExist)
}

func (r *reader) decode(name string, data []byte) ([]byte, error) {
	switch {
	case strings.HasSuffix(name, suffixGzip):
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("dataset: gunzip %s: %w", name, err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("dataset: gunzip %s: %w", name, err)
		}
		return out, nil
	case strings.HasSuffix(name, suffixZstd):
		out, err := r.zstd.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("dataset: unzstd %s: %w", name, err)
		}
		return out, nil
	}
	return data, nil
}
