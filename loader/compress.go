package loader

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression suffixes recognised by Decompress.
const (
	extGzip = ".gz"
	extZstd = ".zst"
	extLZ4  = ".lz4"
)

// Decompress wraps r with a decompressor chosen by the extension of name and
// returns name without that extension. Unknown extensions pass r through.
func Decompress(name string, r io.Reader) (io.ReadCloser, string, error) {
	switch {
	case strings.HasSuffix(name, extGzip):
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, "", fmt.Errorf("gzip: %w", err)
		}
		return zr, strings.TrimSuffix(name, extGzip), nil
	case strings.HasSuffix(name, extZstd):
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, "", fmt.Errorf("zstd: %w", err)
		}
		return zr.IOReadCloser(), strings.TrimSuffix(name, extZstd), nil
	case strings.HasSuffix(name, extLZ4):
		return io.NopCloser(lz4.NewReader(r)), strings.TrimSuffix(name, extLZ4), nil
	default:
		return io.NopCloser(r), name, nil
	}
}
