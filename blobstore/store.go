package blobstore

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore is an abstraction for accessing immutable data blobs.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)

	// List returns the names of all blobs starting with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	// ReadAt reads len(p) bytes at offset off, with io.ReaderAt semantics.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	io.Closer
	// Size returns the size of the blob in bytes.
	Size() int64
}

// Mappable is an optional interface for Blobs whose content is already in
// memory.
type Mappable interface {
	// Bytes returns the underlying byte slice.
	// The slice is valid until the Blob is closed.
	Bytes() ([]byte, error)
}

// Downloader is an optional interface for stores that can fetch a whole blob
// faster than by sequential ReadAt calls (e.g. with parallel ranged GETs).
type Downloader interface {
	Download(ctx context.Context, name string) ([]byte, error)
}

// ReadAll returns the full content of the named blob.
//
// It prefers Downloader, then Mappable, and falls back to reading the blob
// in chunks.
func ReadAll(ctx context.Context, store BlobStore, name string) ([]byte, error) {
	if d, ok := store.(Downloader); ok {
		return d.Download(ctx, name)
	}

	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	if m, ok := b.(Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return nil, err
		}
		// The mapping dies with the blob.
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	}

	out, err := io.ReadAll(NewReader(ctx, b))
	if err != nil {
		return nil, fmt.Errorf("read blob %q: %w", name, err)
	}
	return out, nil
}

const readChunk = 1 << 20

// Reader adapts a Blob to io.Reader for sequential decoding.
type Reader struct {
	ctx  context.Context
	blob Blob
	off  int64
}

// NewReader returns a Reader positioned at the start of b.
func NewReader(ctx context.Context, b Blob) *Reader {
	return &Reader{ctx: ctx, blob: b}
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	if r.off >= r.blob.Size() {
		return 0, io.EOF
	}
	if len(p) > readChunk {
		p = p[:readChunk]
	}
	if rem := r.blob.Size() - r.off; int64(len(p)) > rem {
		p = p[:rem]
	}
	n, err := r.blob.ReadAt(r.ctx, p, r.off)
	r.off += int64(n)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}
