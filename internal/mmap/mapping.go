package mmap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

var (
	// ErrClosed is returned when reading from a closed mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrTooLarge is returned when a file does not fit in the address space.
	ErrTooLarge = errors.New("mmap: file too large")
	// ErrInvalidOffset is returned for negative read offsets.
	ErrInvalidOffset = errors.New("mmap: invalid offset")
)

// Mapping is a read-only view of a whole table file.
type Mapping struct {
	path   string
	data   []byte
	closed atomic.Bool
}

// Open maps the file at path. Empty files yield an empty mapping without a
// system mapping behind it.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("mmap: %s is a directory", path)
	}

	size := fi.Size()
	if size == 0 {
		return &Mapping{path: path}, nil
	}
	if int64(int(size)) != size {
		return nil, fmt.Errorf("%w: %s (%d bytes)", ErrTooLarge, path, size)
	}

	data, err := mapFile(f, int(size))
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	return &Mapping{path: path, data: data}, nil
}

// Path returns the file the mapping was opened from.
func (m *Mapping) Path() string {
	return m.path
}

// Close releases the mapping. Calling it more than once is a no-op.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) || len(m.data) == 0 {
		return nil
	}
	return unmapFile(m.data)
}

// Bytes returns the mapped file content, or nil after Close.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the file size in bytes.
func (m *Mapping) Size() int {
	return len(m.data)
}

// ReadAt implements io.ReaderAt over the mapped content.
func (m *Mapping) ReadAt(p []byte, off int64) (int, error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrInvalidOffset
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
