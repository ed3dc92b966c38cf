//go:build unix

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapFile maps f read-only and asks the kernel to read ahead, since table
// files are decoded in one front-to-back pass.
func mapFile(f *os.File, size int) ([]byte, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	for _, advice := range []int{unix.MADV_SEQUENTIAL, unix.MADV_WILLNEED} {
		if err := unix.Madvise(data, advice); err != nil && err != unix.EINVAL {
			_ = unix.Munmap(data)
			return nil, err
		}
	}
	return data, nil
}

func unmapFile(data []byte) error {
	return unix.Munmap(data)
}
