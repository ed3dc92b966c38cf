// Package mmap maps table files into memory read-only.
//
// Loaders decode a file front to back exactly once, so every mapping is
// advised as sequential with read-ahead on Unix (mmap(2), madvise(2)). On
// Windows the file is mapped with CreateFileMapping/MapViewOfFile.
//
//	m, err := mmap.Open("letters.csv")
//	if err != nil { ... }
//	defer m.Close()
//	data := m.Bytes()
//
// The slice returned by Bytes must not be used after Close.
package mmap
