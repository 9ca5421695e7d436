//go:build !unix

package mmap

import "os"

// Open reads the file at path into memory.
//
// Empty files produce a Region with no data.
func Open(path string) (*Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return &Region{}, nil
	}
	return &Region{data: data}, nil
}

// Close releases the buffered contents. Close is idempotent.
func (r *Region) Close() error {
	r.data = nil
	return nil
}
