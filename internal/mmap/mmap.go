// Package mmap provides read-only memory views of files.
package mmap

// Region is a read-only view of a file's contents.
//
// On Unix systems the view is backed by a shared memory mapping, so
// bytes are paged in on demand. On other platforms the whole file is
// read into memory. In both cases callers must not modify the bytes.
type Region struct {
	data []byte
}

// Bytes returns the file contents.
//
// The returned slice is only valid until Close is called.
func (r *Region) Bytes() []byte {
	return r.data
}

// Len returns the number of bytes in the region.
func (r *Region) Len() int {
	return len(r.data)
}
