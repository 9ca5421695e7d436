package faiquery

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/noamteyssier/faiquery/internal/mmap"
)

// IndexedFasta provides random access to base intervals of a
// line-wrapped FASTA file through its FAI index.
//
// The file is memory mapped on open, so a query touches only the pages
// covering the requested interval. Query results share a scratch buffer
// owned by the instance, and an IndexedFasta must therefore not be used
// from more than one goroutine at a time. Open multiple instances to
// read the same file concurrently.
type IndexedFasta struct {
	index         *FastaIndex
	region        *mmap.Region
	data          []byte
	buf           []byte
	logger        *slog.Logger
	verifyExtents bool
	closed        bool
}

// log returns the logger, falling back to a discard logger if nil.
func (f *IndexedFasta) log() *slog.Logger {
	if f.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return f.logger
}

// Open maps the FASTA file at path for querying against index.
//
// The index is not re-validated against the file contents unless
// WithVerifyExtents is given; by default a stale or mismatched index
// surfaces as ErrTruncatedFile on the first query that reaches past
// the end of the file.
func Open(index *FastaIndex, path string, opts ...Option) (*IndexedFasta, error) {
	region, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("faiquery: open fasta: %w", err)
	}

	f := &IndexedFasta{
		index:  index,
		region: region,
		data:   region.Bytes(),
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.verifyExtents {
		if err := f.checkExtents(); err != nil {
			region.Close()
			return nil, err
		}
	}

	f.log().Debug("opened fasta", "path", path, "size", region.Len(), "sequences", index.Len())
	return f, nil
}

// OpenFile opens the FASTA file at path together with its sidecar
// index, expected at path + ".fai".
func OpenFile(path string, opts ...Option) (*IndexedFasta, error) {
	index, err := LoadIndex(path + ".fai")
	if err != nil {
		return nil, err
	}
	return Open(index, path, opts...)
}

// Index returns the index the instance was opened with.
func (f *IndexedFasta) Index() *FastaIndex {
	return f.index
}

// Close releases the file mapping. Close is idempotent.
//
// Slices returned by earlier queries become invalid once Close returns.
func (f *IndexedFasta) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.data = nil
	f.buf = nil
	return f.region.Close()
}

// Query returns the bases of the half-open interval [start, end) of the
// named sequence, with line wrapping removed.
//
// The returned slice is a view into a scratch buffer owned by the
// instance: it is only valid until the next query on the same instance
// and must be copied to be retained. Use AppendQuery to read into a
// caller-owned buffer instead. A failed query leaves the previous
// result intact.
//
// start == end is a valid empty interval for any start <= length.
func (f *IndexedFasta) Query(name string, start, end uint64) ([]byte, error) {
	entry, err := f.resolve(name, start, end)
	if err != nil {
		return nil, err
	}
	return f.queryEntry(entry, name, start, end)
}

// QueryUnbounded is Query with end clamped to the sequence length.
// start must still lie within the sequence.
func (f *IndexedFasta) QueryUnbounded(name string, start, end uint64) ([]byte, error) {
	entry, end, err := f.resolveUnbounded(name, start, end)
	if err != nil {
		return nil, err
	}
	return f.queryEntry(entry, name, start, end)
}

// AppendQuery appends the bases of [start, end) of the named sequence
// to dst and returns the extended slice.
//
// Unlike Query, the result does not alias the instance's scratch
// buffer, so it stays valid across later queries.
func (f *IndexedFasta) AppendQuery(dst []byte, name string, start, end uint64) ([]byte, error) {
	entry, err := f.resolve(name, start, end)
	if err != nil {
		return nil, err
	}
	if err := f.checkExtent(entry, start, end); err != nil {
		return nil, &IntervalError{Name: name, Start: start, End: end, Err: err}
	}
	return appendInterval(dst, entry, f.data, start, end), nil
}

// QueryRaw returns the raw bytes spanning [start, end) of the named
// sequence, line terminators included. The window ends after the
// terminator when the interval stops exactly at a line boundary.
//
// The returned slice aliases the mapped file directly and is valid
// until Close. If the file ends at the interval's final base the
// trailing terminator is omitted.
func (f *IndexedFasta) QueryRaw(name string, start, end uint64) ([]byte, error) {
	entry, err := f.resolve(name, start, end)
	if err != nil {
		return nil, err
	}
	return f.rawEntry(entry, name, start, end)
}

// QueryRawUnbounded is QueryRaw with end clamped to the sequence
// length. start must still lie within the sequence.
func (f *IndexedFasta) QueryRawUnbounded(name string, start, end uint64) ([]byte, error) {
	entry, end, err := f.resolveUnbounded(name, start, end)
	if err != nil {
		return nil, err
	}
	return f.rawEntry(entry, name, start, end)
}

// resolve validates a bounded query and returns the entry for name.
func (f *IndexedFasta) resolve(name string, start, end uint64) (*IndexEntry, error) {
	if f.closed {
		return nil, &IntervalError{Name: name, Start: start, End: end, Err: ErrClosed}
	}
	entry, ok := f.index.entries[name]
	if !ok {
		return nil, &IntervalError{Name: name, Start: start, End: end, Err: ErrSequenceNotFound}
	}
	if start > end {
		return nil, &IntervalError{Name: name, Start: start, End: end, Err: ErrInvalidInterval}
	}
	if end > entry.Length {
		return nil, &IntervalError{Name: name, Start: start, End: end, Err: fmt.Errorf("%w: sequence length is %d", ErrOutOfBounds, entry.Length)}
	}
	return entry, nil
}

// resolveUnbounded validates an unbounded query and returns the entry
// for name along with end clamped to the sequence length.
func (f *IndexedFasta) resolveUnbounded(name string, start, end uint64) (*IndexEntry, uint64, error) {
	if f.closed {
		return nil, 0, &IntervalError{Name: name, Start: start, End: end, Err: ErrClosed}
	}
	entry, ok := f.index.entries[name]
	if !ok {
		return nil, 0, &IntervalError{Name: name, Start: start, End: end, Err: ErrSequenceNotFound}
	}
	if start > end {
		return nil, 0, &IntervalError{Name: name, Start: start, End: end, Err: ErrInvalidInterval}
	}
	if start > entry.Length {
		return nil, 0, &IntervalError{Name: name, Start: start, End: end, Err: fmt.Errorf("%w: sequence length is %d", ErrOutOfBounds, entry.Length)}
	}
	if end > entry.Length {
		end = entry.Length
	}
	return entry, end, nil
}

// queryEntry copies the dewrapped interval into the scratch buffer.
func (f *IndexedFasta) queryEntry(entry *IndexEntry, name string, start, end uint64) ([]byte, error) {
	if err := f.checkExtent(entry, start, end); err != nil {
		return nil, &IntervalError{Name: name, Start: start, End: end, Err: err}
	}
	f.buf = appendInterval(f.buf[:0], entry, f.data, start, end)
	return f.buf, nil
}

// rawEntry slices the raw interval window out of the mapped file.
func (f *IndexedFasta) rawEntry(entry *IndexEntry, name string, start, end uint64) ([]byte, error) {
	if start == end {
		return nil, nil
	}
	if err := f.checkExtent(entry, start, end); err != nil {
		return nil, &IntervalError{Name: name, Start: start, End: end, Err: err}
	}

	size := end - start
	col := start % entry.LineBases
	pos := entry.position(start)
	mapped := uint64(len(f.data))

	// The extent check has bounded every requested base, so overflow
	// in the window arithmetic can only mean the terminator span
	// reaches past the end of the file.
	rawEnd := pos + size
	crossings := (col + size) / entry.LineBases
	if term := entry.terminator(); crossings != 0 && term > (math.MaxUint64-rawEnd)/crossings {
		rawEnd = mapped
	} else {
		rawEnd += crossings * term
	}
	if rawEnd > mapped {
		rawEnd = mapped
	}
	return f.data[pos:rawEnd:rawEnd], nil
}

// checkExtent verifies the mapped file covers the interval's final
// base. Empty intervals need no bytes and always pass.
func (f *IndexedFasta) checkExtent(entry *IndexEntry, start, end uint64) error {
	if start == end {
		return nil
	}
	extent, ok := entry.extentOf(end - 1)
	if !ok {
		return fmt.Errorf("%w: declared layout exceeds addressable bytes", ErrTruncatedFile)
	}
	if extent > uint64(len(f.data)) {
		return fmt.Errorf("%w: need %d bytes, file has %d", ErrTruncatedFile, extent, len(f.data))
	}
	return nil
}

// checkExtents verifies every sequence's full extent against the
// mapped size.
func (f *IndexedFasta) checkExtents() error {
	for entry := range f.index.Entries() {
		if entry.Length == 0 {
			continue
		}
		if err := f.checkExtent(entry, 0, entry.Length); err != nil {
			return fmt.Errorf("faiquery: sequence %q: %w", entry.Name, err)
		}
	}
	return nil
}

// appendInterval appends the bases of [start, end) to dst, copying one
// line segment at a time and skipping terminators. The caller has
// verified that data covers the interval.
func appendInterval(dst []byte, entry *IndexEntry, data []byte, start, end uint64) []byte {
	for cur := start; cur < end; {
		line, col := cur/entry.LineBases, cur%entry.LineBases
		n := entry.LineBases - col
		if rest := end - cur; rest < n {
			n = rest
		}
		phys := entry.Offset + line*entry.LineWidth + col
		dst = append(dst, data[phys:phys+n]...)
		cur += n
	}
	return dst
}

// Interface compliance.
var _ io.Closer = (*IndexedFasta)(nil)
