package faiquery

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"
	"strings"
)

// maxIndexLineBytes caps a single index line. The sequence name is the
// only variable-width field and stays far below this in practice.
const maxIndexLineBytes = 1 << 20

// FastaIndex holds the parsed contents of a FAI index file.
//
// An index maps sequence names to the layout metadata needed to locate
// bases inside the companion FASTA file. Indexes are immutable after
// construction and safe for concurrent use.
type FastaIndex struct {
	entries map[string]*IndexEntry
	names   []string
}

// ReadIndex parses FAI index data from r.
//
// Each line must contain exactly five whitespace-separated fields:
// name, length, offset, bases per line, and bytes per line. Lines are
// limited to 1 MiB. Parsing stops at the first malformed or duplicate
// line, reported as an [IndexLineError] carrying the 1-based line
// number.
func ReadIndex(r io.Reader) (*FastaIndex, error) {
	ix := &FastaIndex{entries: make(map[string]*IndexEntry)}

	sc := bufio.NewScanner(r)
	sc.Buffer(nil, maxIndexLineBytes)
	line := 1
	for ; sc.Scan(); line++ {
		entry, err := parseIndexLine(sc.Text())
		if err != nil {
			return nil, &IndexLineError{Line: line, Err: err}
		}
		if _, dup := ix.entries[entry.Name]; dup {
			return nil, &IndexLineError{Line: line, Err: fmt.Errorf("%w: %q", ErrDuplicateName, entry.Name)}
		}
		ix.entries[entry.Name] = entry
		ix.names = append(ix.names, entry.Name)
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &IndexLineError{Line: line, Err: fmt.Errorf("%w: line longer than %d bytes", ErrMalformedIndex, maxIndexLineBytes)}
		}
		return nil, fmt.Errorf("faiquery: read index: %w", err)
	}

	return ix, nil
}

// LoadIndex reads and parses the FAI index file at path.
func LoadIndex(path string) (*FastaIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("faiquery: open index: %w", err)
	}
	defer f.Close()

	return ReadIndex(f)
}

// Lookup returns the entry for the named sequence.
// Returns an error wrapping [ErrSequenceNotFound] if the name is absent.
//
// The returned entry is shared with the index and must not be modified.
func (ix *FastaIndex) Lookup(name string) (*IndexEntry, error) {
	entry, ok := ix.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSequenceNotFound, name)
	}
	return entry, nil
}

// Len returns the number of sequences in the index.
func (ix *FastaIndex) Len() int {
	return len(ix.entries)
}

// Names returns the sequence names in index order.
// The returned slice is a copy and may be modified freely.
func (ix *FastaIndex) Names() []string {
	names := make([]string, len(ix.names))
	copy(names, ix.names)
	return names
}

// Entries returns an iterator over all entries in index order.
//
// Yielded entries are shared with the index and must not be modified.
func (ix *FastaIndex) Entries() iter.Seq[*IndexEntry] {
	return func(yield func(*IndexEntry) bool) {
		for _, name := range ix.names {
			if !yield(ix.entries[name]) {
				return
			}
		}
	}
}

func parseIndexLine(line string) (*IndexEntry, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: blank line", ErrMalformedIndex)
	}
	if len(fields) != 5 {
		return nil, fmt.Errorf("%w: %d fields, want 5", ErrMalformedIndex, len(fields))
	}

	length, err := parseIndexField(fields[1], "length")
	if err != nil {
		return nil, err
	}
	offset, err := parseIndexField(fields[2], "offset")
	if err != nil {
		return nil, err
	}
	lineBases, err := parseIndexField(fields[3], "line bases")
	if err != nil {
		return nil, err
	}
	lineWidth, err := parseIndexField(fields[4], "line width")
	if err != nil {
		return nil, err
	}

	entry := &IndexEntry{
		Name:      fields[0],
		Length:    length,
		Offset:    offset,
		LineBases: lineBases,
		LineWidth: lineWidth,
	}
	if err := entry.validate(); err != nil {
		return nil, err
	}
	return entry, nil
}

func parseIndexField(s, name string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", ErrMalformedIndex, name, s)
	}
	return v, nil
}
