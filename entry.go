package faiquery

import (
	"fmt"
	"math"
)

// IndexEntry describes one sequence record in a FAI index: the sequence's
// unwrapped length and the physical layout of its line-wrapped bases in
// the FASTA file. Entries are immutable once loaded.
type IndexEntry struct {
	// Name is the sequence identifier, unique within its index.
	Name string

	// Length is the total number of bases in the sequence.
	Length uint64

	// Offset is the byte position in the FASTA file where the sequence
	// data begins, immediately after the header line.
	Offset uint64

	// LineBases is the number of bases on each full line.
	LineBases uint64

	// LineWidth is the number of bytes occupied by each full line,
	// including its line terminator. LineWidth - LineBases is the
	// terminator width (1 for "\n", 2 for "\r\n").
	LineWidth uint64
}

// validate checks the layout invariants of a parsed entry.
func (e *IndexEntry) validate() error {
	if e.LineWidth < e.LineBases {
		return fmt.Errorf("%w: line width %d smaller than line bases %d", ErrMalformedIndex, e.LineWidth, e.LineBases)
	}
	if e.Length > 0 && e.LineBases == 0 {
		return fmt.Errorf("%w: sequence %q has %d bases but zero bases per line", ErrMalformedIndex, e.Name, e.Length)
	}
	return nil
}

// terminator returns the width in bytes of the line terminator.
func (e *IndexEntry) terminator() uint64 { return e.LineWidth - e.LineBases }

// position returns the physical byte offset of base i.
// The caller guarantees i < e.Length, which implies e.LineBases > 0.
func (e *IndexEntry) position(i uint64) uint64 {
	return e.Offset + (i/e.LineBases)*e.LineWidth + i%e.LineBases
}

// extentOf returns the physical offset one past base i, checking each
// step of the arithmetic for overflow. ok is false when the entry
// declares a layout whose byte offsets do not fit in a uint64; such an
// entry cannot be consistent with any real file.
func (e *IndexEntry) extentOf(i uint64) (extent uint64, ok bool) {
	line, col := i/e.LineBases, i%e.LineBases
	if e.LineWidth != 0 && line > math.MaxUint64/e.LineWidth {
		return 0, false
	}
	pos := line * e.LineWidth
	if pos+e.Offset < pos {
		return 0, false
	}
	pos += e.Offset
	if pos+col+1 < pos {
		return 0, false
	}
	return pos + col + 1, true
}
