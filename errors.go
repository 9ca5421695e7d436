package faiquery

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (possibly wrapped) by index loading and queries.
// Match them with errors.Is.
var (
	// ErrMalformedIndex is returned when an index line cannot be parsed or
	// violates the format's layout invariants.
	ErrMalformedIndex = errors.New("faiquery: malformed index")

	// ErrDuplicateName is returned when two index lines declare the same
	// sequence name.
	ErrDuplicateName = errors.New("faiquery: duplicate sequence name")

	// ErrSequenceNotFound is returned when a query names a sequence that is
	// not in the index.
	ErrSequenceNotFound = errors.New("faiquery: sequence not found")

	// ErrInvalidInterval is returned when an interval's start is greater
	// than its end.
	ErrInvalidInterval = errors.New("faiquery: invalid interval")

	// ErrOutOfBounds is returned when an interval extends past the end of
	// the sequence.
	ErrOutOfBounds = errors.New("faiquery: interval out of bounds")

	// ErrTruncatedFile is returned when the index declares sequence data
	// beyond the end of the FASTA file. It indicates the index and the
	// file are out of sync.
	ErrTruncatedFile = errors.New("faiquery: truncated sequence file")

	// ErrClosed is returned by queries on a closed IndexedFasta.
	ErrClosed = errors.New("faiquery: indexed fasta is closed")
)

// IndexLineError reports a failure to load one line of an index file.
// It wraps ErrMalformedIndex or ErrDuplicateName.
type IndexLineError struct {
	// Line is the 1-based line number within the index source.
	Line int

	// Err describes what was wrong with the line.
	Err error
}

func (e *IndexLineError) Error() string {
	return fmt.Sprintf("faiquery: index line %d: %v", e.Line, e.Err)
}

func (e *IndexLineError) Unwrap() error { return e.Err }

// IntervalError reports a failed query. It records the requested
// coordinates and wraps the sentinel describing the failure.
type IntervalError struct {
	// Name is the requested sequence name.
	Name string

	// Start and End are the requested base coordinates.
	Start, End uint64

	// Err is the underlying failure, wrapping one of the sentinel errors.
	Err error
}

func (e *IntervalError) Error() string {
	return fmt.Sprintf("faiquery: query %s:%d-%d: %v", e.Name, e.Start, e.End, e.Err)
}

func (e *IntervalError) Unwrap() error { return e.Err }

// Interface compliance.
var (
	_ error = (*IndexLineError)(nil)
	_ error = (*IntervalError)(nil)
)
