// Package faiquery provides random access to base intervals of
// line-wrapped FASTA files through their FAI index.
//
// A FAI index records, for each sequence, its length and the physical
// layout of its lines (byte offset, bases per line, bytes per line).
// With that metadata a query for the half-open interval [start, end)
// of a sequence reads only the covered bytes, so arbitrarily large
// files can be queried without loading them.
//
// The FASTA file is memory mapped and query results reuse a scratch
// buffer, so repeated queries allocate nothing once the buffer has
// grown to the largest interval. The returned slices alias that
// buffer; copy them (or use [IndexedFasta.AppendQuery]) to retain
// results across queries.
//
// # Quick Start
//
// Open a FASTA file with its sidecar index and query an interval:
//
//	fa, err := faiquery.OpenFile("genome.fa")
//	if err != nil {
//	    return err
//	}
//	defer fa.Close()
//
//	seq, err := fa.Query("chr1", 20, 30)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%s\n", seq)
//
// # Concurrency
//
// An [IndexedFasta] owns its scratch buffer and must not be shared
// across goroutines. A [FastaIndex] is immutable and may back any
// number of instances reading the same file. [FetchIntervals] batches
// queries across a worker pool using that layout.
package faiquery
