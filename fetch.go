package faiquery

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Interval names one query in a batch fetch.
type Interval struct {
	// Name is the sequence to read from.
	Name string

	// Start and End bound the half-open base interval [Start, End).
	Start, End uint64
}

// defaultFetchWorkers is used when no FetchWithWorkers option is set.
const defaultFetchWorkers = 4

// FetchOption configures FetchIntervals.
type FetchOption func(*fetchConfig)

type fetchConfig struct {
	workers int
	logger  *slog.Logger
}

// FetchWithWorkers sets the number of concurrent readers.
// Values <= 0 use the default concurrency (4). The worker count never
// exceeds the number of intervals.
func FetchWithWorkers(n int) FetchOption {
	return func(cfg *fetchConfig) {
		if n <= 0 {
			n = defaultFetchWorkers
		}
		cfg.workers = n
	}
}

// FetchWithLogger sets a logger for the fetch.
// The logger is propagated to the per-worker instances.
// If nil, a discard logger is used (default behavior).
func FetchWithLogger(logger *slog.Logger) FetchOption {
	return func(cfg *fetchConfig) {
		cfg.logger = logger
	}
}

// FetchIntervals reads every interval from the FASTA file at path and
// returns the dewrapped bases in interval order.
//
// Each worker opens its own view of the file, so the returned slices
// are caller-owned copies with no shared scratch state. The first
// failed query cancels the remaining work and is returned.
func FetchIntervals(ctx context.Context, index *FastaIndex, path string, intervals []Interval, opts ...FetchOption) ([][]byte, error) {
	if len(intervals) == 0 {
		return nil, nil
	}

	cfg := fetchConfig{workers: defaultFetchWorkers}
	for _, opt := range opts {
		opt(&cfg)
	}
	workers := cfg.workers
	if workers > len(intervals) {
		workers = len(intervals)
	}

	var engineOpts []Option
	if cfg.logger != nil {
		cfg.logger.Debug("fetching intervals", "count", len(intervals), "workers", workers)
		engineOpts = append(engineOpts, WithLogger(cfg.logger))
	}

	results := make([][]byte, len(intervals))
	jobs := make(chan int)

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer close(jobs)
		for i := range intervals {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for range workers {
		eg.Go(func() error {
			f, err := Open(index, path, engineOpts...)
			if err != nil {
				return err
			}
			defer f.Close()

			for i := range jobs {
				if err := ctx.Err(); err != nil {
					return err
				}
				iv := intervals[i]
				out, err := f.AppendQuery(nil, iv.Name, iv.Start, iv.End)
				if err != nil {
					return err
				}
				results[i] = out
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
