package faiquery

import "log/slog"

// Option configures an IndexedFasta.
type Option func(*IndexedFasta)

// WithLogger sets a logger for the instance.
// If nil, a discard logger is used (default behavior).
func WithLogger(logger *slog.Logger) Option {
	return func(f *IndexedFasta) {
		f.logger = logger
	}
}

// WithVerifyExtents checks every sequence's declared extent against the
// file size at open time, so a stale or mismatched index fails up front
// instead of on the first query that reaches past the end of the file.
func WithVerifyExtents() Option {
	return func(f *IndexedFasta) {
		f.verifyExtents = true
	}
}
