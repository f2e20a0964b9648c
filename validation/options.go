package validation

import "time"

// options configures a validation run.
type options struct {
	workers    int
	fitTimeout time.Duration
}

// Option is a function that configures Validate.
type Option func(*options)

// WithParallel processes up to n holdout groups concurrently. Each worker
// fits against an immutable view of the dataset and returns its own record
// list; the merged summary is identical to a sequential run.
func WithParallel(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithFitTimeout bounds each delegated fit call. A fit that exceeds the
// timeout does not fail the run; the affected group's predictions are
// recorded as entirely missing instead.
func WithFitTimeout(d time.Duration) Option {
	return func(o *options) {
		o.fitTimeout = d
	}
}
