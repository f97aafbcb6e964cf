package services

import "time"

type options struct {
	now func() time.Time
}

type Option func(*options)

// WithClock replaces time.Now for the timestamps services write.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
