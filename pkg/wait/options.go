// Package wait implements timeout-bounded condition polling: single
// predicates about element state, parameterized custom checks, and the
// ordered fail-fast chain that composes them.
package wait

import "time"

// Defaults for condition polling.
const (
	DefaultTimeout  = 5 * time.Second
	DefaultInterval = 100 * time.Millisecond
	DefaultRetries  = 3
)

// Options configures a single condition.
//
// Timeout and Interval bound the polling loop. Interval should be well below
// Timeout, otherwise at most one attempt is made. Retries is carried for
// compatibility with callers that configure it but is not authoritative:
// only Timeout/Interval terminate the loop. DismissKeyboard applies to
// interactions only (TypeText dismisses the keyboard unless it is false).
type Options struct {
	Timeout         time.Duration
	Interval        time.Duration
	Retries         int
	DismissKeyboard bool
}

// DefaultOptions returns the standard polling configuration.
func DefaultOptions() Options {
	return Options{
		Timeout:         DefaultTimeout,
		Interval:        DefaultInterval,
		Retries:         DefaultRetries,
		DismissKeyboard: true,
	}
}

// normalized fills unset timing fields with defaults.
func (o Options) normalized() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.Retries <= 0 {
		o.Retries = DefaultRetries
	}
	return o
}
