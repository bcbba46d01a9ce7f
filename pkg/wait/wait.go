// Package wait implements the blocking, fixed-interval poll loop used for
// explicit condition waits and for the implicit retry of required element
// lookups.
//
// A wait ends when the condition holds, when the timeout expires, or when
// the condition returns an error that is not a NotFound. NotFound is read
// as "not yet" and retried, unless a listener failed along with it. There
// is no cancellation.
package wait

import (
	"time"

	"github.com/entrhq/pagekit/pkg/errs"
)

// Defaults used when a Poller leaves a field zero.
const (
	DefaultTimeout  = 10 * time.Second
	DefaultInterval = 500 * time.Millisecond
)

// Condition reports whether the awaited state holds.
type Condition func() (bool, error)

// Poller runs a condition until it holds or time runs out.
type Poller struct {
	// Timeout is the total budget. Zero means a single poll.
	Timeout time.Duration

	// Interval is the pause between polls, DefaultInterval when zero.
	Interval time.Duration

	// Session identifies the browser session in timeout diagnostics.
	Session string

	// Message describes the awaited condition in timeout diagnostics.
	Message string

	// Clock is the time source, the wall clock when nil.
	Clock Clock
}

// Until polls cond on the calling goroutine.
func (p Poller) Until(cond Condition) error {
	clock := p.Clock
	if clock == nil {
		clock = RealClock{}
	}
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	start := clock.Now()
	polls := 0
	var last error
	for {
		polls++
		ok, err := cond()
		switch {
		case err != nil && (errs.IsListener(err) || !errs.IsNotFound(err)):
			return err
		case err != nil:
			last = err
		case ok:
			return nil
		}

		remaining := p.Timeout - clock.Now().Sub(start)
		if remaining <= 0 {
			return &errs.TimeoutError{
				Session: p.Session,
				Timeout: p.Timeout,
				Polls:   polls,
				Message: p.Message,
				Last:    last,
			}
		}
		clock.Sleep(min(interval, remaining))
	}
}

// Get polls fn until it returns without error and reports the value.
// NotFound errors are retried like in Until.
func Get[T any](p Poller, fn func() (T, error)) (T, error) {
	var value T
	err := p.Until(func() (bool, error) {
		v, err := fn()
		if err != nil {
			return false, err
		}
		value = v
		return true, nil
	})
	return value, err
}
