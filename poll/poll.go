// Package poll turns a one-shot boolean probe into a temporally robust
// assertion: the probe is retried at a fixed cadence until it reports true
// or a wait budget runs out. The outcome is an explicit value, never an
// exception-shaped control flow; probe errors pass through untouched.
package poll

import (
	"context"
	"time"
)

// Outcome is the discriminated result of an evaluation.
type Outcome int

const (
	// Satisfied means the probe returned true before the budget ran out.
	Satisfied Outcome = iota
	// Exhausted means the budget ran out with every probe returning false.
	Exhausted
)

func (o Outcome) String() string {
	if o == Satisfied {
		return "satisfied"
	}
	return "exhausted"
}

// Default cadence. Both are starting points, not policy: callers override
// them per Waiter, and suites configure them from YAML.
const (
	DefaultBudget   = 2 * time.Second
	DefaultInterval = 50 * time.Millisecond

	// minInterval bounds how hot the retry loop may spin.
	minInterval = 10 * time.Millisecond
)

// Probe performs one query-and-check cycle against the live tree.
type Probe func(ctx context.Context) (bool, error)

// Waiter holds the retry policy for one evaluation: how long to keep trying
// and how long to pause between attempts. Waiters are plain values; deriving
// a modified copy is the scoped-override mechanism, there is no global state.
type Waiter struct {
	// Budget is the total wait allowance. Zero or negative means a single
	// probe with no retry: the degenerate synchronous mode falls out of the
	// same loop because the deadline is already past and every evaluation
	// performs at least one probe.
	Budget time.Duration

	// Interval is the pause between unsuccessful probes. Zero means
	// DefaultInterval; values below 10ms are clamped up.
	Interval time.Duration
}

// Default returns the stock retry policy.
func Default() Waiter {
	return Waiter{Budget: DefaultBudget, Interval: DefaultInterval}
}

// WithBudget returns a copy of w with the budget replaced.
func (w Waiter) WithBudget(d time.Duration) Waiter {
	w.Budget = d
	return w
}

// Eval invokes probe until it returns true or the budget is exhausted.
//
// The probe always runs at least once, even with a zero budget or a deadline
// already in the past. A true result short-circuits immediately. A probe
// error aborts the loop and is returned unmodified: transient absence is a
// false result, not an error, so anything the probe raises is a real fault
// that must reach the caller. Context cancellation during an inter-probe
// pause surfaces as ctx.Err().
func (w Waiter) Eval(ctx context.Context, probe Probe) (Outcome, error) {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	if interval < minInterval {
		interval = minInterval
	}
	deadline := time.Now().Add(w.Budget)

	for {
		ok, err := probe(ctx)
		if err != nil {
			return Exhausted, err
		}
		if ok {
			return Satisfied, nil
		}

		remaining := time.Until(deadline)
		if w.Budget <= 0 || remaining <= 0 {
			return Exhausted, nil
		}
		if remaining < interval {
			// Last pause: wake exactly at the deadline for a final probe.
			interval = remaining
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Exhausted, ctx.Err()
		case <-timer.C:
		}
	}
}
