// Package matcher is the public assertion surface: boolean Has* / HasNo*
// predicates over a DOM scope (a page or a sub-node). Every predicate polls
// its query until the condition holds or the scope's wait budget runs out,
// so transient appearance and disappearance of elements never flake an
// assertion. Predicates return plain booleans; the only errors that escape
// are real faults such as a malformed selector or a dead backend.
package matcher

import (
	"context"
	"log/slog"

	"github.com/hazyhaar/domassert/poll"
	"github.com/hazyhaar/domassert/query"
	"github.com/hazyhaar/domassert/selector"
)

// Scope binds a query backend to a retry policy. Scopes are cheap values;
// derive a copy with Using to override the wait policy for a block of
// assertions without touching shared state.
type Scope struct {
	be     query.Backend
	wait   poll.Waiter
	logger *slog.Logger
}

// Option configures a Scope at construction.
type Option func(*Scope)

// WithWait sets the retry policy. Default: poll.Default().
func WithWait(w poll.Waiter) Option {
	return func(s *Scope) { s.wait = w }
}

// WithLogger sets the logger for debug-level probe tracing.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scope) { s.logger = l }
}

// New creates a Scope over a backend.
func New(be query.Backend, opts ...Option) *Scope {
	s := &Scope{be: be, wait: poll.Default(), logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Using returns a derived Scope with a different retry policy. The receiver
// is unchanged; discarding the copy restores the original policy.
func (s *Scope) Using(w poll.Waiter) *Scope {
	c := *s
	c.wait = w
	return &c
}

// HasSelector reports whether the scope currently contains elements matching
// sel, retrying until the condition holds or the wait budget runs out. With
// opts.Count set the condition is an exact count, otherwise at least one
// match. Exhausting the budget yields false, not an error.
func (s *Scope) HasSelector(ctx context.Context, sel selector.Selector, opts query.Options) (bool, error) {
	outcome, err := s.wait.Eval(ctx, func(ctx context.Context) (bool, error) {
		n, err := s.count(ctx, sel, opts)
		if err != nil {
			return false, err
		}
		if opts.Count != nil {
			return n == *opts.Count, nil
		}
		return n > 0, nil
	})
	if err != nil {
		return false, err
	}
	return outcome == poll.Satisfied, nil
}

// HasNoSelector is the absence dual of HasSelector. It polls the negated
// condition itself rather than negating HasSelector's settled result: an
// element that is still present on the first probe but disappearing keeps
// the loop retrying until it is gone, which a result-level negation would
// never observe.
func (s *Scope) HasNoSelector(ctx context.Context, sel selector.Selector, opts query.Options) (bool, error) {
	outcome, err := s.wait.Eval(ctx, func(ctx context.Context) (bool, error) {
		n, err := s.count(ctx, sel, opts)
		if err != nil {
			return false, err
		}
		if opts.Count != nil {
			return n != *opts.Count, nil
		}
		return n == 0, nil
	})
	if err != nil {
		return false, err
	}
	return outcome == poll.Satisfied, nil
}

// count runs one structural query. Results are never cached: the tree is
// live and every probe must observe its current state.
func (s *Scope) count(ctx context.Context, sel selector.Selector, opts query.Options) (int, error) {
	elems, err := s.be.Query(ctx, sel, opts)
	if err != nil {
		return 0, err
	}
	s.logger.Debug("matcher: probe", "selector", sel.Expr, "matches", len(elems))
	return len(elems), nil
}
