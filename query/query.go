// Package query defines the contract between assertion predicates and the
// DOM backends that execute structural queries: the Backend capability, the
// opaque Element handle, and the Options bag of per-call filters.
//
// A Backend answers one query against the tree as it exists right now. The
// tree is live, so repeated calls with identical arguments may return
// different results; callers must not cache Elements across calls.
package query

import (
	"context"
	"regexp"

	"github.com/hazyhaar/domassert/selector"
)

// Options filters a structural query. All fields are optional. Pointer
// fields are tri-state: nil means the filter is not applied, so Count of 0
// (assert exactly zero matches) stays distinct from Count unset.
type Options struct {
	// Count, when set, makes presence assertions require exactly this many
	// matches instead of at least one.
	Count *int

	// Text keeps only elements whose normalized text contains this fragment.
	Text string

	// TextPattern keeps only elements whose text matches the pattern.
	TextPattern *regexp.Regexp

	// Visible filters on computed visibility.
	Visible *bool

	// With keeps only form fields whose current value equals this string.
	With *string

	// Checked filters checkboxes and radios on checked state.
	Checked *bool

	// Selected keeps only select boxes where every listed option label is
	// currently selected.
	Selected []string

	// OptionLabels keeps only select boxes offering every listed option.
	OptionLabels []string

	// Rows keeps only tables containing every listed row, where a row is an
	// ordered sequence of cell texts.
	Rows [][]string
}

// Element is an opaque handle on one matched node. Assertions only count
// elements; the accessors below exist so Options filters can be applied by
// shared code regardless of backend. Handles are only valid within the query
// call that produced them.
type Element interface {
	Text(ctx context.Context) (string, error)
	Visible(ctx context.Context) (bool, error)
	Value(ctx context.Context) (string, error)
	Checked(ctx context.Context) (bool, error)
	SelectedOptions(ctx context.Context) ([]string, error)
	OptionLabels(ctx context.Context) ([]string, error)
	Rows(ctx context.Context) ([][]string, error)
}

// Backend executes one structural query against the current tree and returns
// the matching elements after Options filtering. Implementations must be safe
// to call repeatedly and must not retry internally: retry policy belongs to
// the caller's polling loop.
type Backend interface {
	Query(ctx context.Context, sel selector.Selector, opts Options) ([]Element, error)
}
