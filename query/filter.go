package query

import (
	"context"
	"strings"
)

// Filter applies the Options filters to a queried element set. Backends call
// it after structural matching so the filter semantics stay identical across
// live and static trees. Count is not a filter and is ignored here.
func Filter(ctx context.Context, elems []Element, opts Options) ([]Element, error) {
	if !opts.hasFilters() {
		return elems, nil
	}
	out := make([]Element, 0, len(elems))
	for _, el := range elems {
		ok, err := matches(ctx, el, opts)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, el)
		}
	}
	return out, nil
}

func (o Options) hasFilters() bool {
	return o.Text != "" || o.TextPattern != nil || o.Visible != nil ||
		o.With != nil || o.Checked != nil || len(o.Selected) > 0 ||
		len(o.OptionLabels) > 0 || len(o.Rows) > 0
}

func matches(ctx context.Context, el Element, opts Options) (bool, error) {
	if opts.Text != "" || opts.TextPattern != nil {
		text, err := el.Text(ctx)
		if err != nil {
			return false, err
		}
		text = NormalizeSpace(text)
		if opts.Text != "" && !strings.Contains(text, NormalizeSpace(opts.Text)) {
			return false, nil
		}
		if opts.TextPattern != nil && !opts.TextPattern.MatchString(text) {
			return false, nil
		}
	}

	if opts.Visible != nil {
		v, err := el.Visible(ctx)
		if err != nil {
			return false, err
		}
		if v != *opts.Visible {
			return false, nil
		}
	}

	if opts.With != nil {
		val, err := el.Value(ctx)
		if err != nil {
			return false, err
		}
		if val != *opts.With {
			return false, nil
		}
	}

	if opts.Checked != nil {
		c, err := el.Checked(ctx)
		if err != nil {
			return false, err
		}
		if c != *opts.Checked {
			return false, nil
		}
	}

	if len(opts.Selected) > 0 {
		sel, err := el.SelectedOptions(ctx)
		if err != nil {
			return false, err
		}
		if !containsAll(sel, opts.Selected) {
			return false, nil
		}
	}

	if len(opts.OptionLabels) > 0 {
		labels, err := el.OptionLabels(ctx)
		if err != nil {
			return false, err
		}
		if !containsAll(labels, opts.OptionLabels) {
			return false, nil
		}
	}

	if len(opts.Rows) > 0 {
		rows, err := el.Rows(ctx)
		if err != nil {
			return false, err
		}
		for _, want := range opts.Rows {
			if !containsRow(rows, want) {
				return false, nil
			}
		}
	}

	return true, nil
}

// NormalizeSpace collapses whitespace runs to single spaces and trims,
// matching XPath normalize-space().
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func containsAll(have, want []string) bool {
	for _, w := range want {
		found := false
		w = NormalizeSpace(w)
		for _, h := range have {
			if NormalizeSpace(h) == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func containsRow(rows [][]string, want []string) bool {
	for _, row := range rows {
		if len(row) != len(want) {
			continue
		}
		match := true
		for i := range row {
			if NormalizeSpace(row[i]) != NormalizeSpace(want[i]) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
