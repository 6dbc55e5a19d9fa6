// CLAUDE:SUMMARY Semantic assertion facade — CSS, content, link, button, field, select, and table predicates over a Scope.
package matcher

import (
	"context"

	"github.com/hazyhaar/domassert/query"
	"github.com/hazyhaar/domassert/selector"
)

// HasXPath asserts presence of elements matching a raw XPath expression.
func (s *Scope) HasXPath(ctx context.Context, expr string, opts query.Options) (bool, error) {
	return s.HasSelector(ctx, selector.XPath(expr), opts)
}

// HasNoXPath asserts absence of elements matching a raw XPath expression.
func (s *Scope) HasNoXPath(ctx context.Context, expr string, opts query.Options) (bool, error) {
	return s.HasNoSelector(ctx, selector.XPath(expr), opts)
}

// HasCSS asserts presence of elements matching a CSS selector. Unsupported
// CSS syntax is an error, not a false result.
func (s *Scope) HasCSS(ctx context.Context, css string, opts query.Options) (bool, error) {
	sel, err := selector.CSS(css)
	if err != nil {
		return false, err
	}
	return s.HasSelector(ctx, sel, opts)
}

// HasNoCSS asserts absence of elements matching a CSS selector.
func (s *Scope) HasNoCSS(ctx context.Context, css string, opts query.Options) (bool, error) {
	sel, err := selector.CSS(css)
	if err != nil {
		return false, err
	}
	return s.HasNoSelector(ctx, sel, opts)
}

// HasContent asserts the scope's text contains the given fragment.
func (s *Scope) HasContent(ctx context.Context, text string, opts query.Options) (bool, error) {
	return s.HasSelector(ctx, selector.Content(text), opts)
}

// HasNoContent asserts the scope's text does not contain the fragment.
func (s *Scope) HasNoContent(ctx context.Context, text string, opts query.Options) (bool, error) {
	return s.HasNoSelector(ctx, selector.Content(text), opts)
}

// HasText is an alias for HasContent.
func (s *Scope) HasText(ctx context.Context, text string, opts query.Options) (bool, error) {
	return s.HasContent(ctx, text, opts)
}

// HasNoText is an alias for HasNoContent.
func (s *Scope) HasNoText(ctx context.Context, text string, opts query.Options) (bool, error) {
	return s.HasNoContent(ctx, text, opts)
}

// HasLink asserts presence of a link located by text, id, or title.
func (s *Scope) HasLink(ctx context.Context, locator string, opts query.Options) (bool, error) {
	return s.HasSelector(ctx, selector.Link(locator), opts)
}

// HasNoLink asserts absence of a link.
func (s *Scope) HasNoLink(ctx context.Context, locator string, opts query.Options) (bool, error) {
	return s.HasNoSelector(ctx, selector.Link(locator), opts)
}

// HasButton asserts presence of a button located by text, value, or id.
func (s *Scope) HasButton(ctx context.Context, locator string, opts query.Options) (bool, error) {
	return s.HasSelector(ctx, selector.Button(locator), opts)
}

// HasNoButton asserts absence of a button.
func (s *Scope) HasNoButton(ctx context.Context, locator string, opts query.Options) (bool, error) {
	return s.HasNoSelector(ctx, selector.Button(locator), opts)
}

// HasField asserts presence of a form field located by label, name, or id.
// opts.With additionally requires the field's current value to match.
func (s *Scope) HasField(ctx context.Context, locator string, opts query.Options) (bool, error) {
	return s.HasSelector(ctx, selector.Field(locator), opts)
}

// HasNoField asserts absence of a form field.
func (s *Scope) HasNoField(ctx context.Context, locator string, opts query.Options) (bool, error) {
	return s.HasNoSelector(ctx, selector.Field(locator), opts)
}

// HasCheckedField asserts presence of a checked checkbox or radio located by
// label, name, or id.
func (s *Scope) HasCheckedField(ctx context.Context, locator string, opts query.Options) (bool, error) {
	opts.Checked = boolPtr(true)
	return s.HasSelector(ctx, selector.Field(locator), opts)
}

// HasUncheckedField asserts presence of an unchecked checkbox or radio.
func (s *Scope) HasUncheckedField(ctx context.Context, locator string, opts query.Options) (bool, error) {
	opts.Checked = boolPtr(false)
	return s.HasSelector(ctx, selector.Field(locator), opts)
}

// HasSelect asserts presence of a select box located by label, name, or id.
// opts.Selected and opts.OptionLabels narrow on current selection and on the
// offered options.
func (s *Scope) HasSelect(ctx context.Context, locator string, opts query.Options) (bool, error) {
	return s.HasSelector(ctx, selector.Select(locator), opts)
}

// HasNoSelect asserts absence of a select box.
func (s *Scope) HasNoSelect(ctx context.Context, locator string, opts query.Options) (bool, error) {
	return s.HasNoSelector(ctx, selector.Select(locator), opts)
}

// HasTable asserts presence of a table located by id or caption. opts.Rows
// additionally requires each listed row's cell texts to appear in the table.
func (s *Scope) HasTable(ctx context.Context, locator string, opts query.Options) (bool, error) {
	return s.HasSelector(ctx, selector.Table(locator), opts)
}

// HasNoTable asserts absence of a table.
func (s *Scope) HasNoTable(ctx context.Context, locator string, opts query.Options) (bool, error) {
	return s.HasNoSelector(ctx, selector.Table(locator), opts)
}

func boolPtr(b bool) *bool { return &b }
