// Package selector builds structural XPath selectors from semantic locators:
// link text, button labels, form field labels, select boxes, tables, and a
// supported subset of CSS. Selectors are plain values with no identity beyond
// their expression; builders are pure and allocate a fresh Selector per call.
package selector

import "strings"

// Selector is a structural query expression in XPath form. The zero value is
// invalid; construct via XPath or one of the builders.
type Selector struct {
	Expr string
}

// XPath wraps a raw XPath expression.
func XPath(expr string) Selector {
	return Selector{Expr: expr}
}

func (s Selector) String() string {
	return s.Expr
}

// Union joins selectors into a single node-set union.
func Union(sels ...Selector) Selector {
	exprs := make([]string, len(sels))
	for i, s := range sels {
		exprs[i] = s.Expr
	}
	return Selector{Expr: strings.Join(exprs, " | ")}
}

// Literal renders s as an XPath string literal. XPath 1.0 has no escape
// sequences inside literals, so a value containing both quote characters
// must be assembled with concat().
func Literal(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	var b strings.Builder
	b.WriteString("concat(")
	for i, p := range parts {
		if i > 0 {
			b.WriteString(`, "'", `)
		}
		b.WriteString("'" + p + "'")
	}
	b.WriteString(")")
	return b.String()
}
