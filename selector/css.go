// CLAUDE:SUMMARY Translates a supported CSS subset (tag, class, id, attribute, combinators, groups) to XPath selectors.
package selector

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedCSS marks CSS syntax outside the supported subset. It is a
// programmer error: callers see it unmodified, it is never absorbed into a
// false assertion result.
var ErrUnsupportedCSS = errors.New("selector: unsupported css")

// CSS translates a CSS selector to XPath. Supported subset:
//   - tag: "article", "div"
//   - .class: ".content"
//   - #id: "#main"
//   - compounds: "div.content", "input#q.wide", "a[href]"
//   - [attr] and [attr=val] (quoted or bare value)
//   - descendant (space) and child (>) combinators
//   - comma-separated groups
//
// Anything else (pseudo-classes, sibling combinators, attribute operators
// beyond =) returns ErrUnsupportedCSS.
func CSS(css string) (Selector, error) {
	groups := strings.Split(css, ",")
	exprs := make([]string, 0, len(groups))
	for _, g := range groups {
		g = strings.TrimSpace(g)
		if g == "" {
			return Selector{}, fmt.Errorf("%w: empty selector in %q", ErrUnsupportedCSS, css)
		}
		x, err := translateChain(g)
		if err != nil {
			return Selector{}, err
		}
		exprs = append(exprs, x)
	}
	return XPath(strings.Join(exprs, " | ")), nil
}

// translateChain handles one comma-free selector: compounds joined by
// descendant or child combinators.
func translateChain(sel string) (string, error) {
	// Normalize ">" so it always tokenizes on its own.
	sel = strings.ReplaceAll(sel, ">", " > ")
	tokens := strings.Fields(sel)

	var b strings.Builder
	axis := ".//"
	expectCompound := true
	for _, tok := range tokens {
		if tok == ">" {
			if expectCompound {
				return "", fmt.Errorf("%w: dangling combinator in %q", ErrUnsupportedCSS, sel)
			}
			axis = "/"
			expectCompound = true
			continue
		}
		x, err := translateCompound(tok)
		if err != nil {
			return "", err
		}
		b.WriteString(axis)
		b.WriteString(x)
		axis = "//"
		expectCompound = false
	}
	if expectCompound {
		return "", fmt.Errorf("%w: dangling combinator in %q", ErrUnsupportedCSS, sel)
	}
	return b.String(), nil
}

// translateCompound handles a single compound selector with no combinators,
// e.g. "div#main.content[role=main]".
func translateCompound(sel string) (string, error) {
	tag, rest := splitTag(sel)
	if tag == "" {
		tag = "*"
	}

	var preds []string
	for rest != "" {
		switch rest[0] {
		case '.':
			name, rem := readName(rest[1:])
			if name == "" {
				return "", fmt.Errorf("%w: %q", ErrUnsupportedCSS, sel)
			}
			preds = append(preds, fmt.Sprintf(
				"contains(concat(' ', normalize-space(@class), ' '), %s)", Literal(" "+name+" ")))
			rest = rem
		case '#':
			name, rem := readName(rest[1:])
			if name == "" {
				return "", fmt.Errorf("%w: %q", ErrUnsupportedCSS, sel)
			}
			preds = append(preds, fmt.Sprintf("@id=%s", Literal(name)))
			rest = rem
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return "", fmt.Errorf("%w: unterminated attribute in %q", ErrUnsupportedCSS, sel)
			}
			pred, err := translateAttr(rest[1:end])
			if err != nil {
				return "", fmt.Errorf("%w: %q", err, sel)
			}
			preds = append(preds, pred)
			rest = rest[end+1:]
		default:
			return "", fmt.Errorf("%w: %q", ErrUnsupportedCSS, sel)
		}
	}

	var b strings.Builder
	b.WriteString(tag)
	for _, p := range preds {
		b.WriteString("[")
		b.WriteString(p)
		b.WriteString("]")
	}
	return b.String(), nil
}

func translateAttr(body string) (string, error) {
	if strings.ContainsAny(body, "~|^$*") {
		return "", ErrUnsupportedCSS
	}
	name, val, ok := strings.Cut(body, "=")
	name = strings.TrimSpace(name)
	if name == "" || !isName(name) {
		return "", ErrUnsupportedCSS
	}
	if !ok {
		return "@" + name, nil
	}
	val = strings.TrimSpace(val)
	val = strings.Trim(val, `"'`)
	return fmt.Sprintf("@%s=%s", name, Literal(val)), nil
}

// splitTag peels a leading tag name (or *) off a compound selector.
func splitTag(sel string) (tag, rest string) {
	if strings.HasPrefix(sel, "*") {
		return "*", sel[1:]
	}
	i := 0
	for i < len(sel) && isNameByte(sel[i]) {
		i++
	}
	return sel[:i], sel[i:]
}

// readName reads a class or id name starting at the head of s.
func readName(s string) (name, rest string) {
	i := 0
	for i < len(s) && isNameByte(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

func isName(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isNameByte(s[i]) {
			return false
		}
	}
	return len(s) > 0
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '-' || c == '_'
}
