// CLAUDE:SUMMARY Static element adapter — text, visibility, form value, selection, and table row accessors over html.Node.
package staticdom

import (
	"context"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// stripTags reduces rendered HTML to its text content. Sanitizing instead of
// walking text nodes keeps script and style bodies out of the text.
var stripTags = bluemonday.StrictPolicy()

type element struct {
	n *html.Node
}

func (e *element) Text(ctx context.Context) (string, error) {
	var b strings.Builder
	if err := html.Render(&b, e.n); err != nil {
		return "", err
	}
	return html.UnescapeString(stripTags.Sanitize(b.String())), nil
}

// Visible approximates computed visibility from attributes: the hidden
// attribute, input type=hidden, and inline display:none on the element or
// any ancestor. Stylesheet-driven hiding is invisible to a static tree.
func (e *element) Visible(ctx context.Context) (bool, error) {
	for n := e.n; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		if hasAttr(n, "hidden") {
			return false, nil
		}
		if n.Data == "input" && attr(n, "type") == "hidden" {
			return false, nil
		}
		style := strings.ReplaceAll(attr(n, "style"), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return false, nil
		}
	}
	return true, nil
}

func (e *element) Value(ctx context.Context) (string, error) {
	switch e.n.Data {
	case "textarea":
		return collectText(e.n), nil
	case "select":
		sel, err := e.SelectedOptions(ctx)
		if err != nil || len(sel) == 0 {
			return "", err
		}
		return sel[0], nil
	default:
		return attr(e.n, "value"), nil
	}
}

func (e *element) Checked(ctx context.Context) (bool, error) {
	return hasAttr(e.n, "checked"), nil
}

// SelectedOptions returns the labels of explicitly selected options. A
// single select with no selected attribute defaults to its first option,
// matching what a browser would submit.
func (e *element) SelectedOptions(ctx context.Context) ([]string, error) {
	options := descendants(e.n, "option")
	var out []string
	for _, o := range options {
		if hasAttr(o, "selected") {
			out = append(out, collectText(o))
		}
	}
	if len(out) == 0 && !hasAttr(e.n, "multiple") && len(options) > 0 {
		out = append(out, collectText(options[0]))
	}
	return out, nil
}

func (e *element) OptionLabels(ctx context.Context) ([]string, error) {
	var out []string
	for _, o := range descendants(e.n, "option") {
		out = append(out, collectText(o))
	}
	return out, nil
}

func (e *element) Rows(ctx context.Context) ([][]string, error) {
	var rows [][]string
	for _, tr := range descendants(e.n, "tr") {
		var cells []string
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
				cells = append(cells, collectText(c))
			}
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, name string) bool {
	for _, a := range n.Attr {
		if a.Key == name {
			return true
		}
	}
	return false
}

// collectText concatenates the text nodes under n, skipping script and style.
func collectText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

// descendants returns element nodes with the given tag under n, in document
// order.
func descendants(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == tag {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}
