// Package staticdom implements the query backend over a parsed, inert HTML
// document. It exists for synchronous targets: fixture files, server-rendered
// pages fetched once over HTTP, unit tests. Nothing mutates after Parse, so
// assertions against a Document are normally run with a zero wait budget, and
// a single probe decides the outcome.
//
// Structural queries are evaluated with the same XPath expressions the live
// browser backend uses, so a selector behaves identically on both.
package staticdom

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/hazyhaar/domassert/query"
	"github.com/hazyhaar/domassert/selector"
)

// Document is an immutable parsed HTML tree rooted at the document node or,
// for scoped documents, at an inner element.
type Document struct {
	root *html.Node
}

// Parse reads and parses an HTML document.
func Parse(r io.Reader) (*Document, error) {
	n, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("staticdom: parse: %w", err)
	}
	return &Document{root: n}, nil
}

// ParseString parses an HTML document held in a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Fetch retrieves a URL once and parses the response body. A nil client uses
// http.DefaultClient. There is no re-fetching: the Document is a snapshot.
func Fetch(ctx context.Context, client *http.Client, url string) (*Document, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("staticdom: request %s: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("staticdom: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("staticdom: fetch %s: status %d", url, resp.StatusCode)
	}
	return Parse(resp.Body)
}

// Query evaluates a structural selector against the document and applies the
// option filters. A syntactically invalid expression returns an error; a
// valid expression with no matches returns an empty slice.
func (d *Document) Query(ctx context.Context, sel selector.Selector, opts query.Options) ([]query.Element, error) {
	nodes, err := htmlquery.QueryAll(d.root, sel.Expr)
	if err != nil {
		return nil, fmt.Errorf("staticdom: query %q: %w", sel.Expr, err)
	}
	elems := make([]query.Element, 0, len(nodes))
	for _, n := range nodes {
		elems = append(elems, &element{n: n})
	}
	return query.Filter(ctx, elems, opts)
}

// Within scopes the document to the first element matching expr, so
// assertions run against a sub-node of the tree. Returns an error when
// nothing matches.
func (d *Document) Within(expr string) (*Document, error) {
	n, err := htmlquery.Query(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("staticdom: within %q: %w", expr, err)
	}
	if n == nil {
		return nil, fmt.Errorf("staticdom: within %q: no match", expr)
	}
	return &Document{root: n}, nil
}

// HTML renders the document subtree, for failure reports.
func (d *Document) HTML(ctx context.Context) (string, error) {
	var b strings.Builder
	if err := html.Render(&b, d.root); err != nil {
		return "", fmt.Errorf("staticdom: render: %w", err)
	}
	return b.String(), nil
}
