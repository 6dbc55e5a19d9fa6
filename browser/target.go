// CLAUDE:SUMMARY Live query backend over a Rod page — structural XPath queries and element accessors via CDP.
package browser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/stealth"

	"github.com/hazyhaar/domassert/query"
	"github.com/hazyhaar/domassert/selector"
)

// Target answers structural queries against a live page, or against a
// sub-node of it when scoped with Within. Each Query observes the page as it
// currently renders; Rod-level retry is disabled so retry policy stays with
// the caller's polling loop.
type Target struct {
	page   *rod.Page
	root   *rod.Element // non-nil when scoped to a sub-node
	logger *slog.Logger
}

// Open creates a stealth tab, navigates it, and waits for the initial load.
func Open(ctx context.Context, mgr *Manager, pageURL string) (*Target, error) {
	b := mgr.Browser()
	if b == nil {
		return nil, fmt.Errorf("browser: no active browser")
	}

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}

	if len(mgr.cfg.ResourceBlocking) > 0 {
		if err := applyResourceBlocking(page, mgr.cfg.ResourceBlocking, mgr.cfg.Logger); err != nil {
			mgr.cfg.Logger.Warn("browser: resource blocking failed", "error", err)
		}
	}

	navCtx, cancel := context.WithTimeout(ctx, mgr.cfg.NavigateTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		page.Close()
		return nil, fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		mgr.cfg.Logger.Warn("browser: wait load timeout", "url", pageURL, "error", err)
	}

	return &Target{page: page, logger: mgr.cfg.Logger}, nil
}

// Query evaluates a structural selector against the current page state and
// applies the option filters. No matches is an empty slice; an invalid
// expression is an error.
func (t *Target) Query(ctx context.Context, sel selector.Selector, opts query.Options) ([]query.Element, error) {
	var (
		els rod.Elements
		err error
	)
	if t.root != nil {
		els, err = t.root.Context(ctx).ElementsX(sel.Expr)
	} else {
		els, err = t.page.Context(ctx).ElementsX(sel.Expr)
	}
	if err != nil {
		return nil, fmt.Errorf("browser: query %q: %w", sel.Expr, err)
	}

	elems := make([]query.Element, 0, len(els))
	for _, el := range els {
		elems = append(elems, &liveElement{el: el})
	}
	return query.Filter(ctx, elems, opts)
}

// Within scopes the target to the first element matching expr.
func (t *Target) Within(ctx context.Context, expr string) (*Target, error) {
	var (
		el  *rod.Element
		err error
	)
	if t.root != nil {
		el, err = t.root.Context(ctx).ElementX(expr)
	} else {
		el, err = t.page.Context(ctx).ElementX(expr)
	}
	if err != nil {
		return nil, fmt.Errorf("browser: within %q: %w", expr, err)
	}
	return &Target{page: t.page, root: el, logger: t.logger}, nil
}

// HTML serialises the scope's outer HTML, for failure reports.
func (t *Target) HTML(ctx context.Context) (string, error) {
	if t.root != nil {
		h, err := t.root.Context(ctx).HTML()
		if err != nil {
			return "", fmt.Errorf("browser: element html: %w", err)
		}
		return h, nil
	}
	res, err := t.page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", fmt.Errorf("browser: page html: %w", err)
	}
	return res.Value.Str(), nil
}

// Close closes the tab.
func (t *Target) Close() error {
	if t.page != nil {
		return t.page.Close()
	}
	return nil
}
