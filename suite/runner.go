// CLAUDE:SUMMARY Executes suite checks page by page against live or static targets and records outcomes.
package suite

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hazyhaar/domassert/browser"
	"github.com/hazyhaar/domassert/matcher"
	"github.com/hazyhaar/domassert/poll"
	"github.com/hazyhaar/domassert/query"
	"github.com/hazyhaar/domassert/staticdom"
	"github.com/hazyhaar/domassert/suite/internal/store"
)

// Target is an open page (or sub-node scope) the runner asserts against.
type Target interface {
	query.Backend
	HTML(ctx context.Context) (string, error)
}

// Opener opens the target for one page. The returned closer releases the
// page; it may be a no-op for static documents.
type Opener func(ctx context.Context, pg PageConfig) (Target, func() error, error)

// Report summarises one suite execution.
type Report struct {
	RunID   string         `json:"run_id,omitempty"`
	Suite   string         `json:"suite"`
	Passed  int            `json:"passed"`
	Failed  int            `json:"failed"`
	Results []store.Result `json:"results"`
}

// Runner executes a suite configuration.
type Runner struct {
	cfg    *Config
	logger *slog.Logger
	store  *store.Store
	open   Opener
	client *http.Client
	mgr    *browser.Manager
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the runner logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithStore records runs in the given history store.
func WithStore(s *store.Store) RunnerOption {
	return func(r *Runner) { r.store = s }
}

// WithOpener replaces how page targets are opened. Tests use this to run
// suites against fixture documents without a browser.
func WithOpener(o Opener) RunnerOption {
	return func(r *Runner) { r.open = o }
}

// WithHTTPClient sets the client used for static-mode fetches.
func WithHTTPClient(c *http.Client) RunnerOption {
	return func(r *Runner) { r.client = c }
}

// NewRunner creates a Runner for cfg. Missing wait and browser settings take
// their defaults, so a zero Config is usable for ad-hoc pages.
func NewRunner(cfg *Config, opts ...RunnerOption) *Runner {
	cfg.applyDefaults()
	r := &Runner{cfg: cfg, logger: slog.Default()}
	for _, o := range opts {
		o(r)
	}
	if r.open == nil {
		r.open = r.defaultOpen
	}
	return r
}

// Run executes every check of every page and returns the report. Page-level
// failures (unreachable URL, bad scoping expression) mark all of that page's
// checks failed rather than aborting the suite.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	rep := &Report{Suite: r.cfg.Name}

	if r.store != nil {
		id, err := r.store.BeginRun(ctx, r.cfg.Name)
		if err != nil {
			return nil, err
		}
		rep.RunID = id
	}

	for _, pg := range r.cfg.Pages {
		r.runPage(ctx, pg, rep)
	}

	if r.store != nil {
		if err := r.store.FinishRun(ctx, rep.RunID, rep.Passed, rep.Failed); err != nil {
			return rep, err
		}
	}

	r.logger.Info("suite: run complete",
		"suite", r.cfg.Name, "passed", rep.Passed, "failed", rep.Failed)
	return rep, nil
}

func (r *Runner) runPage(ctx context.Context, pg PageConfig, rep *Report) {
	target, closeTarget, err := r.open(ctx, pg)
	if err != nil {
		r.logger.Error("suite: open page failed", "page", pg.ID, "error", err)
		for _, chk := range pg.Checks {
			r.record(ctx, rep, pg, chk, false, 0, fmt.Sprintf("open page: %v", err))
		}
		return
	}
	defer closeTarget()

	wait := poll.Waiter{Budget: r.cfg.Wait.Budget, Interval: r.cfg.Wait.Interval}
	if pg.Mode == "static" {
		// A static document never changes; one probe decides each check.
		wait.Budget = 0
	}
	sc := matcher.New(target, matcher.WithWait(wait), matcher.WithLogger(r.logger))

	for _, chk := range pg.Checks {
		checkScope := sc
		if chk.Wait > 0 {
			checkScope = sc.Using(wait.WithBudget(chk.Wait))
		}

		start := time.Now()
		ok, err := runCheck(ctx, checkScope, chk)
		elapsed := time.Since(start)

		detail := ""
		if err != nil {
			ok = false
			detail = fmt.Sprintf("error: %v", err)
			r.logger.Error("suite: check errored",
				"page", pg.ID, "kind", chk.Kind, "locator", chk.Locator, "error", err)
		} else if !ok {
			detail = failureSnippet(ctx, target)
		}

		r.record(ctx, rep, pg, chk, ok, elapsed, detail)
	}
}

func (r *Runner) record(ctx context.Context, rep *Report, pg PageConfig, chk Check, pass bool, elapsed time.Duration, detail string) {
	res := store.Result{
		RunID:     rep.RunID,
		PageID:    pg.ID,
		Kind:      chk.Kind,
		Locator:   chk.Locator,
		Negated:   chk.Negate,
		Pass:      pass,
		ElapsedMS: elapsed.Milliseconds(),
		Detail:    detail,
	}
	rep.Results = append(rep.Results, res)
	if pass {
		rep.Passed++
	} else {
		rep.Failed++
	}
	if r.store != nil && rep.RunID != "" {
		if err := r.store.AddResult(ctx, res); err != nil {
			r.logger.Error("suite: record result failed", "error", err)
		}
	}
}

// RunPage executes a single page definition outside the configured suite,
// without recording history. The HTTP and MCP check endpoints use it for
// ad-hoc assertions.
func (r *Runner) RunPage(ctx context.Context, pg PageConfig) *Report {
	if pg.Mode == "" {
		pg.Mode = "live"
	}
	if pg.ID == "" {
		pg.ID = pg.URL
	}
	rep := &Report{Suite: r.cfg.Name}
	r.runPage(ctx, pg, rep)
	return rep
}

// runCheck dispatches one check to the matching predicate.
func runCheck(ctx context.Context, sc *matcher.Scope, chk Check) (bool, error) {
	opts := query.Options{
		Count:        chk.Count,
		Text:         chk.Text,
		Visible:      chk.Visible,
		With:         chk.With,
		Selected:     chk.Selected,
		OptionLabels: chk.Options,
		Rows:         chk.Rows,
	}

	switch chk.Kind {
	case "css":
		if chk.Negate {
			return sc.HasNoCSS(ctx, chk.Locator, opts)
		}
		return sc.HasCSS(ctx, chk.Locator, opts)
	case "xpath":
		if chk.Negate {
			return sc.HasNoXPath(ctx, chk.Locator, opts)
		}
		return sc.HasXPath(ctx, chk.Locator, opts)
	case "content":
		if chk.Negate {
			return sc.HasNoContent(ctx, chk.Locator, opts)
		}
		return sc.HasContent(ctx, chk.Locator, opts)
	case "link":
		if chk.Negate {
			return sc.HasNoLink(ctx, chk.Locator, opts)
		}
		return sc.HasLink(ctx, chk.Locator, opts)
	case "button":
		if chk.Negate {
			return sc.HasNoButton(ctx, chk.Locator, opts)
		}
		return sc.HasButton(ctx, chk.Locator, opts)
	case "field":
		if chk.Negate {
			return sc.HasNoField(ctx, chk.Locator, opts)
		}
		return sc.HasField(ctx, chk.Locator, opts)
	case "checked_field":
		return sc.HasCheckedField(ctx, chk.Locator, opts)
	case "unchecked_field":
		return sc.HasUncheckedField(ctx, chk.Locator, opts)
	case "select":
		if chk.Negate {
			return sc.HasNoSelect(ctx, chk.Locator, opts)
		}
		return sc.HasSelect(ctx, chk.Locator, opts)
	case "table":
		if chk.Negate {
			return sc.HasNoTable(ctx, chk.Locator, opts)
		}
		return sc.HasTable(ctx, chk.Locator, opts)
	}
	return false, fmt.Errorf("suite: unknown check kind %q", chk.Kind)
}

// defaultOpen opens a live browser tab or fetches a static snapshot,
// applying the page's within scope.
func (r *Runner) defaultOpen(ctx context.Context, pg PageConfig) (Target, func() error, error) {
	if pg.Mode == "static" {
		doc, err := staticdom.Fetch(ctx, r.client, pg.URL)
		if err != nil {
			return nil, nil, err
		}
		if pg.Within != "" {
			if doc, err = doc.Within(pg.Within); err != nil {
				return nil, nil, err
			}
		}
		return doc, func() error { return nil }, nil
	}

	if err := r.ensureBrowser(ctx); err != nil {
		return nil, nil, err
	}
	tab, err := browser.Open(ctx, r.mgr, pg.URL)
	if err != nil {
		return nil, nil, err
	}
	target := tab
	if pg.Within != "" {
		scoped, err := tab.Within(ctx, pg.Within)
		if err != nil {
			tab.Close()
			return nil, nil, err
		}
		target = scoped
	}
	return target, tab.Close, nil
}

func (r *Runner) ensureBrowser(ctx context.Context) error {
	if r.mgr == nil {
		r.mgr = browser.NewManager(browser.Config{
			RemoteURL:        r.cfg.Browser.Remote,
			ResourceBlocking: r.cfg.Browser.ResourceBlocking,
			NavigateTimeout:  r.cfg.Browser.NavigateTimeout,
			Logger:           r.logger,
		})
	}
	return r.mgr.Start(ctx)
}

// Close releases the browser if one was started.
func (r *Runner) Close() error {
	if r.mgr != nil {
		return r.mgr.Close()
	}
	return nil
}
