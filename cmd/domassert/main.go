// CLAUDE:SUMMARY CLI entry point for domassert — suite runs, ad-hoc checks, HTTP server, and MCP stdio modes.
// Command domassert runs boolean DOM assertions against web pages.
//
// Usage:
//
//	domassert -config suite.yaml                      # run the suite once
//	domassert -url https://example.com -check css:.item
//	domassert -config suite.yaml -serve :8080         # HTTP API
//	domassert -config suite.yaml -mcp                 # MCP server on stdio
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/domassert/kit"
	"github.com/hazyhaar/domassert/suite"
)

func main() {
	configPath := flag.String("config", "", "path to suite.yaml")
	singleURL := flag.String("url", "", "run a single check against this URL")
	check := flag.String("check", "", "check as kind:locator (with -url), e.g. css:.item or content:Welcome")
	negate := flag.Bool("negate", false, "assert absence instead of presence (with -check)")
	// A flag cannot express "unset"; -1 stands in here and runSingle maps
	// any non-negative value to an exact-count assertion, keeping 0 a real
	// count.
	count := flag.Int("count", -1, "require exactly this many matches (with -check)")
	static := flag.Bool("static", false, "fetch the page once over HTTP instead of driving Chrome")
	dbPath := flag.String("db", "", "history database path (overrides config)")
	serveAddr := flag.String("serve", "", "serve the HTTP API on this address")
	mcpMode := flag.Bool("mcp", false, "serve MCP tools on stdio")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	code, err := run(ctx, logger, options{
		configPath: *configPath,
		singleURL:  *singleURL,
		check:      *check,
		negate:     *negate,
		count:      *count,
		static:     *static,
		dbPath:     *dbPath,
		serveAddr:  *serveAddr,
		mcpMode:    *mcpMode,
	})
	if err != nil {
		logger.Error("domassert: fatal", "error", err)
		os.Exit(1)
	}
	os.Exit(code)
}

type options struct {
	configPath string
	singleURL  string
	check      string
	negate     bool
	count      int
	static     bool
	dbPath     string
	serveAddr  string
	mcpMode    bool
}

func run(ctx context.Context, logger *slog.Logger, opts options) (int, error) {
	cfg := &suite.Config{}
	if opts.configPath != "" {
		loaded, err := suite.LoadFile(opts.configPath)
		if err != nil {
			return 1, err
		}
		cfg = loaded
	} else if opts.singleURL == "" {
		fmt.Fprintln(os.Stderr, "usage: domassert -config <file> | -url <url> -check <kind:locator>")
		return 2, nil
	}

	runnerOpts := []suite.RunnerOption{suite.WithLogger(logger)}

	historyPath := cfg.History.Path
	if opts.dbPath != "" {
		historyPath = opts.dbPath
	}
	if historyPath != "" {
		st, err := suite.OpenStore(historyPath)
		if err != nil {
			return 1, err
		}
		defer st.Close()
		runnerOpts = append(runnerOpts, suite.WithStore(st))
	}

	runner := suite.NewRunner(cfg, runnerOpts...)
	defer runner.Close()

	switch {
	case opts.mcpMode:
		return 0, runMCP(ctx, runner)
	case opts.serveAddr != "":
		return 0, runHTTP(ctx, logger, runner, opts.serveAddr)
	case opts.singleURL != "":
		return runSingle(ctx, runner, opts)
	default:
		rep, err := runner.Run(ctx)
		if err != nil {
			return 1, err
		}
		printReport(rep)
		if rep.Failed > 0 {
			return 1, nil
		}
		return 0, nil
	}
}

func runSingle(ctx context.Context, runner *suite.Runner, opts options) (int, error) {
	kind, locator, ok := strings.Cut(opts.check, ":")
	if !ok || kind == "" || locator == "" {
		return 2, fmt.Errorf("bad -check %q, want kind:locator", opts.check)
	}

	chk := suite.Check{Kind: kind, Locator: locator, Negate: opts.negate}
	if opts.count >= 0 {
		c := opts.count
		chk.Count = &c
	}
	mode := "live"
	if opts.static {
		mode = "static"
	}

	rep := runner.RunPage(ctx, suite.PageConfig{
		URL:    opts.singleURL,
		Mode:   mode,
		Checks: []suite.Check{chk},
	})
	printReport(rep)
	if rep.Failed > 0 {
		return 1, nil
	}
	return 0, nil
}

func runHTTP(ctx context.Context, logger *slog.Logger, runner *suite.Runner, addr string) error {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(kitContext)
	runner.RegisterHTTP(r)

	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	logger.Info("domassert: http listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// kitContext copies chi's request ID into the kit context so endpoint logs
// correlate with access logs.
func kitContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := kit.WithTransport(req.Context(), "http")
		if id := middleware.GetReqID(req.Context()); id != "" {
			ctx = kit.WithRequestID(ctx, id)
		}
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func runMCP(ctx context.Context, runner *suite.Runner) error {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "domassert",
		Version: "1.0.0",
	}, nil)
	runner.RegisterMCP(srv)
	return srv.Run(ctx, &mcp.StdioTransport{})
}

func printReport(rep *suite.Report) {
	for _, res := range rep.Results {
		status := "PASS"
		if !res.Pass {
			status = "FAIL"
		}
		fmt.Printf("%s  %s %s %q (%dms)\n", status, res.PageID, res.Kind, res.Locator, res.ElapsedMS)
	}
	fmt.Printf("%d passed, %d failed\n", rep.Passed, rep.Failed)
}
