// CLAUDE:SUMMARY Registers suite MCP tools — ad-hoc check, full suite run, and run history.
package suite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/domassert/kit"
)

// RegisterMCP registers the runner's tools on an MCP server. Every endpoint
// runs behind the shared middleware chain so tool failures land in the run
// log with their transport.
func (r *Runner) RegisterMCP(srv *mcp.Server) {
	mw := kit.Chain(r.logFailures)
	r.registerCheckTool(srv, mw)
	r.registerRunSuiteTool(srv, mw)
	r.registerHistoryTool(srv, mw)
	r.registerRunResultsTool(srv, mw)
}

func (r *Runner) logFailures(next kit.Endpoint) kit.Endpoint {
	return func(ctx context.Context, req any) (any, error) {
		resp, err := next(ctx, req)
		if err != nil {
			r.logger.Error("suite: tool failed",
				"transport", kit.GetTransport(ctx), "error", err)
		}
		return resp, err
	}
}

// inputSchema builds a JSON Schema object with type "object".
func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// --- check ---

func (r *Runner) registerCheckTool(srv *mcp.Server, mw kit.Middleware) {
	tool := &mcp.Tool{
		Name:        "domassert_check",
		Description: "Run one boolean assertion against a URL. Returns pass/fail with a page snippet on failure.",
		InputSchema: inputSchema(map[string]any{
			"url":     map[string]any{"type": "string", "description": "Page URL"},
			"mode":    map[string]any{"type": "string", "enum": []any{"live", "static"}, "description": "live drives Chrome; static fetches once over HTTP"},
			"within":  map[string]any{"type": "string", "description": "XPath scoping the assertion to a sub-node"},
			"kind":    map[string]any{"type": "string", "enum": []any{"css", "xpath", "content", "link", "button", "field", "checked_field", "unchecked_field", "select", "table"}},
			"locator": map[string]any{"type": "string", "description": "Selector or semantic locator"},
			"negate":  map[string]any{"type": "boolean", "description": "Assert absence instead of presence"},
			"count":   map[string]any{"type": "integer", "description": "Require exactly this many matches"},
			"text":    map[string]any{"type": "string", "description": "Require matches to contain this text"},
		}, []string{"url", "kind", "locator"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		cr := req.(*checkRequest)
		if cr.URL == "" || cr.Kind == "" || cr.Locator == "" {
			return nil, fmt.Errorf("url, kind, and locator are required")
		}
		return r.RunPage(ctx, PageConfig{
			URL:    cr.URL,
			Mode:   cr.Mode,
			Within: cr.Within,
			Checks: []Check{cr.Check},
		}), nil
	}

	kit.RegisterMCPTool(srv, tool, mw(endpoint), decodeInto[checkRequest])
}

// --- run_suite ---

type runSuiteRequest struct{}

func (r *Runner) registerRunSuiteTool(srv *mcp.Server, mw kit.Middleware) {
	tool := &mcp.Tool{
		Name:        "domassert_run_suite",
		Description: "Execute the configured check suite and return the report.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		return r.Run(ctx)
	}

	kit.RegisterMCPTool(srv, tool, mw(endpoint), decodeInto[runSuiteRequest])
}

// --- history ---

type historyRequest struct {
	Limit int `json:"limit,omitempty"`
}

func (r *Runner) registerHistoryTool(srv *mcp.Server, mw kit.Middleware) {
	tool := &mcp.Tool{
		Name:        "domassert_history",
		Description: "List recent suite runs, newest first.",
		InputSchema: inputSchema(map[string]any{
			"limit": map[string]any{"type": "integer", "description": "Max runs (default 20)"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		if r.store == nil {
			return nil, fmt.Errorf("history not enabled")
		}
		return r.store.Runs(ctx, req.(*historyRequest).Limit)
	}

	kit.RegisterMCPTool(srv, tool, mw(endpoint), decodeInto[historyRequest])
}

// --- run_results ---

type runResultsRequest struct {
	RunID string `json:"run_id"`
}

func (r *Runner) registerRunResultsTool(srv *mcp.Server, mw kit.Middleware) {
	tool := &mcp.Tool{
		Name:        "domassert_run_results",
		Description: "List the check outcomes of one run.",
		InputSchema: inputSchema(map[string]any{
			"run_id": map[string]any{"type": "string"},
		}, []string{"run_id"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		if r.store == nil {
			return nil, fmt.Errorf("history not enabled")
		}
		return r.store.Results(ctx, req.(*runResultsRequest).RunID)
	}

	kit.RegisterMCPTool(srv, tool, mw(endpoint), decodeInto[runResultsRequest])
}

// decodeInto unmarshals MCP tool arguments into T.
func decodeInto[T any](req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	var r T
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
	}
	return &kit.MCPDecodeResult{Request: &r}, nil
}
