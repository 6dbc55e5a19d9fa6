package suite_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/domassert/suite"
)

var testMCPImpl = &mcp.Implementation{Name: "domassert-test", Version: "0.1.0"}

func mcpSession(t *testing.T, r *suite.Runner) *mcp.ClientSession {
	t.Helper()
	srv := mcp.NewServer(testMCPImpl, nil)
	r.RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func mcpCallTool(t *testing.T, session *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	text := mcpResultText(t, name, result)
	// Tool errors are not marshaled as Go errors; clients only see the
	// IsError flag and the message in the text content.
	if result.IsError {
		t.Fatalf("CallTool(%s) tool error: %s", name, text)
	}
	return text
}

// mcpCallToolErr calls a tool expecting a tool-level error and returns its
// message.
func mcpCallToolErr(t *testing.T, session *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if !result.IsError {
		t.Fatalf("CallTool(%s): expected tool error", name)
	}
	return mcpResultText(t, name, result)
}

func mcpResultText(t *testing.T, name string, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatalf("CallTool(%s): empty content", name)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent", name)
	}
	return tc.Text
}

func TestMCP_Check(t *testing.T) {
	cfg := testConfig()
	r := suite.NewRunner(cfg, suite.WithOpener(fixtureOpener(pageHTML)))
	session := mcpSession(t, r)

	text := mcpCallTool(t, session, "domassert_check", map[string]any{
		"url":     "fixture://home",
		"mode":    "static",
		"kind":    "content",
		"locator": "Welcome",
	})

	var rep suite.Report
	if err := json.Unmarshal([]byte(text), &rep); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rep.Passed != 1 || rep.Failed != 0 {
		t.Fatalf("passed/failed = %d/%d", rep.Passed, rep.Failed)
	}
}

func TestMCP_CheckNegated(t *testing.T) {
	r := suite.NewRunner(testConfig(), suite.WithOpener(fixtureOpener(pageHTML)))
	session := mcpSession(t, r)

	text := mcpCallTool(t, session, "domassert_check", map[string]any{
		"url":     "fixture://home",
		"mode":    "static",
		"kind":    "link",
		"locator": "Register",
		"negate":  true,
	})

	var rep suite.Report
	if err := json.Unmarshal([]byte(text), &rep); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rep.Passed != 1 {
		t.Fatalf("report = %+v", rep)
	}
}

func TestMCP_CheckMissingArgs(t *testing.T) {
	r := suite.NewRunner(testConfig(), suite.WithOpener(fixtureOpener(pageHTML)))
	session := mcpSession(t, r)

	msg := mcpCallToolErr(t, session, "domassert_check", map[string]any{"url": "fixture://home"})
	if !strings.Contains(msg, "required") {
		t.Errorf("message = %q", msg)
	}
}

func TestMCP_RunSuiteAndHistory(t *testing.T) {
	st, err := suite.OpenStore(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	cfg := testConfig(suite.PageConfig{
		ID:   "home",
		URL:  "fixture://home",
		Mode: "static",
		Checks: []suite.Check{
			{Kind: "content", Locator: "Welcome"},
			{Kind: "content", Locator: "Nope"},
		},
	})
	r := suite.NewRunner(cfg, suite.WithOpener(fixtureOpener(pageHTML)), suite.WithStore(st))
	session := mcpSession(t, r)

	text := mcpCallTool(t, session, "domassert_run_suite", map[string]any{})
	var rep suite.Report
	if err := json.Unmarshal([]byte(text), &rep); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rep.RunID == "" || rep.Passed != 1 || rep.Failed != 1 {
		t.Fatalf("report = %+v", rep)
	}

	text = mcpCallTool(t, session, "domassert_history", map[string]any{"limit": 5})
	var runs []suite.Run
	if err := json.Unmarshal([]byte(text), &runs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != rep.RunID {
		t.Fatalf("runs = %+v", runs)
	}

	text = mcpCallTool(t, session, "domassert_run_results", map[string]any{"run_id": rep.RunID})
	var results []suite.Result
	if err := json.Unmarshal([]byte(text), &results); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %+v", results)
	}
}

func TestMCP_HistoryDisabled(t *testing.T) {
	r := suite.NewRunner(testConfig(), suite.WithOpener(fixtureOpener(pageHTML)))
	session := mcpSession(t, r)

	msg := mcpCallToolErr(t, session, "domassert_history", map[string]any{})
	if !strings.Contains(msg, "history not enabled") {
		t.Errorf("message = %q", msg)
	}
}
