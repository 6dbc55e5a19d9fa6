package suite_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/domassert/suite"
)

func newServer(t *testing.T, r *suite.Runner) *httptest.Server {
	t.Helper()
	mux := chi.NewRouter()
	r.RegisterHTTP(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTP_Health(t *testing.T) {
	srv := newServer(t, suite.NewRunner(testConfig()))

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestHTTP_Check(t *testing.T) {
	r := suite.NewRunner(testConfig(), suite.WithOpener(fixtureOpener(pageHTML)))
	srv := newServer(t, r)

	body := `{"url":"fixture://home","mode":"static","kind":"content","locator":"Welcome"}`
	resp, err := http.Post(srv.URL+"/api/check", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var rep suite.Report
	if err := json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		t.Fatal(err)
	}
	if rep.Passed != 1 || rep.Failed != 0 {
		t.Fatalf("report = %+v", rep)
	}
}

func TestHTTP_CheckBadRequest(t *testing.T) {
	r := suite.NewRunner(testConfig(), suite.WithOpener(fixtureOpener(pageHTML)))
	srv := newServer(t, r)

	resp, err := http.Post(srv.URL+"/api/check", "application/json", strings.NewReader(`{"url":"x"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestHTTP_RunAndHistory(t *testing.T) {
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
		},
	})
	r := suite.NewRunner(cfg, suite.WithOpener(fixtureOpener(pageHTML)), suite.WithStore(st))
	srv := newServer(t, r)

	resp, err := http.Post(srv.URL+"/api/run", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	var rep suite.Report
	if err := json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if rep.RunID == "" || rep.Passed != 1 {
		t.Fatalf("report = %+v", rep)
	}

	resp, err = http.Get(srv.URL + "/api/runs?limit=5")
	if err != nil {
		t.Fatal(err)
	}
	var runs []suite.Run
	if err := json.NewDecoder(resp.Body).Decode(&runs); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if len(runs) != 1 {
		t.Fatalf("runs = %+v", runs)
	}

	resp, err = http.Get(srv.URL + "/api/runs/" + rep.RunID)
	if err != nil {
		t.Fatal(err)
	}
	var results []suite.Result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if len(results) != 1 || !results[0].Pass {
		t.Fatalf("results = %+v", results)
	}
}

func TestHTTP_HistoryDisabled(t *testing.T) {
	srv := newServer(t, suite.NewRunner(testConfig()))

	resp, err := http.Get(srv.URL + "/api/runs")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
