// CLAUDE:SUMMARY HTTP surface for the suite runner — health, run history, and ad-hoc check endpoints on chi.
package suite

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/domassert/kit"
)

// RegisterHTTP registers the runner's endpoints on a chi router.
func (r *Runner) RegisterHTTP(mux chi.Router) {
	mux.Get("/healthz", r.handleHealth)
	mux.Post("/api/run", r.handleRun)
	mux.Post("/api/check", r.handleCheck)
	mux.Get("/api/runs", r.handleRuns)
	mux.Get("/api/runs/{id}", r.handleRunResults)
}

func (r *Runner) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRun executes the configured suite.
func (r *Runner) handleRun(w http.ResponseWriter, req *http.Request) {
	rep, err := r.Run(req.Context())
	if err != nil {
		r.logger.Error("suite: run failed",
			"request_id", kit.GetRequestID(req.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// checkRequest is one ad-hoc assertion against a URL.
type checkRequest struct {
	URL    string `json:"url"`
	Mode   string `json:"mode,omitempty"` // live (default) | static
	Within string `json:"within,omitempty"`
	Check
}

func (r *Runner) handleCheck(w http.ResponseWriter, req *http.Request) {
	var cr checkRequest
	if err := json.NewDecoder(req.Body).Decode(&cr); err != nil {
		r.logger.Warn("suite: bad check request",
			"request_id", kit.GetRequestID(req.Context()), "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if cr.URL == "" || cr.Kind == "" || cr.Locator == "" {
		writeJSON(w, http.StatusBadRequest,
			map[string]string{"error": "url, kind, and locator are required"})
		return
	}

	rep := r.RunPage(req.Context(), PageConfig{
		URL:    cr.URL,
		Mode:   cr.Mode,
		Within: cr.Within,
		Checks: []Check{cr.Check},
	})
	writeJSON(w, http.StatusOK, rep)
}

func (r *Runner) handleRuns(w http.ResponseWriter, req *http.Request) {
	if r.store == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "history not enabled"})
		return
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	runs, err := r.store.Runs(req.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (r *Runner) handleRunResults(w http.ResponseWriter, req *http.Request) {
	if r.store == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "history not enabled"})
		return
	}
	results, err := r.store.Results(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
