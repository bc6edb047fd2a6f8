package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/agentboard/agentboard/internal/execution"
	"github.com/agentboard/agentboard/internal/repository"
)

func (s *Server) listExecutions(w http.ResponseWriter, r *http.Request) {
	workflowID := r.URL.Query().Get("workflow_id")
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	all, err := s.executions.List(r.Context(), workflowID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if all == nil {
		all = []*execution.Record{}
	}
	writeJSON(w, http.StatusOK, all)
}

func (s *Server) getExecution(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookupExecution(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) cancelExecution(w http.ResponseWriter, r *http.Request) {
	if s.runner == nil {
		http.Error(w, "execution runner not configured", http.StatusServiceUnavailable)
		return
	}
	if err := s.runner.Cancel(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "execution not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getExecutionLogs(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookupExecution(w, r)
	if !ok {
		return
	}
	logs, err := s.executions.Logs(r.Context(), rec.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if logs == nil {
		logs = []execution.LogEntry{}
	}
	writeJSON(w, http.StatusOK, logs)
}

// getExecutionOutputs returns the grouped team/peer projection of the
// execution result. The iteration query parameter filters history:
// a positive value selects that display iteration, 0 (or absence)
// selects the current output.
func (s *Server) getExecutionOutputs(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookupExecution(w, r)
	if !ok {
		return
	}
	if rec.Result == nil {
		http.Error(w, "execution has no result yet", http.StatusConflict)
		return
	}

	iteration := 0
	if v := r.URL.Query().Get("iteration"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "iteration must be a non-negative integer", http.StatusBadRequest)
			return
		}
		iteration = n
	}

	type outputsResponse struct {
		execution.Grouped
		Iterations []int `json:"iterations"`
	}
	writeJSON(w, http.StatusOK, outputsResponse{
		Grouped:    execution.GroupOutputs(rec.Result, iteration),
		Iterations: execution.Iterations(rec.Result),
	})
}

func (s *Server) getExecutionPerformance(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookupExecution(w, r)
	if !ok {
		return
	}
	if rec.Result == nil {
		http.Error(w, "execution has no result yet", http.StatusConflict)
		return
	}
	buckets := execution.AggregatePerformance(rec.Result.AgentUsage)
	if buckets == nil {
		buckets = []execution.RoleBucket{}
	}
	writeJSON(w, http.StatusOK, buckets)
}

func (s *Server) getExecutionCharts(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookupExecution(w, r)
	if !ok {
		return
	}
	if rec.Result == nil {
		http.Error(w, "execution has no result yet", http.StatusConflict)
		return
	}

	buckets := execution.AggregatePerformance(rec.Result.AgentUsage)
	writeJSON(w, http.StatusOK, map[string]execution.Chart{
		"performance": execution.PerformanceChart(buckets),
		"usage":       execution.UsageChart(rec.Result.AgentUsage),
	})
}

// getExecutionGraph returns the observed delegation graph as node order
// plus adjacency, ready for the canvas widget.
func (s *Server) getExecutionGraph(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookupExecution(w, r)
	if !ok {
		return
	}
	if rec.Result == nil {
		http.Error(w, "execution has no result yet", http.StatusConflict)
		return
	}

	raw := make(map[string]any, len(rec.Result.ExecutionGraph))
	for k, targets := range rec.Result.ExecutionGraph {
		list := make([]any, len(targets))
		for i, t := range targets {
			list[i] = t
		}
		raw[k] = list
	}
	order, graph := execution.SanitizeGraph(raw)

	writeJSON(w, http.StatusOK, map[string]any{
		"order": order,
		"graph": graph,
	})
}

func (s *Server) lookupExecution(w http.ResponseWriter, r *http.Request) (*execution.Record, bool) {
	rec, err := s.executions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "execution not found", http.StatusNotFound)
			return nil, false
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return rec, true
}
