package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/agentboard/agentboard/internal/repository"
	"github.com/agentboard/agentboard/internal/workflow"
)

type workflowCreateRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Config      *workflow.Config `json:"config"`
}

type workflowUpdateRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Config      *workflow.Config `json:"config"`
}

func (s *Server) createWorkflow(w http.ResponseWriter, r *http.Request) {
	var req workflowCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if req.Config == nil {
		req.Config = workflow.NewConfig()
	}
	if err := workflow.Validate(req.Config); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now()
	wf := &workflow.Workflow{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Config:      *req.Config,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.workflows.Create(r.Context(), wf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	// User-defined tools become testable via /tools/test as soon as the
	// workflow is saved.
	if err := s.toolReg.RegisterConfigured(&wf.Config); err != nil {
		slog.Warn("registering workflow tools", "workflow", wf.ID, "err", err)
	}
	writeJSON(w, http.StatusCreated, wf)
}

func (s *Server) listWorkflows(w http.ResponseWriter, r *http.Request) {
	all, err := s.workflows.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if all == nil {
		all = []*workflow.Workflow{}
	}
	writeJSON(w, http.StatusOK, all)
}

func (s *Server) getWorkflow(w http.ResponseWriter, r *http.Request) {
	wf, err := s.workflows.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "workflow not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, wf)
}

func (s *Server) updateWorkflow(w http.ResponseWriter, r *http.Request) {
	wf, err := s.workflows.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "workflow not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var req workflowUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated := *wf
	if req.Name != nil {
		if *req.Name == "" {
			http.Error(w, "name must not be empty", http.StatusBadRequest)
			return
		}
		updated.Name = *req.Name
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.Config != nil {
		if err := workflow.Validate(req.Config); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		updated.Config = *req.Config
	}
	updated.UpdatedAt = time.Now()

	if err := s.workflows.Update(r.Context(), &updated); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if req.Config != nil {
		if err := s.toolReg.RegisterConfigured(&updated.Config); err != nil {
			slog.Warn("registering workflow tools", "workflow", updated.ID, "err", err)
		}
	}
	writeJSON(w, http.StatusOK, &updated)
}

func (s *Server) deleteWorkflow(w http.ResponseWriter, r *http.Request) {
	if err := s.workflows.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "workflow not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) runWorkflow(w http.ResponseWriter, r *http.Request) {
	if s.runner == nil {
		http.Error(w, "execution runner not configured", http.StatusServiceUnavailable)
		return
	}

	var req struct {
		InputData map[string]any `json:"input_data"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	rec, err := s.runner.Start(r.Context(), chi.URLParam(r, "id"), req.InputData)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "workflow not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusAccepted, rec)
}
