package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agentboard/agentboard/internal/editor"
	"github.com/agentboard/agentboard/internal/workflow"
)

const (
	canvasWidth  = 800.0
	canvasHeight = 600.0
)

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	sess := s.editor.Create()
	s.syncCanvas(sess)
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.editor.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) closeSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.editor.Close(id)
	s.canvasMu.Lock()
	delete(s.canvases, id)
	s.canvasMu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// dispatchAction applies one editor action. A rejected action returns
// 422 with the reason; the session state is unchanged in that case.
func (s *Server) dispatchAction(w http.ResponseWriter, r *http.Request) {
	var action editor.Action
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess, err := s.editor.Dispatch(chi.URLParam(r, "id"), action)
	if err != nil {
		if errors.Is(err, editor.ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.syncCanvas(sess)
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) exportSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.editor.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	data, err := sess.Export()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="workflow_config.json"`)
	w.Write(data)
}

func (s *Server) importSession(w http.ResponseWriter, r *http.Request) {
	var payload json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess, err := s.editor.Dispatch(chi.URLParam(r, "id"), editor.Action{
		Type:    editor.ActionImportConfig,
		Payload: payload,
	})
	if err != nil {
		if errors.Is(err, editor.ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.syncCanvas(sess)
	writeJSON(w, http.StatusOK, sess)
}

// runSession executes the session's current draft configuration without
// saving it.
func (s *Server) runSession(w http.ResponseWriter, r *http.Request) {
	if s.runner == nil {
		http.Error(w, "execution runner not configured", http.StatusServiceUnavailable)
		return
	}
	sess, ok := s.editor.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
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

	if err := workflow.Validate(sess.Config); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	cfg := workflow.Clone(sess.Config)
	if err := s.toolReg.RegisterConfigured(cfg); err != nil {
		slog.Warn("registering draft tools", "session", sess.ID, "err", err)
	}
	rec, err := s.runner.RunDetached(r.Context(), cfg, req.InputData)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusAccepted, rec)
}
