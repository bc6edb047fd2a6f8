package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/agentboard/agentboard/internal/workflow"
)

// listTools returns all registered tool definitions. With an ?agent=
// query the list is narrowed to what that agent may use: availability
// conditions are evaluated against the agent's metadata, and a ?tools=
// parameter (comma separated) restricts the candidate set to the
// agent's configured tools.
func (s *Server) listTools(w http.ResponseWriter, r *http.Request) {
	defs := s.toolReg.Definitions()
	if defs == nil {
		defs = []workflow.Tool{}
	}

	q := r.URL.Query()
	if q.Get("agent") == "" {
		writeJSON(w, http.StatusOK, defs)
		return
	}

	agent := workflow.Agent{
		Name:          q.Get("agent"),
		Role:          q.Get("role"),
		ModelProvider: q.Get("model_provider"),
		ModelName:     q.Get("model_name"),
	}
	if raw := q.Get("tools"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				agent.Tools = append(agent.Tools, name)
			}
		}
	} else {
		for _, def := range defs {
			agent.Tools = append(agent.Tools, def.Name)
		}
	}

	available := s.toolReg.ForAgent(agent)
	if available == nil {
		available = []workflow.Tool{}
	}
	writeJSON(w, http.StatusOK, available)
}

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, workflow.Templates())
}

func (s *Server) getTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, ok := workflow.FindTemplate(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "template not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

// testTool runs a tool once with caller-supplied parameters and returns
// the invocation outcome. Failures come back in the body, not as HTTP
// errors, so the tester UI can show them inline.
func (s *Server) testTool(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ToolName   string         `json:"tool_name"`
		Parameters map[string]any `json:"parameters"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ToolName == "" {
		http.Error(w, "tool_name is required", http.StatusBadRequest)
		return
	}

	inv := s.toolReg.Execute(r.Context(), req.ToolName, req.Parameters)
	writeJSON(w, http.StatusOK, inv)
}

// validateConfig checks a workflow configuration and reports the result
// in the body; validation failure is not an HTTP error.
func (s *Server) validateConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Config *workflow.Config `json:"config"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Config == nil {
		http.Error(w, "config is required", http.StatusBadRequest)
		return
	}

	type validationResponse struct {
		Valid        bool   `json:"valid"`
		Message      string `json:"message"`
		WorkflowType string `json:"workflow_type,omitempty"`
	}

	if err := workflow.Validate(req.Config); err != nil {
		writeJSON(w, http.StatusOK, validationResponse{Valid: false, Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, validationResponse{
		Valid:        true,
		Message:      "configuration is valid",
		WorkflowType: req.Config.Coordination.Type,
	})
}
