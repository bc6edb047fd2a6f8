package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/agentboard/agentboard/internal/auth"
	"github.com/agentboard/agentboard/internal/canvas"
	"github.com/agentboard/agentboard/internal/editor"
	"github.com/agentboard/agentboard/internal/repository"
	"github.com/agentboard/agentboard/internal/services"
	"github.com/agentboard/agentboard/internal/storage"
	"github.com/agentboard/agentboard/internal/tools"
)

type Server struct {
	workflows  repository.WorkflowRepository
	executions repository.ExecutionRepository
	runner     *services.Runner
	toolReg    *tools.Registry
	editor     *editor.Manager
	storage    storage.Storage
	authn      *auth.Authenticator

	canvasMu sync.Mutex
	canvases map[string]*canvas.Widget
}

func NewServer(workflows repository.WorkflowRepository, executions repository.ExecutionRepository, toolReg *tools.Registry) *Server {
	return &Server{
		workflows:  workflows,
		executions: executions,
		toolReg:    toolReg,
		editor:     editor.NewManager(),
		canvases:   make(map[string]*canvas.Widget),
	}
}

// SetRunner configures background execution.
func (s *Server) SetRunner(runner *services.Runner) {
	s.runner = runner
}

// SetStorage configures the document storage backend.
func (s *Server) SetStorage(store storage.Storage) {
	s.storage = store
}

// SetAuthenticator configures token auth. Without one every request
// runs as the development user.
func (s *Server) SetAuthenticator(a *auth.Authenticator) {
	s.authn = a
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	authn := s.authn
	if authn == nil {
		authn = auth.New("", 0)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/token", s.issueToken)

		r.Group(func(r chi.Router) {
			r.Use(authn.Middleware)

			r.Route("/agentic", func(r chi.Router) {
				r.Route("/workflows", func(r chi.Router) {
					r.Post("/", s.createWorkflow)
					r.Get("/", s.listWorkflows)
					r.Get("/{id}", s.getWorkflow)
					r.Put("/{id}", s.updateWorkflow)
					r.Delete("/{id}", s.deleteWorkflow)
					r.Post("/{id}/run", s.runWorkflow)
				})
				r.Route("/executions", func(r chi.Router) {
					r.Get("/", s.listExecutions)
					r.Get("/{id}", s.getExecution)
					r.Post("/{id}/cancel", s.cancelExecution)
					r.Get("/{id}/logs", s.getExecutionLogs)
					r.Get("/{id}/outputs", s.getExecutionOutputs)
					r.Get("/{id}/performance", s.getExecutionPerformance)
					r.Get("/{id}/charts", s.getExecutionCharts)
					r.Get("/{id}/graph", s.getExecutionGraph)
				})
				r.Get("/tools", s.listTools)
				r.Post("/tools/test", s.testTool)
				r.Get("/templates", s.listTemplates)
				r.Get("/templates/{id}", s.getTemplate)
				r.Post("/validate", s.validateConfig)
			})

			r.Route("/editor/sessions", func(r chi.Router) {
				r.Post("/", s.createSession)
				r.Get("/{id}", s.getSession)
				r.Delete("/{id}", s.closeSession)
				r.Post("/{id}/actions", s.dispatchAction)
				r.Get("/{id}/export", s.exportSession)
				r.Post("/{id}/import", s.importSession)
				r.Post("/{id}/run", s.runSession)
				r.Route("/{id}/canvas", func(r chi.Router) {
					r.Get("/", s.getCanvasFrame)
					r.Get("/svg", s.renderCanvasSVG)
					r.Post("/pointer", s.canvasPointer)
					r.Post("/zoom", s.canvasZoom)
					r.Put("/layout", s.canvasLayout)
				})
			})

			r.Route("/documents", func(r chi.Router) {
				r.Post("/upload", s.uploadDocument)
				r.Get("/", s.listDocuments)
				r.Get("/{id}", s.serveDocument)
				r.Get("/{id}/chunks", s.documentChunks)
				r.Delete("/{id}", s.deleteDocument)
			})
		})
	})

	// Serve static files (frontend)
	r.Handle("/*", StaticHandler("web/dist"))

	return r
}

func (s *Server) issueToken(w http.ResponseWriter, r *http.Request) {
	if s.authn == nil || !s.authn.Enabled() {
		// Development mode: hand back a placeholder identity.
		writeJSON(w, http.StatusOK, auth.Token{AccessToken: auth.DevUser, TokenType: "bearer"})
		return
	}

	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		http.Error(w, "username is required", http.StatusBadRequest)
		return
	}
	tok, err := s.authn.Issue(req.Username)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tok)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response failed", "err", err)
	}
}
