package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agentboard/agentboard/internal/canvas"
	"github.com/agentboard/agentboard/internal/editor"
	"github.com/agentboard/agentboard/internal/workflow"
)

// configGraph flattens a configuration into the node order, adjacency,
// and metadata the canvas widget draws: supervisors point at their
// workers, a hub coordinator points at every supervisor and peer.
func configGraph(cfg *workflow.Config) (order []string, graph map[string][]string, meta map[string]canvas.NodeMeta) {
	graph = map[string][]string{}
	meta = map[string]canvas.NodeMeta{}

	addNode := func(a workflow.Agent, team string) {
		order = append(order, a.Name)
		role := a.Role
		if role == "" {
			role = string(workflow.RoleWorker)
		}
		meta[a.Name] = canvas.NodeMeta{
			Label: a.Name,
			Role:  role,
			Model: a.ModelProvider + "/" + a.ModelName,
			Team:  team,
		}
	}

	for _, t := range cfg.Teams {
		addNode(t.Supervisor, t.Name)
		for _, wk := range t.Workers {
			addNode(wk, t.Name)
			graph[t.Supervisor.Name] = append(graph[t.Supervisor.Name], wk.Name)
		}
	}
	for _, p := range cfg.PeerAgents {
		addNode(p, "")
	}

	if cfg.Coordination.Type == "hub" && cfg.Coordination.Coordinator != "" {
		hub := cfg.Coordination.Coordinator
		for _, t := range cfg.Teams {
			if t.Supervisor.Name != hub {
				graph[hub] = append(graph[hub], t.Supervisor.Name)
			}
		}
		for _, p := range cfg.PeerAgents {
			if p.Name != hub {
				graph[hub] = append(graph[hub], p.Name)
			}
		}
	}
	return order, graph, meta
}

// syncCanvas rebuilds the session's widget graph from its current
// configuration, creating the widget on first use.
func (s *Server) syncCanvas(sess *editor.Session) {
	s.canvasMu.Lock()
	defer s.canvasMu.Unlock()

	wdg, ok := s.canvases[sess.ID]
	if !ok {
		wdg = canvas.NewWidget(canvasWidth, canvasHeight)
		s.canvases[sess.ID] = wdg
	}
	order, graph, meta := configGraph(sess.Config)
	wdg.SetGraph(order, graph, meta)
}

func (s *Server) sessionCanvas(w http.ResponseWriter, r *http.Request) (*canvas.Widget, bool) {
	id := chi.URLParam(r, "id")
	s.canvasMu.Lock()
	wdg, ok := s.canvases[id]
	s.canvasMu.Unlock()
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	return wdg, true
}

func (s *Server) getCanvasFrame(w http.ResponseWriter, r *http.Request) {
	wdg, ok := s.sessionCanvas(w, r)
	if !ok {
		return
	}
	s.canvasMu.Lock()
	frame := wdg.Frame()
	s.canvasMu.Unlock()
	writeJSON(w, http.StatusOK, frame)
}

func (s *Server) renderCanvasSVG(w http.ResponseWriter, r *http.Request) {
	wdg, ok := s.sessionCanvas(w, r)
	if !ok {
		return
	}

	s.canvasMu.Lock()
	svg := canvas.NewSVG()
	canvas.Render(svg, wdg.Frame())
	doc := svg.Document()
	s.canvasMu.Unlock()

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(doc))
}

// canvasPointer dispatches one pointer event to the widget and returns
// the resulting selection and drag state.
func (s *Server) canvasPointer(w http.ResponseWriter, r *http.Request) {
	wdg, ok := s.sessionCanvas(w, r)
	if !ok {
		return
	}

	var ev struct {
		Type string  `json:"type"`
		X    float64 `json:"x"`
		Y    float64 `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.canvasMu.Lock()
	switch ev.Type {
	case "down":
		wdg.PointerDown(ev.X, ev.Y)
	case "move":
		wdg.PointerMove(ev.X, ev.Y)
	case "up":
		wdg.PointerUp()
	case "leave":
		wdg.PointerLeave()
	default:
		s.canvasMu.Unlock()
		http.Error(w, "pointer type must be down, move, up, or leave", http.StatusBadRequest)
		return
	}
	resp := map[string]any{
		"selection": wdg.Selection(),
		"dragging":  wdg.Dragging(),
	}
	s.canvasMu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) canvasZoom(w http.ResponseWriter, r *http.Request) {
	wdg, ok := s.sessionCanvas(w, r)
	if !ok {
		return
	}

	var req struct {
		Op string `json:"op"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.canvasMu.Lock()
	switch req.Op {
	case "in":
		wdg.ZoomIn()
	case "out":
		wdg.ZoomOut()
	case "reset":
		wdg.ZoomReset()
	default:
		s.canvasMu.Unlock()
		http.Error(w, "zoom op must be in, out, or reset", http.StatusBadRequest)
		return
	}
	zoom := wdg.Zoom()
	s.canvasMu.Unlock()

	writeJSON(w, http.StatusOK, map[string]float64{"zoom": zoom})
}

func (s *Server) canvasLayout(w http.ResponseWriter, r *http.Request) {
	wdg, ok := s.sessionCanvas(w, r)
	if !ok {
		return
	}

	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	mode := canvas.LayoutMode(req.Mode)
	if mode != canvas.LayoutCircle && mode != canvas.LayoutHierarchical {
		http.Error(w, "layout mode must be circle or hierarchical", http.StatusBadRequest)
		return
	}

	s.canvasMu.Lock()
	wdg.SetLayout(mode)
	frame := wdg.Frame()
	s.canvasMu.Unlock()

	writeJSON(w, http.StatusOK, frame)
}
