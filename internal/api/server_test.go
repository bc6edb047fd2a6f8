package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/agentboard/agentboard/internal/auth"
	"github.com/agentboard/agentboard/internal/execution"
	"github.com/agentboard/agentboard/internal/repository"
	"github.com/agentboard/agentboard/internal/services"
	"github.com/agentboard/agentboard/internal/storage"
	"github.com/agentboard/agentboard/internal/tools"
	"github.com/agentboard/agentboard/internal/workflow"
)

func newTestServer(t *testing.T) (*Server, *services.Runner, http.Handler) {
	t.Helper()

	wfRepo := repository.NewWorkflowMemory()
	execRepo := repository.NewExecutionMemory()
	reg := tools.NewRegistry()

	srv := NewServer(wfRepo, execRepo, reg)
	runner := services.NewRunner(wfRepo, execRepo, 2)
	srv.SetRunner(runner)
	return srv, runner, srv.Handler()
}

func validConfig() *workflow.Config {
	cfg := workflow.NewConfig()
	cfg.Teams = []workflow.Team{{
		ID:   "research",
		Name: "Research",
		Supervisor: workflow.Agent{
			Name: "lead", Role: "supervisor", ModelProvider: "openai", ModelName: "gpt-4",
		},
		Workers: []workflow.Agent{
			{Name: "analyst", Role: "worker", ModelProvider: "openai", ModelName: "gpt-4"},
		},
	}}
	cfg.Settings.MaxIterations = 1
	return cfg
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestWorkflowCRUD(t *testing.T) {
	_, _, h := newTestServer(t)

	// Create.
	w := doJSON(t, h, http.MethodPost, "/api/agentic/workflows/", map[string]any{
		"name":        "market research",
		"description": "two-agent research team",
		"config":      validConfig(),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created workflow.Workflow
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" {
		t.Fatal("created workflow has no ID")
	}

	// Get.
	w = doJSON(t, h, http.MethodGet, "/api/agentic/workflows/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}

	// Update name only.
	w = doJSON(t, h, http.MethodPut, "/api/agentic/workflows/"+created.ID, map[string]any{
		"name": "renamed",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated workflow.Workflow
	json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Name != "renamed" {
		t.Errorf("update: name = %q", updated.Name)
	}
	if len(updated.Config.Teams) != 1 {
		t.Errorf("update: config must be preserved, teams = %d", len(updated.Config.Teams))
	}

	// List.
	w = doJSON(t, h, http.MethodGet, "/api/agentic/workflows/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	var all []workflow.Workflow
	json.Unmarshal(w.Body.Bytes(), &all)
	if len(all) != 1 {
		t.Errorf("list: got %d workflows", len(all))
	}

	// Delete.
	w = doJSON(t, h, http.MethodDelete, "/api/agentic/workflows/"+created.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
	w = doJSON(t, h, http.MethodGet, "/api/agentic/workflows/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", w.Code)
	}
}

func TestCreateWorkflowRejectsInvalid(t *testing.T) {
	_, _, h := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/api/agentic/workflows/", map[string]any{
		"config": validConfig(),
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing name: expected 400, got %d", w.Code)
	}

	bad := validConfig()
	bad.Teams[0].Supervisor.Name = ""
	w = doJSON(t, h, http.MethodPost, "/api/agentic/workflows/", map[string]any{
		"name":   "broken",
		"config": bad,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid config: expected 400, got %d", w.Code)
	}
}

func TestRunWorkflowAndInspectExecution(t *testing.T) {
	_, runner, h := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/api/agentic/workflows/", map[string]any{
		"name":   "runnable",
		"config": validConfig(),
	})
	var created workflow.Workflow
	json.Unmarshal(w.Body.Bytes(), &created)

	w = doJSON(t, h, http.MethodPost, "/api/agentic/workflows/"+created.ID+"/run", map[string]any{
		"input_data": map[string]any{"input": "analyze"},
	})
	if w.Code != http.StatusAccepted {
		t.Fatalf("run: expected 202, got %d: %s", w.Code, w.Body.String())
	}
	var rec execution.Record
	json.Unmarshal(w.Body.Bytes(), &rec)
	if rec.Status != execution.StatusPending {
		t.Errorf("run: status = %q", rec.Status)
	}

	runner.Wait()

	w = doJSON(t, h, http.MethodGet, "/api/agentic/executions/"+rec.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get execution: expected 200, got %d", w.Code)
	}
	var final execution.Record
	json.Unmarshal(w.Body.Bytes(), &final)
	if final.Status != execution.StatusCompleted {
		t.Fatalf("execution status = %q, error = %q", final.Status, final.Error)
	}

	// Grouped outputs with the default (current) iteration.
	w = doJSON(t, h, http.MethodGet, "/api/agentic/executions/"+rec.ID+"/outputs", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("outputs: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var outputs struct {
		Teams      []execution.TeamView `json:"teams"`
		Iterations []int                `json:"iterations"`
	}
	json.Unmarshal(w.Body.Bytes(), &outputs)
	if len(outputs.Teams) != 1 {
		t.Errorf("outputs: got %d teams", len(outputs.Teams))
	}
	if len(outputs.Iterations) != 1 {
		t.Errorf("outputs: got iterations %v", outputs.Iterations)
	}

	// Performance buckets and charts.
	w = doJSON(t, h, http.MethodGet, "/api/agentic/executions/"+rec.ID+"/performance", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("performance: expected 200, got %d", w.Code)
	}
	w = doJSON(t, h, http.MethodGet, "/api/agentic/executions/"+rec.ID+"/charts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("charts: expected 200, got %d", w.Code)
	}
	var charts map[string]execution.Chart
	json.Unmarshal(w.Body.Bytes(), &charts)
	if _, ok := charts["performance"]; !ok {
		t.Error("charts: missing performance chart")
	}

	// Delegation graph.
	w = doJSON(t, h, http.MethodGet, "/api/agentic/executions/"+rec.ID+"/graph", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("graph: expected 200, got %d", w.Code)
	}
	var graph struct {
		Order []string            `json:"order"`
		Graph map[string][]string `json:"graph"`
	}
	json.Unmarshal(w.Body.Bytes(), &graph)
	if len(graph.Order) == 0 {
		t.Error("graph: empty node order")
	}

	// Logs.
	w = doJSON(t, h, http.MethodGet, "/api/agentic/executions/"+rec.ID+"/logs", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logs: expected 200, got %d", w.Code)
	}
	var logs []execution.LogEntry
	json.Unmarshal(w.Body.Bytes(), &logs)
	if len(logs) == 0 {
		t.Error("logs: expected at least the queued entry")
	}

	// Cancel after completion is a conflict.
	w = doJSON(t, h, http.MethodPost, "/api/agentic/executions/"+rec.ID+"/cancel", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("cancel finished: expected 409, got %d", w.Code)
	}
}

func TestExecutionOutputsBeforeResult(t *testing.T) {
	srv, _, h := newTestServer(t)

	srv.executions.Create(context.Background(), &execution.Record{ID: "pending", Status: execution.StatusPending})
	w := doJSON(t, h, http.MethodGet, "/api/agentic/executions/pending/outputs", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for execution without result, got %d", w.Code)
	}
}

func TestListTools(t *testing.T) {
	srv, _, h := newTestServer(t)

	def := workflow.Tool{
		Name:         "echo",
		FunctionName: "echo",
		Description:  "echoes parameters",
		Parameters: map[string]workflow.ParameterSpec{
			"message": {Type: workflow.TypeString, Description: "message", Required: true},
		},
	}
	err := srv.toolReg.Register(def, func(_ context.Context, params map[string]any) (any, error) {
		return params, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, h, http.MethodGet, "/api/agentic/tools", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list tools: expected 200, got %d", w.Code)
	}
	var defs []workflow.Tool
	json.Unmarshal(w.Body.Bytes(), &defs)
	if len(defs) != 1 || defs[0].Name != "echo" {
		t.Errorf("definitions = %+v", defs)
	}
}

func TestListToolsForAgent(t *testing.T) {
	srv, _, h := newTestServer(t)

	echo := func(_ context.Context, params map[string]any) (any, error) { return params, nil }
	srv.toolReg.Register(workflow.Tool{
		Name:         "web_search",
		FunctionName: "web_search",
		Description:  "search",
		Parameters: map[string]workflow.ParameterSpec{
			"query": {Type: workflow.TypeString, Description: "query", Required: true},
		},
	}, echo)
	srv.toolReg.Register(workflow.Tool{
		Name:                  "delegate",
		FunctionName:          "delegate",
		Description:           "delegates work",
		AvailabilityCondition: `role == "supervisor"`,
		Parameters: map[string]workflow.ParameterSpec{
			"task": {Type: workflow.TypeString, Description: "task", Required: true},
		},
	}, echo)

	// A supervisor sees both tools.
	w := doJSON(t, h, http.MethodGet, "/api/agentic/tools?agent=lead&role=supervisor", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var defs []workflow.Tool
	json.Unmarshal(w.Body.Bytes(), &defs)
	if len(defs) != 2 {
		t.Fatalf("supervisor tools = %+v, want 2", defs)
	}

	// A worker fails the availability condition on delegate.
	w = doJSON(t, h, http.MethodGet, "/api/agentic/tools?agent=analyst&role=worker", nil)
	json.Unmarshal(w.Body.Bytes(), &defs)
	if len(defs) != 1 || defs[0].Name != "web_search" {
		t.Fatalf("worker tools = %+v, want only web_search", defs)
	}

	// The tools parameter restricts the candidate set.
	w = doJSON(t, h, http.MethodGet, "/api/agentic/tools?agent=lead&role=supervisor&tools=delegate", nil)
	json.Unmarshal(w.Body.Bytes(), &defs)
	if len(defs) != 1 || defs[0].Name != "delegate" {
		t.Fatalf("restricted tools = %+v, want only delegate", defs)
	}
}

func TestCreateWorkflowRegistersConfiguredTools(t *testing.T) {
	_, _, h := newTestServer(t)

	cfg := validConfig()
	cfg.Tools = []workflow.Tool{{
		Name:         "lookup",
		FunctionName: "lookup",
		Description:  "looks things up",
		Parameters: map[string]workflow.ParameterSpec{
			"term": {Type: workflow.TypeString, Description: "term", Required: true},
		},
	}}
	w := doJSON(t, h, http.MethodPost, "/api/agentic/workflows/", map[string]any{
		"name":   "with tools",
		"config": cfg,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// The saved workflow's tool is immediately invokable.
	w = doJSON(t, h, http.MethodPost, "/api/agentic/tools/test", map[string]any{
		"tool_name":  "lookup",
		"parameters": map[string]any{"term": "golang"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("tool test: expected 200, got %d", w.Code)
	}
	var inv tools.Invocation
	json.Unmarshal(w.Body.Bytes(), &inv)
	if !inv.Success {
		t.Fatalf("tool test failed: %s", inv.Error)
	}
}

func TestToolTestEndpoint(t *testing.T) {
	wfRepo := repository.NewWorkflowMemory()
	execRepo := repository.NewExecutionMemory()
	reg := tools.NewRegistry()
	cfg := workflow.NewConfig()
	cfg.Tools = []workflow.Tool{{
		Name:         "summarize",
		FunctionName: "summarize",
		Description:  "summarizes text",
		Parameters: map[string]workflow.ParameterSpec{
			"text":      {Type: workflow.TypeString, Description: "text", Required: true},
			"sentences": {Type: workflow.TypeInteger, Description: "count", Default: 3},
		},
	}}
	if err := reg.RegisterConfigured(cfg); err != nil {
		t.Fatal(err)
	}
	srv := NewServer(wfRepo, execRepo, reg)
	h := srv.Handler()

	w := doJSON(t, h, http.MethodPost, "/api/agentic/tools/test", map[string]any{
		"tool_name":  "summarize",
		"parameters": map[string]any{"text": "a long document"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("tool test: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var inv tools.Invocation
	json.Unmarshal(w.Body.Bytes(), &inv)
	if !inv.Success {
		t.Fatalf("tool test failed: %s", inv.Error)
	}

	// Missing required parameter comes back as an unsuccessful
	// invocation, not an HTTP error.
	w = doJSON(t, h, http.MethodPost, "/api/agentic/tools/test", map[string]any{
		"tool_name":  "summarize",
		"parameters": map[string]any{},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("tool test: expected 200, got %d", w.Code)
	}
	json.Unmarshal(w.Body.Bytes(), &inv)
	if inv.Success {
		t.Error("missing parameter should fail the invocation")
	}
	if !strings.Contains(inv.Error, "missing required parameter") {
		t.Errorf("error = %q", inv.Error)
	}
}

func TestTemplateEndpoints(t *testing.T) {
	_, _, h := newTestServer(t)

	w := doJSON(t, h, http.MethodGet, "/api/agentic/templates", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list templates: expected 200, got %d", w.Code)
	}
	var tpls []workflow.Template
	json.Unmarshal(w.Body.Bytes(), &tpls)
	if len(tpls) == 0 {
		t.Fatal("expected a non-empty template catalog")
	}

	w = doJSON(t, h, http.MethodGet, "/api/agentic/templates/writing_assistant", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get template: expected 200, got %d", w.Code)
	}
	var tpl workflow.Template
	json.Unmarshal(w.Body.Bytes(), &tpl)
	if tpl.ID != "writing_assistant" || len(tpl.Config.PeerAgents) != 4 {
		t.Errorf("template = %+v", tpl)
	}

	// A template config must be creatable as-is.
	w = doJSON(t, h, http.MethodPost, "/api/agentic/workflows/", map[string]any{
		"name":   tpl.Name,
		"config": tpl.Config,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create from template: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, h, http.MethodGet, "/api/agentic/templates/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown template: expected 404, got %d", w.Code)
	}
}

func TestValidateEndpoint(t *testing.T) {
	_, _, h := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/api/agentic/validate", map[string]any{
		"config": validConfig(),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("validate: expected 200, got %d", w.Code)
	}
	var resp struct {
		Valid        bool   `json:"valid"`
		Message      string `json:"message"`
		WorkflowType string `json:"workflow_type"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Valid {
		t.Errorf("valid config rejected: %s", resp.Message)
	}
	if resp.WorkflowType != "sequential" {
		t.Errorf("workflow_type = %q", resp.WorkflowType)
	}

	bad := validConfig()
	bad.Teams[0].Supervisor.Name = ""
	w = doJSON(t, h, http.MethodPost, "/api/agentic/validate", map[string]any{"config": bad})
	if w.Code != http.StatusOK {
		t.Fatalf("validate: expected 200, got %d", w.Code)
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Valid {
		t.Error("invalid config accepted")
	}
}

func TestEditorSessionLifecycle(t *testing.T) {
	_, _, h := newTestServer(t)

	// Create a session.
	w := doJSON(t, h, http.MethodPost, "/api/editor/sessions/", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create session: expected 201, got %d", w.Code)
	}
	var sess struct {
		ID     string          `json:"id"`
		Config workflow.Config `json:"config"`
	}
	json.Unmarshal(w.Body.Bytes(), &sess)
	if sess.ID == "" {
		t.Fatal("session has no ID")
	}

	// Add a team.
	w = doJSON(t, h, http.MethodPost, "/api/editor/sessions/"+sess.ID+"/actions", map[string]any{
		"type": "add_team",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("add_team: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	json.Unmarshal(w.Body.Bytes(), &sess)
	if len(sess.Config.Teams) != 1 {
		t.Fatalf("teams = %d", len(sess.Config.Teams))
	}

	// Invalid action is rejected with 422 and leaves state unchanged.
	w = doJSON(t, h, http.MethodPost, "/api/editor/sessions/"+sess.ID+"/actions", map[string]any{
		"type": "delete_team",
		"team": 7,
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad delete: expected 422, got %d", w.Code)
	}
	w = doJSON(t, h, http.MethodGet, "/api/editor/sessions/"+sess.ID, nil)
	json.Unmarshal(w.Body.Bytes(), &sess)
	if len(sess.Config.Teams) != 1 {
		t.Fatalf("failed action must not mutate: teams = %d", len(sess.Config.Teams))
	}

	// Export then import into a fresh session round-trips the config.
	w = doJSON(t, h, http.MethodGet, "/api/editor/sessions/"+sess.ID+"/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export: expected 200, got %d", w.Code)
	}
	exported := w.Body.Bytes()

	w = doJSON(t, h, http.MethodPost, "/api/editor/sessions/", nil)
	var fresh struct {
		ID string `json:"id"`
	}
	json.Unmarshal(w.Body.Bytes(), &fresh)

	req := httptest.NewRequest(http.MethodPost, "/api/editor/sessions/"+fresh.ID+"/import", bytes.NewReader(exported))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("import: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var imported struct {
		Config workflow.Config `json:"config"`
	}
	json.Unmarshal(rec.Body.Bytes(), &imported)
	if len(imported.Config.Teams) != 1 {
		t.Fatalf("imported teams = %d", len(imported.Config.Teams))
	}

	// Close.
	w = doJSON(t, h, http.MethodDelete, "/api/editor/sessions/"+sess.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("close: expected 204, got %d", w.Code)
	}
	w = doJSON(t, h, http.MethodGet, "/api/editor/sessions/"+sess.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get closed session: expected 404, got %d", w.Code)
	}
}

func TestCanvasEndpoints(t *testing.T) {
	_, _, h := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/api/editor/sessions/", nil)
	var sess struct {
		ID string `json:"id"`
	}
	json.Unmarshal(w.Body.Bytes(), &sess)

	// Populate the graph: one team, one worker.
	doJSON(t, h, http.MethodPost, "/api/editor/sessions/"+sess.ID+"/actions", map[string]any{"type": "add_team"})
	w = doJSON(t, h, http.MethodPost, "/api/editor/sessions/"+sess.ID+"/actions", map[string]any{"type": "add_worker", "team": 0})
	if w.Code != http.StatusOK {
		t.Fatalf("add_worker: got %d: %s", w.Code, w.Body.String())
	}

	// Frame reflects two nodes and one edge.
	w = doJSON(t, h, http.MethodGet, "/api/editor/sessions/"+sess.ID+"/canvas/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("frame: expected 200, got %d", w.Code)
	}
	var frame struct {
		Positions map[string]struct{ X, Y float64 } `json:"positions"`
		Edges     []struct{ From, To string }       `json:"edges"`
		Zoom      float64                           `json:"zoom"`
	}
	json.Unmarshal(w.Body.Bytes(), &frame)
	if len(frame.Positions) != 2 {
		t.Errorf("positions = %d", len(frame.Positions))
	}
	if len(frame.Edges) != 1 {
		t.Errorf("edges = %d", len(frame.Edges))
	}

	// Zoom clamps at the maximum.
	var zoomResp struct {
		Zoom float64 `json:"zoom"`
	}
	for i := 0; i < 20; i++ {
		w = doJSON(t, h, http.MethodPost, "/api/editor/sessions/"+sess.ID+"/canvas/zoom", map[string]any{"op": "in"})
	}
	json.Unmarshal(w.Body.Bytes(), &zoomResp)
	if zoomResp.Zoom != 3.0 {
		t.Errorf("zoom = %v, want clamp at 3.0", zoomResp.Zoom)
	}
	w = doJSON(t, h, http.MethodPost, "/api/editor/sessions/"+sess.ID+"/canvas/zoom", map[string]any{"op": "reset"})
	json.Unmarshal(w.Body.Bytes(), &zoomResp)
	if zoomResp.Zoom != 1.0 {
		t.Errorf("zoom after reset = %v", zoomResp.Zoom)
	}

	// Pointer down on a node selects it.
	var nodeX, nodeY float64
	for _, p := range frame.Positions {
		nodeX, nodeY = p.X, p.Y
		break
	}
	w = doJSON(t, h, http.MethodPost, "/api/editor/sessions/"+sess.ID+"/canvas/pointer", map[string]any{
		"type": "down", "x": nodeX, "y": nodeY,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("pointer: expected 200, got %d", w.Code)
	}
	var ptr struct {
		Selection struct {
			Kind string `json:"kind"`
			Node string `json:"node"`
		} `json:"selection"`
		Dragging bool `json:"dragging"`
	}
	json.Unmarshal(w.Body.Bytes(), &ptr)
	if ptr.Selection.Kind != "node" || !ptr.Dragging {
		t.Errorf("pointer down on node: selection = %+v dragging = %v", ptr.Selection, ptr.Dragging)
	}

	// Switch layout.
	w = doJSON(t, h, http.MethodPut, "/api/editor/sessions/"+sess.ID+"/canvas/layout", map[string]any{"mode": "hierarchical"})
	if w.Code != http.StatusOK {
		t.Fatalf("layout: expected 200, got %d", w.Code)
	}
	w = doJSON(t, h, http.MethodPut, "/api/editor/sessions/"+sess.ID+"/canvas/layout", map[string]any{"mode": "spiral"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad layout: expected 400, got %d", w.Code)
	}

	// SVG render.
	w = doJSON(t, h, http.MethodGet, "/api/editor/sessions/"+sess.ID+"/canvas/svg", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("svg: expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("svg content type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "<svg") {
		t.Error("svg body missing <svg element")
	}
}

func TestDocumentUpload(t *testing.T) {
	srv, _, _ := newTestServer(t)
	store, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv.SetStorage(store)
	h := srv.Handler()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprint(part, "meeting notes body")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Message  string           `json:"message"`
		Document storage.FileInfo `json:"document"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !strings.Contains(resp.Message, "uploaded successfully") {
		t.Errorf("message = %q", resp.Message)
	}

	// List shows the uploaded document.
	w2 := doJSON(t, h, http.MethodGet, "/api/documents/", nil)
	if w2.Code != http.StatusOK {
		t.Fatalf("list documents: expected 200, got %d", w2.Code)
	}
	var files []storage.FileInfo
	json.Unmarshal(w2.Body.Bytes(), &files)
	if len(files) != 1 {
		t.Fatalf("files = %d", len(files))
	}
}

func TestDocumentChunks(t *testing.T) {
	srv, _, _ := newTestServer(t)
	store, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv.SetStorage(store)
	h := srv.Handler()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="report.txt"`)
	hdr.Set("Content-Type", "text/plain")
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprint(part, strings.Repeat("the quick brown fox jumps over the lazy dog ", 60))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		Document storage.FileInfo `json:"document"`
	}
	json.Unmarshal(w.Body.Bytes(), &created)

	w2 := doJSON(t, h, http.MethodGet, "/api/documents/"+created.Document.ID+"/chunks", nil)
	if w2.Code != http.StatusOK {
		t.Fatalf("chunks: expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	var resp struct {
		DocumentID string   `json:"document_id"`
		Chunks     []string `json:"chunks"`
		Count      int      `json:"count"`
	}
	json.Unmarshal(w2.Body.Bytes(), &resp)
	if resp.DocumentID != created.Document.ID {
		t.Errorf("document_id = %q", resp.DocumentID)
	}
	if resp.Count < 2 || resp.Count != len(resp.Chunks) {
		t.Fatalf("count = %d, chunks = %d", resp.Count, len(resp.Chunks))
	}
	// Consecutive chunks share an overlapping tail.
	head := []rune(resp.Chunks[1])[:200]
	tail := []rune(resp.Chunks[0])
	if string(head) != string(tail[len(tail)-200:]) {
		t.Error("chunks do not overlap by 200 runes")
	}

	w2 = doJSON(t, h, http.MethodGet, "/api/documents/missing/chunks", nil)
	if w2.Code != http.StatusNotFound {
		t.Fatalf("missing document: expected 404, got %d", w2.Code)
	}
}

func TestDocumentEndpointsWithoutStorage(t *testing.T) {
	_, _, h := newTestServer(t)
	w := doJSON(t, h, http.MethodGet, "/api/documents/", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without storage, got %d", w.Code)
	}
}

func TestAuthTokenAndProtection(t *testing.T) {
	wfRepo := repository.NewWorkflowMemory()
	execRepo := repository.NewExecutionMemory()
	srv := NewServer(wfRepo, execRepo, tools.NewRegistry())
	srv.SetAuthenticator(auth.New("test-secret", 0))
	h := srv.Handler()

	// Protected route without a token.
	w := doJSON(t, h, http.MethodGet, "/api/agentic/workflows/", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	// Issue a token.
	w = doJSON(t, h, http.MethodPost, "/api/auth/token", map[string]any{"username": "alice"})
	if w.Code != http.StatusOK {
		t.Fatalf("token: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var tok auth.Token
	json.Unmarshal(w.Body.Bytes(), &tok)
	if tok.AccessToken == "" {
		t.Fatal("empty access token")
	}

	// Protected route with the token.
	req := httptest.NewRequest(http.MethodGet, "/api/agentic/workflows/", nil)
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("with token: expected 200, got %d", rec.Code)
	}
}

func TestRunSessionDraft(t *testing.T) {
	_, runner, h := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/api/editor/sessions/", nil)
	var sess struct {
		ID string `json:"id"`
	}
	json.Unmarshal(w.Body.Bytes(), &sess)

	// Empty draft fails validation.
	w = doJSON(t, h, http.MethodPost, "/api/editor/sessions/"+sess.ID+"/run", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("run empty draft: expected 422, got %d", w.Code)
	}

	doJSON(t, h, http.MethodPost, "/api/editor/sessions/"+sess.ID+"/actions", map[string]any{"type": "add_team"})
	doJSON(t, h, http.MethodPost, "/api/editor/sessions/"+sess.ID+"/actions", map[string]any{"type": "add_worker", "team": 0})

	w = doJSON(t, h, http.MethodPost, "/api/editor/sessions/"+sess.ID+"/run", nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("run draft: expected 202, got %d: %s", w.Code, w.Body.String())
	}
	var rec execution.Record
	json.Unmarshal(w.Body.Bytes(), &rec)

	runner.Wait()

	w = doJSON(t, h, http.MethodGet, "/api/agentic/executions/"+rec.ID, nil)
	var final execution.Record
	json.Unmarshal(w.Body.Bytes(), &final)
	if final.Status != execution.StatusCompleted {
		t.Fatalf("draft execution status = %q, error = %q", final.Status, final.Error)
	}
}
