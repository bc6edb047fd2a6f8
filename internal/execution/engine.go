package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/agentboard/agentboard/internal/workflow"
)

// Engine produces execution results for a workflow configuration. The
// real model calls live behind an external boundary; this engine walks
// the configured delegation structure deterministically, which is what
// the dashboard needs to exercise every visualization path.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// Run executes the configuration against the input and assembles a
// complete Result: outputs keyed team:<id> / agent:<name>, per-iteration
// history, usage records, and the observed delegation graph.
func (e *Engine) Run(ctx context.Context, cfg *workflow.Config, input map[string]any) (*Result, error) {
	start := time.Now()
	if err := workflow.Validate(cfg); err != nil {
		return &Result{
			Success:       false,
			Error:         err.Error(),
			ExecutionTime: time.Since(start).Seconds(),
		}, err
	}

	query, _ := input["query"].(string)
	iterations := cfg.Settings.MaxIterations
	if iterations <= 0 {
		iterations = 1
	}

	res := &Result{
		Success:        true,
		Outputs:        map[string]OutputEntry{},
		ExecutionGraph: map[string][]string{},
		Messages:       []Message{{Role: "user", Content: query}},
	}

	for it := 0; it < iterations; it++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for ti := range cfg.Teams {
			e.runTeam(res, &cfg.Teams[ti], query, it)
		}
		for pi := range cfg.PeerAgents {
			e.runPeer(res, &cfg.PeerAgents[pi], query, it)
		}
	}

	e.applyCoordination(res, cfg)
	res.FinalOutput = e.finalOutput(res, cfg, query)
	if res.FinalOutput != "" {
		res.Messages = append(res.Messages, Message{Role: "assistant", Content: res.FinalOutput})
	}
	res.ExecutionTime = time.Since(start).Seconds()
	return res, nil
}

func (e *Engine) runTeam(res *Result, team *workflow.Team, query string, it int) {
	key := "team:" + team.ID
	entry := res.Outputs[key]
	entry.TeamID = team.ID
	entry.TeamName = team.Name

	workerOutputs := make(map[string]string, len(team.Workers))
	for wi := range team.Workers {
		w := &team.Workers[wi]
		out := agentOutput(w.Name, query, it)
		workerOutputs[w.Name] = out

		addEdge(res.ExecutionGraph, team.Supervisor.Name, w.Name)
		addEdge(res.ExecutionGraph, w.Name, team.Supervisor.Name)
		res.AgentUsage = append(res.AgentUsage, usage(*w, team.Name, it, out))
	}

	supOut := fmt.Sprintf("[%s] synthesis of %d worker results for %q (iteration %d)",
		team.Supervisor.Name, len(team.Workers), query, it+1)
	res.AgentUsage = append(res.AgentUsage, usage(team.Supervisor, team.Name, it, supOut))

	entry.History = append(entry.History, IterationRecord{
		Iteration:        it,
		SupervisorOutput: supOut,
		WorkerOutputs:    workerOutputs,
	})
	entry.SupervisorOutput = supOut
	entry.WorkerOutputs = workerOutputs
	res.Outputs[key] = entry
}

func (e *Engine) runPeer(res *Result, agent *workflow.Agent, query string, it int) {
	key := "agent:" + agent.Name
	entry := res.Outputs[key]

	out := agentOutput(agent.Name, query, it)
	entry.History = append(entry.History, IterationRecord{Iteration: it, Output: out})
	entry.Output = out
	res.Outputs[key] = entry

	res.AgentUsage = append(res.AgentUsage, usage(*agent, "", it, out))
}

// applyCoordination adds the coordination-level delegation edges on top
// of the intra-team ones.
func (e *Engine) applyCoordination(res *Result, cfg *workflow.Config) {
	supervisors := make([]string, 0, len(cfg.Teams))
	for i := range cfg.Teams {
		supervisors = append(supervisors, cfg.Teams[i].Supervisor.Name)
	}
	peers := make([]string, 0, len(cfg.PeerAgents))
	for i := range cfg.PeerAgents {
		peers = append(peers, cfg.PeerAgents[i].Name)
	}

	switch cfg.Coordination.Type {
	case "hub":
		hub := cfg.Coordination.Coordinator
		if hub == "" && len(peers) > 0 {
			hub = peers[0]
		}
		if hub == "" {
			return
		}
		for _, s := range supervisors {
			addEdge(res.ExecutionGraph, hub, s)
		}
		for _, p := range peers {
			if p != hub {
				addEdge(res.ExecutionGraph, hub, p)
			}
		}
	default: // sequential and the rest chain teams then peers in order
		chain := append(append([]string{}, supervisors...), peers...)
		for i := 0; i+1 < len(chain); i++ {
			addEdge(res.ExecutionGraph, chain[i], chain[i+1])
		}
	}

	if fa := cfg.Coordination.FinalAgent; fa != "" {
		for _, s := range supervisors {
			if s != fa {
				addEdge(res.ExecutionGraph, s, fa)
			}
		}
	}
}

func (e *Engine) finalOutput(res *Result, cfg *workflow.Config, query string) string {
	if fa := cfg.Coordination.FinalAgent; fa != "" {
		if entry, ok := res.Outputs["agent:"+fa]; ok {
			return entry.Output
		}
	}
	// Fall back to the last team's supervisor synthesis, then the last
	// peer output.
	if n := len(cfg.Teams); n > 0 {
		return res.Outputs["team:"+cfg.Teams[n-1].ID].SupervisorOutput
	}
	if n := len(cfg.PeerAgents); n > 0 {
		return res.Outputs["agent:"+cfg.PeerAgents[n-1].Name].Output
	}
	return fmt.Sprintf("No agents produced output for %q", query)
}

func agentOutput(name, query string, it int) string {
	return fmt.Sprintf("[%s] processed %q (iteration %d)", name, query, it+1)
}

func usage(a workflow.Agent, team string, it int, out string) UsageRecord {
	model := "unknown"
	if a.ModelProvider != "" && a.ModelName != "" {
		model = a.ModelProvider + "/" + a.ModelName
	}
	return UsageRecord{
		Agent:             a.Name,
		Role:              a.Role,
		Team:              team,
		Iteration:         it + 1,
		Model:             model,
		MessagesProcessed: 1,
		ToolsUsed:         append([]string{}, a.Tools...),
		OutputLength:      len(out),
	}
}

// addEdge appends to the adjacency list, skipping duplicates.
func addEdge(graph map[string][]string, from, to string) {
	for _, t := range graph[from] {
		if t == to {
			return
		}
	}
	graph[from] = append(graph[from], to)
}
