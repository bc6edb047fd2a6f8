package editor

import (
	"fmt"
	"time"

	"github.com/agentboard/agentboard/internal/workflow"
)

// Session is one user's editing context: the configuration being built
// and the current selection. It exists from mount (NewSession) until
// teardown (Manager.Close); nothing about it is global.
type Session struct {
	ID        string           `json:"id"`
	Config    *workflow.Config `json:"config"`
	Selection Selection        `json:"selection"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewSession creates an editing session seeded with an empty
// configuration.
func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:        workflow.GenerateID("sess"),
		Config:    workflow.NewConfig(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply executes one action against the session. The mutation is staged
// on a copy of the configuration and committed only if it succeeds, so a
// failed action leaves both config and selection untouched.
func (s *Session) Apply(a Action) error {
	cfg := workflow.Clone(s.Config)
	sel := s.Selection

	var err error
	switch a.Type {
	case ActionAddTeam:
		sel, err = addTeam(cfg, sel)
	case ActionUpdateTeam:
		err = updateTeam(cfg, a)
	case ActionDeleteTeam:
		sel, err = deleteTeam(cfg, sel, a.Team)
	case ActionAddWorker:
		sel, err = addWorker(cfg, sel, a.Team)
	case ActionDeleteWorker:
		sel, err = deleteWorker(cfg, sel, a.Team, a.Agent.Worker)
	case ActionAddPeerAgent:
		sel, err = addPeerAgent(cfg, sel)
	case ActionDeletePeerAgent:
		sel, err = deletePeerAgent(cfg, sel, a.Agent.Worker)
	case ActionUpdateAgent:
		err = updateAgentField(cfg, a.Agent, a.Field, a.Value)
	case ActionToggleTool:
		err = toggleTool(cfg, a.Agent, a.Tool)
	case ActionSaveTool:
		err = saveTool(cfg, a)
	case ActionDeleteTool:
		sel, err = deleteTool(cfg, sel, a.Tool)
	case ActionAddParameter:
		err = addParameter(cfg, a)
	case ActionDeleteParameter:
		err = deleteParameter(cfg, a.Tool, a.Param)
	case ActionSetCoordination:
		cfg.Coordination, err = decodePayload[workflow.Coordination](a.Payload, "coordination")
	case ActionSetSettings:
		cfg.Settings, err = decodePayload[workflow.Settings](a.Payload, "settings")
	case ActionSelect:
		if err = validateSelection(cfg, a.Target); err == nil {
			sel = a.Target
		}
	case ActionClearSelection:
		sel = Selection{}
	case ActionImportConfig:
		var imported *workflow.Config
		imported, err = workflow.Import(a.Payload)
		if err == nil {
			cfg = imported
			sel = Selection{}
		}
	default:
		err = fmt.Errorf("unknown action type %q", a.Type)
	}
	if err != nil {
		return err
	}

	s.Config = cfg
	s.Selection = sel
	s.UpdatedAt = time.Now()
	return nil
}

// Export serializes the session's configuration for download.
func (s *Session) Export() ([]byte, error) {
	return workflow.Export(s.Config)
}

func addTeam(cfg *workflow.Config, sel Selection) (Selection, error) {
	id := workflow.GenerateID("team")
	n := len(cfg.Teams) + 1
	team := workflow.Team{
		ID:          id,
		Name:        fmt.Sprintf("team_%d", n),
		Description: "New team",
		Supervisor: workflow.Agent{
			Name:           fmt.Sprintf("supervisor_%s", id),
			Role:           "supervisor",
			ModelProvider:  "openai",
			ModelName:      "gpt-4o",
			PromptTemplate: supervisorPromptSeed,
			Temperature:    0.2,
			Tools:          []string{},
		},
		Workers: []workflow.Agent{},
	}
	cfg.Teams = append(cfg.Teams, team)
	// A freshly created entity is immediately selected for editing.
	return Selection{Kind: SelectTeam, Team: len(cfg.Teams) - 1}, nil
}

func updateTeam(cfg *workflow.Config, a Action) error {
	if a.Team < 0 || a.Team >= len(cfg.Teams) {
		return fmt.Errorf("team index %d out of range", a.Team)
	}
	patch, err := decodePayload[struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}](a.Payload, "team")
	if err != nil {
		return err
	}
	if patch.Name != nil {
		cfg.Teams[a.Team].Name = *patch.Name
	}
	if patch.Description != nil {
		cfg.Teams[a.Team].Description = *patch.Description
	}
	return nil
}

func deleteTeam(cfg *workflow.Config, sel Selection, idx int) (Selection, error) {
	if idx < 0 || idx >= len(cfg.Teams) {
		return sel, fmt.Errorf("team index %d out of range", idx)
	}
	cfg.Teams = append(cfg.Teams[:idx], cfg.Teams[idx+1:]...)

	switch {
	case sel.Kind == SelectTeam && sel.Team == idx:
		sel = Selection{}
	case sel.Kind == SelectTeam && sel.Team > idx:
		sel.Team--
	case sel.Kind == SelectAgent && sel.Agent.Slot != SlotPeer && sel.Agent.Team == idx:
		sel = Selection{}
	case sel.Kind == SelectAgent && sel.Agent.Slot != SlotPeer && sel.Agent.Team > idx:
		sel.Agent.Team--
	}
	return sel, nil
}

func addWorker(cfg *workflow.Config, sel Selection, team int) (Selection, error) {
	if team < 0 || team >= len(cfg.Teams) {
		return sel, fmt.Errorf("team index %d out of range", team)
	}
	worker := workflow.Agent{
		Name:           workflow.GenerateID("worker"),
		Role:           "worker",
		ModelProvider:  "openai",
		ModelName:      "gpt-4o-mini",
		PromptTemplate: workerPromptSeed,
		Temperature:    0.7,
		Tools:          []string{},
	}
	cfg.Teams[team].Workers = append(cfg.Teams[team].Workers, worker)
	return Selection{
		Kind:  SelectAgent,
		Agent: AgentRef{Slot: SlotWorker, Team: team, Worker: len(cfg.Teams[team].Workers) - 1},
	}, nil
}

func deleteWorker(cfg *workflow.Config, sel Selection, team, idx int) (Selection, error) {
	if team < 0 || team >= len(cfg.Teams) {
		return sel, fmt.Errorf("team index %d out of range", team)
	}
	workers := cfg.Teams[team].Workers
	if idx < 0 || idx >= len(workers) {
		return sel, fmt.Errorf("worker index %d out of range", idx)
	}
	cfg.Teams[team].Workers = append(workers[:idx], workers[idx+1:]...)

	if sel.Kind == SelectAgent && sel.Agent.Slot == SlotWorker && sel.Agent.Team == team {
		switch {
		case sel.Agent.Worker == idx:
			sel = Selection{}
		case sel.Agent.Worker > idx:
			sel.Agent.Worker--
		}
	}
	return sel, nil
}

func addPeerAgent(cfg *workflow.Config, sel Selection) (Selection, error) {
	peer := workflow.Agent{
		Name:           workflow.GenerateID("agent"),
		Role:           "peer",
		ModelProvider:  "openai",
		ModelName:      "gpt-4o",
		PromptTemplate: peerPromptSeed,
		Temperature:    0.7,
		Tools:          []string{},
	}
	cfg.PeerAgents = append(cfg.PeerAgents, peer)
	return Selection{
		Kind:  SelectAgent,
		Agent: AgentRef{Slot: SlotPeer, Worker: len(cfg.PeerAgents) - 1},
	}, nil
}

func deletePeerAgent(cfg *workflow.Config, sel Selection, idx int) (Selection, error) {
	if idx < 0 || idx >= len(cfg.PeerAgents) {
		return sel, fmt.Errorf("peer agent index %d out of range", idx)
	}
	cfg.PeerAgents = append(cfg.PeerAgents[:idx], cfg.PeerAgents[idx+1:]...)

	if sel.Kind == SelectAgent && sel.Agent.Slot == SlotPeer {
		switch {
		case sel.Agent.Worker == idx:
			sel = Selection{}
		case sel.Agent.Worker > idx:
			sel.Agent.Worker--
		}
	}
	return sel, nil
}

// validateSelection rejects selections that point at entities the
// configuration does not contain, so a stale or hand-crafted target
// cannot leave the session pointing into nothing.
func validateSelection(cfg *workflow.Config, sel Selection) error {
	switch sel.Kind {
	case SelectNone:
		return nil
	case SelectTeam:
		if sel.Team < 0 || sel.Team >= len(cfg.Teams) {
			return fmt.Errorf("team index %d out of range", sel.Team)
		}
		return nil
	case SelectAgent:
		_, err := resolveAgent(cfg, sel.Agent)
		return err
	case SelectTool:
		if _, ok := cfg.FindTool(sel.Tool); !ok {
			return fmt.Errorf("unknown tool %q", sel.Tool)
		}
		return nil
	case SelectEdge:
		names := map[string]bool{}
		for _, a := range cfg.AllAgents() {
			names[a.Name] = true
		}
		if !names[sel.From] {
			return fmt.Errorf("edge references unknown agent %q", sel.From)
		}
		if !names[sel.To] {
			return fmt.Errorf("edge references unknown agent %q", sel.To)
		}
		return nil
	}
	return fmt.Errorf("unknown selection kind %q", sel.Kind)
}

func resolveAgent(cfg *workflow.Config, ref AgentRef) (*workflow.Agent, error) {
	switch ref.Slot {
	case SlotSupervisor:
		if ref.Team < 0 || ref.Team >= len(cfg.Teams) {
			return nil, fmt.Errorf("team index %d out of range", ref.Team)
		}
		return &cfg.Teams[ref.Team].Supervisor, nil
	case SlotWorker:
		if ref.Team < 0 || ref.Team >= len(cfg.Teams) {
			return nil, fmt.Errorf("team index %d out of range", ref.Team)
		}
		if ref.Worker < 0 || ref.Worker >= len(cfg.Teams[ref.Team].Workers) {
			return nil, fmt.Errorf("worker index %d out of range", ref.Worker)
		}
		return &cfg.Teams[ref.Team].Workers[ref.Worker], nil
	case SlotPeer:
		if ref.Worker < 0 || ref.Worker >= len(cfg.PeerAgents) {
			return nil, fmt.Errorf("peer agent index %d out of range", ref.Worker)
		}
		return &cfg.PeerAgents[ref.Worker], nil
	}
	return nil, fmt.Errorf("unknown agent slot %q", ref.Slot)
}

func updateAgentField(cfg *workflow.Config, ref AgentRef, field string, value any) error {
	agent, err := resolveAgent(cfg, ref)
	if err != nil {
		return err
	}
	switch field {
	case "name":
		s, ok := value.(string)
		if !ok || s == "" {
			return fmt.Errorf("agent name must be a non-empty string")
		}
		agent.Name = s
	case "role":
		s, _ := value.(string)
		agent.Role = s
	case "model_provider":
		s, _ := value.(string)
		agent.ModelProvider = s
	case "model_name":
		s, _ := value.(string)
		agent.ModelName = s
	case "prompt_template":
		s, _ := value.(string)
		agent.PromptTemplate = s
	case "system_message":
		s, _ := value.(string)
		agent.SystemMessage = s
	case "temperature":
		v, err := workflow.Coerce(workflow.TypeNumber, value)
		if err != nil {
			return fmt.Errorf("temperature: %w", err)
		}
		if v.Number < 0 || v.Number > 2 {
			return fmt.Errorf("temperature %v out of range [0, 2]", v.Number)
		}
		agent.Temperature = v.Number
	default:
		return fmt.Errorf("unknown agent field %q", field)
	}
	return nil
}

// toggleTool applies a symmetric difference: the tool is added to the
// agent's list if absent and removed if present.
func toggleTool(cfg *workflow.Config, ref AgentRef, tool string) error {
	if tool == "" {
		return fmt.Errorf("tool name is required")
	}
	agent, err := resolveAgent(cfg, ref)
	if err != nil {
		return err
	}
	for i, name := range agent.Tools {
		if name == tool {
			agent.Tools = append(agent.Tools[:i], agent.Tools[i+1:]...)
			return nil
		}
	}
	agent.Tools = append(agent.Tools, tool)
	return nil
}

func saveTool(cfg *workflow.Config, a Action) error {
	tool, err := decodePayload[workflow.Tool](a.Payload, "tool")
	if err != nil {
		return err
	}
	if err := workflow.ValidateTool(tool); err != nil {
		return err
	}
	for i := range cfg.Tools {
		if cfg.Tools[i].Name == tool.Name {
			cfg.Tools[i] = tool
			return nil
		}
	}
	cfg.Tools = append(cfg.Tools, tool)
	return nil
}

func deleteTool(cfg *workflow.Config, sel Selection, name string) (Selection, error) {
	for i := range cfg.Tools {
		if cfg.Tools[i].Name == name {
			cfg.Tools = append(cfg.Tools[:i], cfg.Tools[i+1:]...)
			if sel.Kind == SelectTool && sel.Tool == name {
				sel = Selection{}
			}
			return sel, nil
		}
	}
	return sel, fmt.Errorf("tool %q not found", name)
}

func addParameter(cfg *workflow.Config, a Action) error {
	spec, err := decodePayload[workflow.ParameterSpec](a.Payload, "parameter")
	if err != nil {
		return err
	}
	name := a.Param
	if name == "" {
		name = workflow.GenerateID("param")
	}
	if spec.Type == "" {
		spec.Type = workflow.TypeString
	}
	if err := workflow.ValidateSpec(name, spec); err != nil {
		return err
	}
	for i := range cfg.Tools {
		if cfg.Tools[i].Name != a.Tool {
			continue
		}
		if cfg.Tools[i].Parameters == nil {
			cfg.Tools[i].Parameters = map[string]workflow.ParameterSpec{}
		}
		cfg.Tools[i].Parameters[name] = spec
		return nil
	}
	return fmt.Errorf("tool %q not found", a.Tool)
}

func deleteParameter(cfg *workflow.Config, tool, param string) error {
	for i := range cfg.Tools {
		if cfg.Tools[i].Name != tool {
			continue
		}
		if _, ok := cfg.Tools[i].Parameters[param]; !ok {
			return fmt.Errorf("parameter %q not found on tool %q", param, tool)
		}
		delete(cfg.Tools[i].Parameters, param)
		return nil
	}
	return fmt.Errorf("tool %q not found", tool)
}

const supervisorPromptSeed = `You coordinate a team of worker agents. Review the task, delegate subtasks to the most suitable workers, and synthesize their outputs into a final answer.

Task: {input}
Worker outputs so far:
{worker_outputs}`

const workerPromptSeed = `You are a specialist worker agent. Complete the subtask assigned by your supervisor and report a concise result.

Subtask: {input}`

const peerPromptSeed = `You are an independent agent collaborating with others. Contribute your perspective on the task.

Task: {input}`
