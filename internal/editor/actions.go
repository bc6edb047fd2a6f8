// Package editor implements the dashboard's configuration editing as a
// reducer: a Session holds one workflow configuration plus the current
// selection, and every edit arrives as an enumerable Action applied
// atomically. Invalid actions change nothing.
package editor

import (
	"encoding/json"
	"fmt"
)

// ActionType enumerates every state transition the editor supports.
type ActionType string

const (
	ActionAddTeam         ActionType = "add_team"
	ActionUpdateTeam      ActionType = "update_team"
	ActionDeleteTeam      ActionType = "delete_team"
	ActionAddWorker       ActionType = "add_worker"
	ActionDeleteWorker    ActionType = "delete_worker"
	ActionAddPeerAgent    ActionType = "add_peer_agent"
	ActionDeletePeerAgent ActionType = "delete_peer_agent"
	ActionUpdateAgent     ActionType = "update_agent_field"
	ActionToggleTool      ActionType = "toggle_tool"
	ActionSaveTool        ActionType = "save_tool"
	ActionDeleteTool      ActionType = "delete_tool"
	ActionAddParameter    ActionType = "add_parameter"
	ActionDeleteParameter ActionType = "delete_parameter"
	ActionSetCoordination ActionType = "set_coordination"
	ActionSetSettings     ActionType = "set_settings"
	ActionSelect          ActionType = "select"
	ActionClearSelection  ActionType = "clear_selection"
	ActionImportConfig    ActionType = "import_config"
)

// AgentSlot discriminates the three disjoint places an agent can live.
type AgentSlot string

const (
	SlotSupervisor AgentSlot = "supervisor"
	SlotWorker     AgentSlot = "worker"
	SlotPeer       AgentSlot = "peer"
)

// AgentRef addresses one agent in the configuration. Team and Worker are
// indices; Team is ignored for SlotPeer, Worker for SlotSupervisor.
type AgentRef struct {
	Slot   AgentSlot `json:"slot"`
	Team   int       `json:"team"`
	Worker int       `json:"worker"`
}

// Action is one editor state transition. Exactly the fields relevant to
// its Type are consulted; the rest stay zero.
type Action struct {
	Type ActionType `json:"type"`

	Team   int       `json:"team,omitempty"`
	Agent  AgentRef  `json:"agent,omitempty"`
	Field  string    `json:"field,omitempty"`
	Value  any       `json:"value,omitempty"`
	Tool   string    `json:"tool,omitempty"`
	Param  string    `json:"param,omitempty"`
	Target Selection `json:"target,omitempty"`

	// Payload carries structured bodies: a Tool for save_tool, a
	// Coordination for set_coordination, a Settings for set_settings, a
	// ParameterSpec for add_parameter, a Config for import_config, a
	// Team patch for update_team.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// SelectionKind says what, if anything, is selected.
type SelectionKind string

const (
	SelectNone  SelectionKind = ""
	SelectTeam  SelectionKind = "team"
	SelectAgent SelectionKind = "agent"
	SelectTool  SelectionKind = "tool"
	SelectEdge  SelectionKind = "edge"
)

// Selection identifies the currently selected entity, if any.
type Selection struct {
	Kind  SelectionKind `json:"kind"`
	Team  int           `json:"team,omitempty"`
	Agent AgentRef      `json:"agent,omitempty"`
	Tool  string        `json:"tool,omitempty"`
	From  string        `json:"from,omitempty"`
	To    string        `json:"to,omitempty"`
}

func decodePayload[T any](raw json.RawMessage, what string) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, fmt.Errorf("%s payload is required", what)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode %s payload: %w", what, err)
	}
	return v, nil
}
