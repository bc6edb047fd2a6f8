// Package workflow defines the agentic workflow configuration model:
// teams of supervisor/worker agents, independent peer agents, tool
// definitions, and the coordination settings that tie them together.
package workflow

// AgentRole classifies an agent within a configuration.
type AgentRole string

const (
	RoleSupervisor AgentRole = "supervisor"
	RoleWorker     AgentRole = "worker"
	RolePeer       AgentRole = "peer"
	RoleHub        AgentRole = "hub"
	RoleRAG        AgentRole = "rag"
)

// Config is the full workflow configuration a dashboard session edits.
// It has no server-side identity until explicitly saved.
type Config struct {
	Teams        []Team       `json:"teams"`
	PeerAgents   []Agent      `json:"peer_agents"`
	Coordination Coordination `json:"coordination"`
	Tools        []Tool       `json:"tools"`
	Settings     Settings     `json:"workflow_config"`
}

// Team groups one supervisor with its workers.
type Team struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Supervisor  Agent   `json:"supervisor"`
	Workers     []Agent `json:"workers"`
}

// Agent configures a single agent. Name is unique within its containing
// scope; generated defaults guarantee that, manual edits are not policed.
type Agent struct {
	Name           string   `json:"name"`
	Role           string   `json:"role"`
	ModelProvider  string   `json:"model_provider"`
	ModelName      string   `json:"model_name"`
	PromptTemplate string   `json:"prompt_template"`
	Temperature    float64  `json:"temperature"`
	SystemMessage  string   `json:"system_message"`
	Tools          []string `json:"tools"`
}

// Coordination describes how teams and peer agents are orchestrated.
type Coordination struct {
	Type        string `json:"type"`
	Coordinator string `json:"coordinator,omitempty"`
	FinalAgent  string `json:"final_agent,omitempty"`
}

// Settings holds run-level knobs for a workflow.
type Settings struct {
	MaxIterations int    `json:"max_iterations"`
	CheckpointDir string `json:"checkpoint_dir"`
}

// Tool describes a callable tool agents can be granted.
type Tool struct {
	Name                 string                   `json:"name"`
	FunctionName         string                   `json:"function_name"`
	Description          string                   `json:"description"`
	Parameters           map[string]ParameterSpec `json:"parameters"`
	RequiresConfirmation bool                     `json:"requires_confirmation"`
	AlwaysAvailable      bool                     `json:"always_available"`
	// AvailabilityCondition is an optional expr-lang expression evaluated
	// against agent metadata when AlwaysAvailable is false.
	AvailabilityCondition string `json:"availability_condition,omitempty"`
}

// ParameterSpec declares one tool parameter. Default and Enum values must
// be coercible to Type.
type ParameterSpec struct {
	Type        ParameterType `json:"type"`
	Description string        `json:"description"`
	Required    bool          `json:"required"`
	Default     any           `json:"default,omitempty"`
	Enum        []any         `json:"enum,omitempty"`
}

// ParameterType is the declared type of a tool parameter.
type ParameterType string

const (
	TypeString  ParameterType = "string"
	TypeInteger ParameterType = "integer"
	TypeNumber  ParameterType = "number"
	TypeBoolean ParameterType = "boolean"
	TypeArray   ParameterType = "array"
	TypeObject  ParameterType = "object"
)

// DefaultSettings are applied to new configurations.
func DefaultSettings() Settings {
	return Settings{MaxIterations: 5, CheckpointDir: "checkpoints"}
}

// NewConfig returns an empty configuration with defaults filled in.
func NewConfig() *Config {
	return &Config{
		Teams:      []Team{},
		PeerAgents: []Agent{},
		Tools:      []Tool{},
		Coordination: Coordination{
			Type: "sequential",
		},
		Settings: DefaultSettings(),
	}
}

// AllAgents returns every agent in the configuration: team supervisors,
// team workers, then peers, in declaration order.
func (c *Config) AllAgents() []Agent {
	var out []Agent
	for _, t := range c.Teams {
		out = append(out, t.Supervisor)
		out = append(out, t.Workers...)
	}
	out = append(out, c.PeerAgents...)
	return out
}

// FindTool returns the tool with the given name.
func (c *Config) FindTool(name string) (Tool, bool) {
	for _, t := range c.Tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}
