package workflow

import (
	"fmt"
	"strings"
)

// ValidateTool enforces the tool-editor save rules: a non-empty name and
// function name, at least one parameter, and well-formed parameter specs.
// A violation blocks the save; nothing is persisted.
func ValidateTool(t Tool) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("tool name is required")
	}
	if strings.TrimSpace(t.FunctionName) == "" {
		return fmt.Errorf("tool function name is required")
	}
	if len(t.Parameters) == 0 {
		return fmt.Errorf("tool %s must declare at least one parameter", t.Name)
	}
	for name, spec := range t.Parameters {
		if err := ValidateSpec(name, spec); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a whole configuration before it is submitted for
// execution: every team needs a supervisor, agents need names, tool
// references must resolve, and the coordination type must be known.
func Validate(cfg *Config) error {
	if len(cfg.Teams) == 0 && len(cfg.PeerAgents) == 0 {
		return fmt.Errorf("configuration has no teams and no peer agents")
	}

	known := make(map[string]bool, len(cfg.Tools))
	for _, t := range cfg.Tools {
		known[t.Name] = true
	}

	checkAgent := func(scope string, a Agent) error {
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("%s: agent name is required", scope)
		}
		for _, ref := range a.Tools {
			if !known[ref] && !builtinToolName(ref) {
				return fmt.Errorf("%s: agent %s references unknown tool %q", scope, a.Name, ref)
			}
		}
		return nil
	}

	for i, team := range cfg.Teams {
		scope := fmt.Sprintf("team %d (%s)", i, team.Name)
		if strings.TrimSpace(team.Name) == "" {
			return fmt.Errorf("team %d: name is required", i)
		}
		if err := checkAgent(scope, team.Supervisor); err != nil {
			return err
		}
		seen := map[string]bool{team.Supervisor.Name: true}
		for _, w := range team.Workers {
			if err := checkAgent(scope, w); err != nil {
				return err
			}
			if seen[w.Name] {
				return fmt.Errorf("%s: duplicate agent name %q", scope, w.Name)
			}
			seen[w.Name] = true
		}
	}

	seen := map[string]bool{}
	for _, p := range cfg.PeerAgents {
		if err := checkAgent("peer agents", p); err != nil {
			return err
		}
		if seen[p.Name] {
			return fmt.Errorf("peer agents: duplicate agent name %q", p.Name)
		}
		seen[p.Name] = true
	}

	switch cfg.Coordination.Type {
	case "", "sequential", "parallel", "hub", "dynamic":
	default:
		return fmt.Errorf("unknown coordination type %q", cfg.Coordination.Type)
	}

	if cfg.Settings.MaxIterations < 0 {
		return fmt.Errorf("max_iterations must not be negative")
	}
	return nil
}

// builtinToolName reports whether the name belongs to the fixed set of
// tools the server registers on startup; agents may reference those
// without declaring them in the configuration.
func builtinToolName(name string) bool {
	switch name {
	case "web_search", "fetch_rss", "execute_code", "analyze_data", "file_operations":
		return true
	}
	return false
}
