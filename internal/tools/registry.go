package tools

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/agentboard/agentboard/internal/workflow"
	"github.com/expr-lang/expr"
)

// Registry is the central store of callable tools. Registration
// overwrites by name; lookups and listings are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

// Register adds a tool after validating its definition.
func (r *Registry) Register(def workflow.Tool, h Handler) error {
	if err := workflow.ValidateTool(def); err != nil {
		return err
	}
	if h == nil {
		return fmt.Errorf("tool %s: handler is required", def.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[def.Name]; exists {
		slog.Warn("tool already registered, overwriting", "tool", def.Name)
	}
	r.tools[def.Name] = &Tool{Def: def, Handler: h}
	return nil
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (*Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Definitions returns every registered tool definition, sorted by name
// for stable API listings.
func (r *Registry) Definitions() []workflow.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]workflow.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t.Def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ForAgent returns the tool definitions available to an agent: the
// tools its configuration requests, filtered by availability. A tool
// that is not AlwaysAvailable and carries an availability condition is
// included only when the condition evaluates truthy against the agent's
// metadata. Requested tools missing from the registry are logged and
// skipped.
func (r *Registry) ForAgent(agent workflow.Agent) []workflow.Tool {
	var out []workflow.Tool
	for _, name := range agent.Tools {
		t, ok := r.Get(name)
		if !ok {
			slog.Warn("agent requests unknown tool", "agent", agent.Name, "tool", name)
			continue
		}
		if !t.Def.AlwaysAvailable && t.Def.AvailabilityCondition != "" {
			ok, err := evalCondition(t.Def.AvailabilityCondition, agent)
			if err != nil {
				slog.Warn("tool availability condition failed", "tool", name, "err", err)
				continue
			}
			if !ok {
				continue
			}
		}
		out = append(out, t.Def)
	}
	return out
}

// evalCondition evaluates an expr-lang expression against agent
// metadata (name, role, model_provider, model_name).
func evalCondition(condition string, agent workflow.Agent) (bool, error) {
	env := map[string]any{
		"name":           agent.Name,
		"role":           agent.Role,
		"model_provider": agent.ModelProvider,
		"model_name":     agent.ModelName,
	}
	program, err := expr.Compile(condition, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("compile condition %q: %w", condition, err)
	}
	result, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate condition %q: %w", condition, err)
	}
	b, _ := result.(bool)
	return b, nil
}

// RegisterConfigured registers the user-defined tools of a workflow
// configuration. They have no native handler; invocations echo the
// validated parameters the way a downstream runtime would receive them.
func (r *Registry) RegisterConfigured(cfg *workflow.Config) error {
	for _, def := range cfg.Tools {
		def := def
		h := func(_ context.Context, params map[string]any) (any, error) {
			return map[string]any{
				"tool":       def.Name,
				"function":   def.FunctionName,
				"parameters": params,
				"simulated":  true,
			}, nil
		}
		if err := r.Register(def, h); err != nil {
			return fmt.Errorf("register configured tool %s: %w", def.Name, err)
		}
	}
	return nil
}

// Execute validates parameters against the tool's schema, runs the
// handler, and wraps the outcome. All failures, whether unknown tool,
// bad parameters, or handler error, come back inside the Invocation so
// callers surface them uniformly.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]any) *Invocation {
	t, ok := r.Get(name)
	if !ok {
		return &Invocation{Success: false, Error: fmt.Sprintf("tool %s not found", name)}
	}

	processed, err := validateParams(t.Def, params)
	if err != nil {
		return &Invocation{Success: false, Error: err.Error()}
	}

	start := time.Now()
	result, err := t.Handler(ctx, processed)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		return &Invocation{Success: false, Error: fmt.Sprintf("tool execution error: %v", err), ExecutionTime: elapsed}
	}
	return &Invocation{Result: result, Success: true, ExecutionTime: elapsed}
}

// validateParams checks required parameters, applies defaults, coerces
// values to their declared types, and enforces enums. It returns the
// processed map or a combined error listing every violation.
func validateParams(def workflow.Tool, params map[string]any) (map[string]any, error) {
	var problems []string
	processed := make(map[string]any, len(def.Parameters))

	names := make([]string, 0, len(def.Parameters))
	for name := range def.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := def.Parameters[name]
		raw, present := params[name]
		if !present {
			if spec.Required {
				problems = append(problems, fmt.Sprintf("missing required parameter: %s", name))
			} else if spec.Default != nil {
				v, err := workflow.Coerce(spec.Type, spec.Default)
				if err == nil {
					processed[name] = v.Interface()
				}
			}
			continue
		}

		v, err := workflow.Coerce(spec.Type, raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("invalid value for parameter %s: %v", name, err))
			continue
		}
		if len(spec.Enum) > 0 && !enumContains(spec.Enum, v.Interface()) {
			problems = append(problems, fmt.Sprintf("value for %s must be one of: %s", name, enumList(spec.Enum)))
			continue
		}
		processed[name] = v.Interface()
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("parameter validation errors: %s", strings.Join(problems, "; "))
	}
	return processed, nil
}

func enumContains(enum []any, v any) bool {
	for _, e := range enum {
		if fmt.Sprintf("%v", e) == fmt.Sprintf("%v", v) {
			return true
		}
	}
	return false
}

func enumList(enum []any) string {
	parts := make([]string, len(enum))
	for i, e := range enum {
		parts[i] = fmt.Sprintf("%v", e)
	}
	return strings.Join(parts, ", ")
}
