// Package tools implements the registry of tools agents can call, with
// schema-driven parameter validation and a small builtin set.
package tools

import (
	"context"

	"github.com/agentboard/agentboard/internal/workflow"
)

// Handler executes a tool against validated, coerced parameters.
type Handler func(ctx context.Context, params map[string]any) (any, error)

// Invocation is the outcome of one tool execution or test. Validation
// and execution failures are reported here, not raised; the dashboard
// shows them as transient notifications.
type Invocation struct {
	Result        any     `json:"result"`
	Success       bool    `json:"success"`
	Error         string  `json:"error,omitempty"`
	ExecutionTime float64 `json:"execution_time"`
}

// Tool pairs a definition with its handler.
type Tool struct {
	Def     workflow.Tool
	Handler Handler
}
