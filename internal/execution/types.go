// Package execution defines workflow execution results and the
// projections the dashboard displays them through.
package execution

import (
	"time"
)

// Status values for an execution record.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCanceled  = "canceled"
)

// Record is one workflow execution with its lifecycle metadata.
type Record struct {
	ID          string         `json:"id"`
	WorkflowID  string         `json:"workflow_id"`
	Status      string         `json:"status"`
	InputData   map[string]any `json:"input_data,omitempty"`
	Result      *Result        `json:"result,omitempty"`
	Error       string         `json:"error,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

// LogEntry is one line of an execution's log stream.
type LogEntry struct {
	ExecutionID string         `json:"execution_id"`
	Level       string         `json:"level"`
	Agent       string         `json:"agent"`
	Message     string         `json:"message"`
	Data        map[string]any `json:"data,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

// Result is the payload an execution produces: per-entity outputs, usage
// records, the observed delegation graph, and the final answer.
type Result struct {
	Success        bool                   `json:"success"`
	Error          string                 `json:"error,omitempty"`
	Outputs        map[string]OutputEntry `json:"outputs"`
	AgentUsage     []UsageRecord          `json:"agent_usage"`
	ExecutionGraph map[string][]string    `json:"execution_graph"`
	Messages       []Message              `json:"messages"`
	FinalOutput    string                 `json:"final_output"`
	ExecutionTime  float64                `json:"execution_time"`
}

// Message is one turn of the top-level conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OutputEntry is one value of the outputs map. Keys are prefixed
// `team:<id>` or `agent:<name>`; team entries populate the team fields,
// agent entries the Output field. Both carry a per-iteration history.
type OutputEntry struct {
	TeamID           string            `json:"team_id,omitempty"`
	TeamName         string            `json:"team_name,omitempty"`
	SupervisorOutput string            `json:"supervisor_output,omitempty"`
	WorkerOutputs    map[string]string `json:"worker_outputs,omitempty"`
	Output           string            `json:"output,omitempty"`
	History          []IterationRecord `json:"history,omitempty"`
}

// IterationRecord captures one entity's outputs at one iteration.
// Iteration is zero-based here; display-side filters use one-based
// values with 0 reserved for "current".
type IterationRecord struct {
	Iteration        int               `json:"iteration"`
	SupervisorOutput string            `json:"supervisor_output,omitempty"`
	WorkerOutputs    map[string]string `json:"worker_outputs,omitempty"`
	Output           string            `json:"output,omitempty"`
}

// UsageRecord is one agent invocation.
type UsageRecord struct {
	Agent             string   `json:"agent"`
	Role              string   `json:"role"`
	Team              string   `json:"team,omitempty"`
	Iteration         int      `json:"iteration,omitempty"`
	Model             string   `json:"model"`
	MessagesProcessed int      `json:"messages_processed"`
	ToolsUsed         []string `json:"tools_used,omitempty"`
	OutputLength      int      `json:"output_length"`
}
