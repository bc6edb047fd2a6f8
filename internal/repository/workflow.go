// Package repository defines storage interfaces for domain entities.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/agentboard/agentboard/internal/execution"
	"github.com/agentboard/agentboard/internal/workflow"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// WorkflowRepository abstracts saved-workflow persistence so callers
// don't need to know whether storage is in-memory, PostgreSQL, or a mix.
type WorkflowRepository interface {
	Create(ctx context.Context, wf *workflow.Workflow) error
	Get(ctx context.Context, id string) (*workflow.Workflow, error)
	List(ctx context.Context) ([]*workflow.Workflow, error)
	Update(ctx context.Context, wf *workflow.Workflow) error
	Delete(ctx context.Context, id string) error
}

// ExecutionRepository abstracts execution-record persistence.
type ExecutionRepository interface {
	Create(ctx context.Context, rec *execution.Record) error
	Get(ctx context.Context, id string) (*execution.Record, error)
	List(ctx context.Context, workflowID string, limit int) ([]*execution.Record, error)
	Update(ctx context.Context, rec *execution.Record) error
	AppendLog(ctx context.Context, entry *execution.LogEntry) error
	Logs(ctx context.Context, executionID string) ([]execution.LogEntry, error)
	// DeleteBefore removes finished executions started before cutoff and
	// returns how many were removed.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int, error)
}
