package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/agentboard/agentboard/internal/db"
	"github.com/agentboard/agentboard/internal/execution"
	"github.com/agentboard/agentboard/internal/workflow"
)

// WorkflowPersistent wraps a WorkflowMemory with a PostgreSQL backend.
// Writes go to both stores (DB failure is logged but non-fatal).
// Reads try memory first, falling back to the database.
type WorkflowPersistent struct {
	mem *WorkflowMemory
	db  *db.DB
}

// NewWorkflowPersistent creates a repository backed by both memory and PostgreSQL.
func NewWorkflowPersistent(mem *WorkflowMemory, database *db.DB) *WorkflowPersistent {
	return &WorkflowPersistent{mem: mem, db: database}
}

func (r *WorkflowPersistent) Create(ctx context.Context, wf *workflow.Workflow) error {
	_ = r.mem.Create(ctx, wf)
	if err := r.db.CreateWorkflow(ctx, wf); err != nil {
		slog.Warn("db create workflow failed, in-memory only", "err", err)
	}
	return nil
}

func (r *WorkflowPersistent) Get(ctx context.Context, id string) (*workflow.Workflow, error) {
	// Fast path: in-memory.
	wf, err := r.mem.Get(ctx, id)
	if err == nil {
		return wf, nil
	}

	// Fallback: database.
	row, dbErr := r.db.GetWorkflow(ctx, id)
	if dbErr != nil {
		return nil, err // return original ErrNotFound
	}

	// Cache in memory for future lookups.
	_ = r.mem.Create(ctx, row)
	return row, nil
}

func (r *WorkflowPersistent) List(ctx context.Context) ([]*workflow.Workflow, error) {
	// Prefer DB for durable listing.
	rows, err := r.db.ListWorkflows(ctx)
	if err == nil {
		return rows, nil
	}
	slog.Warn("db list workflows failed, falling back to in-memory", "err", err)
	return r.mem.List(ctx)
}

func (r *WorkflowPersistent) Update(ctx context.Context, wf *workflow.Workflow) error {
	if err := r.mem.Update(ctx, wf); err != nil {
		_ = r.mem.Create(ctx, wf)
	}
	if err := r.db.UpdateWorkflow(ctx, wf); err != nil {
		slog.Warn("db update workflow failed, in-memory only", "err", err)
	}
	return nil
}

func (r *WorkflowPersistent) Delete(ctx context.Context, id string) error {
	_ = r.mem.Delete(ctx, id)
	if err := r.db.DeleteWorkflow(ctx, id); err != nil {
		slog.Warn("db delete workflow failed", "err", err)
	}
	return nil
}

// ExecutionPersistent wraps an ExecutionMemory with a PostgreSQL backend
// using the same write-through policy.
type ExecutionPersistent struct {
	mem *ExecutionMemory
	db  *db.DB
}

func NewExecutionPersistent(mem *ExecutionMemory, database *db.DB) *ExecutionPersistent {
	return &ExecutionPersistent{mem: mem, db: database}
}

func (r *ExecutionPersistent) Create(ctx context.Context, rec *execution.Record) error {
	_ = r.mem.Create(ctx, rec)
	if err := r.db.CreateExecution(ctx, rec); err != nil {
		slog.Warn("db create execution failed, in-memory only", "err", err)
	}
	return nil
}

func (r *ExecutionPersistent) Get(ctx context.Context, id string) (*execution.Record, error) {
	rec, err := r.mem.Get(ctx, id)
	if err == nil {
		return rec, nil
	}

	row, dbErr := r.db.GetExecution(ctx, id)
	if dbErr != nil {
		return nil, err
	}

	_ = r.mem.Create(ctx, row)
	return row, nil
}

func (r *ExecutionPersistent) List(ctx context.Context, workflowID string, limit int) ([]*execution.Record, error) {
	rows, err := r.db.ListExecutions(ctx, workflowID, limit)
	if err == nil {
		return rows, nil
	}
	slog.Warn("db list executions failed, falling back to in-memory", "err", err)
	return r.mem.List(ctx, workflowID, limit)
}

func (r *ExecutionPersistent) Update(ctx context.Context, rec *execution.Record) error {
	if err := r.mem.Update(ctx, rec); err != nil {
		_ = r.mem.Create(ctx, rec)
	}
	if err := r.db.UpdateExecution(ctx, rec); err != nil {
		slog.Warn("db update execution failed, in-memory only", "err", err)
	}
	return nil
}

func (r *ExecutionPersistent) AppendLog(ctx context.Context, entry *execution.LogEntry) error {
	_ = r.mem.AppendLog(ctx, entry)
	if err := r.db.AppendExecutionLog(ctx, entry); err != nil {
		slog.Warn("db append execution log failed, in-memory only", "err", err)
	}
	return nil
}

func (r *ExecutionPersistent) Logs(ctx context.Context, executionID string) ([]execution.LogEntry, error) {
	entries, err := r.mem.Logs(ctx, executionID)
	if err == nil && len(entries) > 0 {
		return entries, nil
	}
	rows, dbErr := r.db.ListExecutionLogs(ctx, executionID)
	if dbErr != nil {
		return entries, err
	}
	return rows, nil
}

func (r *ExecutionPersistent) DeleteBefore(ctx context.Context, cutoff time.Time) (int, error) {
	n, _ := r.mem.DeleteBefore(ctx, cutoff)
	if dbN, err := r.db.DeleteExecutionsBefore(ctx, cutoff); err != nil {
		slog.Warn("db delete old executions failed", "err", err)
	} else if int(dbN) > n {
		n = int(dbN)
	}
	return n, nil
}
