package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/agentboard/agentboard/internal/execution"
	memstore "github.com/agentboard/agentboard/internal/repository/memory"
	"github.com/agentboard/agentboard/internal/workflow"
)

// WorkflowMemory is a thread-safe in-memory WorkflowRepository.
type WorkflowMemory struct {
	store *memstore.Store[*workflow.Workflow]
}

// NewWorkflowMemory creates an empty in-memory workflow repository.
func NewWorkflowMemory() *WorkflowMemory {
	return &WorkflowMemory{
		store: memstore.New(func(w *workflow.Workflow) string { return w.ID }),
	}
}

func (r *WorkflowMemory) Create(_ context.Context, wf *workflow.Workflow) error {
	r.store.Set(wf)
	return nil
}

func (r *WorkflowMemory) Get(_ context.Context, id string) (*workflow.Workflow, error) {
	wf, ok := r.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return wf, nil
}

func (r *WorkflowMemory) List(_ context.Context) ([]*workflow.Workflow, error) {
	all := r.store.All()
	sort.Slice(all, func(i, j int) bool { return all[i].UpdatedAt.After(all[j].UpdatedAt) })
	return all, nil
}

func (r *WorkflowMemory) Update(_ context.Context, wf *workflow.Workflow) error {
	if !r.store.Has(wf.ID) {
		return fmt.Errorf("%w: %s", ErrNotFound, wf.ID)
	}
	r.store.Set(wf)
	return nil
}

func (r *WorkflowMemory) Delete(_ context.Context, id string) error {
	if !r.store.Delete(id) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// ExecutionMemory is a thread-safe in-memory ExecutionRepository.
type ExecutionMemory struct {
	store *memstore.Store[*execution.Record]

	mu   sync.RWMutex
	logs map[string][]execution.LogEntry
}

// NewExecutionMemory creates an empty in-memory execution repository.
func NewExecutionMemory() *ExecutionMemory {
	return &ExecutionMemory{
		store: memstore.New(func(r *execution.Record) string { return r.ID }),
		logs:  make(map[string][]execution.LogEntry),
	}
}

func (r *ExecutionMemory) Create(_ context.Context, rec *execution.Record) error {
	r.store.Set(rec)
	return nil
}

func (r *ExecutionMemory) Get(_ context.Context, id string) (*execution.Record, error) {
	rec, ok := r.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, nil
}

func (r *ExecutionMemory) List(_ context.Context, workflowID string, limit int) ([]*execution.Record, error) {
	all := r.store.Filter(func(rec *execution.Record) bool {
		return workflowID == "" || rec.WorkflowID == workflowID
	})
	sort.Slice(all, func(i, j int) bool { return all[i].StartedAt.After(all[j].StartedAt) })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *ExecutionMemory) Update(_ context.Context, rec *execution.Record) error {
	if !r.store.Has(rec.ID) {
		return fmt.Errorf("%w: %s", ErrNotFound, rec.ID)
	}
	r.store.Set(rec)
	return nil
}

func (r *ExecutionMemory) AppendLog(_ context.Context, entry *execution.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs[entry.ExecutionID] = append(r.logs[entry.ExecutionID], *entry)
	return nil
}

func (r *ExecutionMemory) Logs(_ context.Context, executionID string) ([]execution.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.logs[executionID]
	out := make([]execution.LogEntry, len(entries))
	copy(out, entries)
	return out, nil
}

func (r *ExecutionMemory) DeleteBefore(_ context.Context, cutoff time.Time) (int, error) {
	old := r.store.Filter(func(rec *execution.Record) bool {
		switch rec.Status {
		case execution.StatusCompleted, execution.StatusFailed, execution.StatusCanceled:
			return rec.StartedAt.Before(cutoff)
		}
		return false
	})
	for _, rec := range old {
		r.store.Delete(rec.ID)
		r.mu.Lock()
		delete(r.logs, rec.ID)
		r.mu.Unlock()
	}
	return len(old), nil
}
