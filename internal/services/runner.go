// Package services coordinates long-running work: background workflow
// executions and the retention sweep.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/agentboard/agentboard/internal/execution"
	"github.com/agentboard/agentboard/internal/repository"
	"github.com/agentboard/agentboard/internal/workflow"
)

// Runner starts workflow executions in the background and tracks their
// lifecycle in the execution repository. Concurrency is bounded; starts
// beyond the limit stay pending until a slot frees up.
type Runner struct {
	workflows  repository.WorkflowRepository
	executions repository.ExecutionRepository
	engine     *execution.Engine
	sem        *semaphore.Weighted

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
}

func NewRunner(workflows repository.WorkflowRepository, executions repository.ExecutionRepository, maxConcurrent int) *Runner {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Runner{
		workflows:  workflows,
		executions: executions,
		engine:     execution.NewEngine(),
		sem:        semaphore.NewWeighted(int64(maxConcurrent)),
		cancels:    make(map[string]context.CancelFunc),
	}
}

// Start creates a pending execution for the workflow and runs it in the
// background. The returned record reflects the pending state.
func (r *Runner) Start(ctx context.Context, workflowID string, input map[string]any) (*execution.Record, error) {
	wf, err := r.workflows.Get(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	rec := &execution.Record{
		ID:         uuid.NewString(),
		WorkflowID: wf.ID,
		Status:     execution.StatusPending,
		InputData:  input,
		StartedAt:  time.Now(),
	}
	if err := r.executions.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create execution: %w", err)
	}
	r.log(ctx, rec.ID, "info", "", "execution queued")

	runCtx, cancel := context.WithCancel(context.Background())
	r.mu.Lock()
	r.cancels[rec.ID] = cancel
	r.mu.Unlock()

	r.wg.Add(1)
	go r.run(runCtx, rec.ID, &wf.Config, input)

	snapshot := *rec
	return &snapshot, nil
}

// RunDetached executes an unsaved configuration the same way Start runs
// a saved workflow. Used by the editor's "run current draft" path.
func (r *Runner) RunDetached(ctx context.Context, cfg *workflow.Config, input map[string]any) (*execution.Record, error) {
	rec := &execution.Record{
		ID:        uuid.NewString(),
		Status:    execution.StatusPending,
		InputData: input,
		StartedAt: time.Now(),
	}
	if err := r.executions.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create execution: %w", err)
	}
	r.log(ctx, rec.ID, "info", "", "execution queued")

	runCtx, cancel := context.WithCancel(context.Background())
	r.mu.Lock()
	r.cancels[rec.ID] = cancel
	r.mu.Unlock()

	r.wg.Add(1)
	go r.run(runCtx, rec.ID, cfg, input)

	snapshot := *rec
	return &snapshot, nil
}

func (r *Runner) run(ctx context.Context, id string, cfg *workflow.Config, input map[string]any) {
	defer r.wg.Done()
	defer r.release(id)

	if err := r.sem.Acquire(ctx, 1); err != nil {
		r.finish(id, nil, execution.StatusCanceled, "canceled before start")
		return
	}
	defer r.sem.Release(1)

	if ctx.Err() != nil {
		r.finish(id, nil, execution.StatusCanceled, "canceled before start")
		return
	}

	r.transition(id, execution.StatusRunning)
	r.log(context.Background(), id, "info", "", "execution started")

	result, err := r.engine.Run(ctx, cfg, input)
	switch {
	case ctx.Err() != nil:
		r.finish(id, result, execution.StatusCanceled, "execution canceled")
	case err != nil:
		r.finish(id, result, execution.StatusFailed, err.Error())
	default:
		r.finish(id, result, execution.StatusCompleted, "")
	}
}

// Cancel stops a pending or running execution. Finished executions
// return an error.
func (r *Runner) Cancel(ctx context.Context, id string) error {
	rec, err := r.executions.Get(ctx, id)
	if err != nil {
		return err
	}
	switch rec.Status {
	case execution.StatusPending, execution.StatusRunning:
	default:
		return fmt.Errorf("execution %s already %s", id, rec.Status)
	}

	r.mu.Lock()
	cancel, ok := r.cancels[id]
	r.mu.Unlock()
	if ok {
		cancel()
		return nil
	}

	// No live goroutine (e.g. after restart); mark it directly.
	r.finish(id, nil, execution.StatusCanceled, "execution canceled")
	return nil
}

// Wait blocks until all background executions have finished. Used by
// tests and graceful shutdown.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) release(id string) {
	r.mu.Lock()
	if cancel, ok := r.cancels[id]; ok {
		cancel()
		delete(r.cancels, id)
	}
	r.mu.Unlock()
}

func (r *Runner) transition(id string, status string) {
	ctx := context.Background()
	rec, err := r.executions.Get(ctx, id)
	if err != nil {
		slog.Warn("execution disappeared during run", "execution_id", id, "err", err)
		return
	}
	updated := *rec
	updated.Status = status
	if err := r.executions.Update(ctx, &updated); err != nil {
		slog.Warn("execution status update failed", "execution_id", id, "err", err)
	}
}

func (r *Runner) finish(id string, result *execution.Result, status string, errMsg string) {
	ctx := context.Background()
	rec, err := r.executions.Get(ctx, id)
	if err != nil {
		slog.Warn("execution disappeared during run", "execution_id", id, "err", err)
		return
	}
	now := time.Now()
	updated := *rec
	updated.Status = status
	updated.Result = result
	updated.Error = errMsg
	updated.CompletedAt = &now
	if err := r.executions.Update(ctx, &updated); err != nil {
		slog.Warn("execution finish update failed", "execution_id", id, "err", err)
	}

	level := "info"
	msg := "execution " + status
	if status == execution.StatusFailed {
		level = "error"
		msg = fmt.Sprintf("execution failed: %s", errMsg)
	}
	r.log(ctx, id, level, "", msg)
}

func (r *Runner) log(ctx context.Context, executionID, level, agent, message string) {
	entry := &execution.LogEntry{
		ExecutionID: executionID,
		Level:       level,
		Agent:       agent,
		Message:     message,
		Timestamp:   time.Now(),
	}
	if err := r.executions.AppendLog(ctx, entry); err != nil {
		slog.Warn("append execution log failed", "execution_id", executionID, "err", err)
	}
}
