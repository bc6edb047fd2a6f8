package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agentboard/agentboard/internal/execution"
	"github.com/agentboard/agentboard/internal/workflow"
)

func testWorkflow(id string, updated time.Time) *workflow.Workflow {
	return &workflow.Workflow{
		ID:        id,
		Name:      "wf-" + id,
		Config:    *workflow.NewConfig(),
		CreatedAt: updated,
		UpdatedAt: updated,
	}
}

func TestWorkflowMemory_CRUD(t *testing.T) {
	repo := NewWorkflowMemory()
	ctx := context.Background()

	wf := testWorkflow("w1", time.Now())
	if err := repo.Create(ctx, wf); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.Get(ctx, "w1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "wf-w1" {
		t.Errorf("name: got %q", got.Name)
	}

	got.Description = "updated"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := repo.Delete(ctx, "w1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, "w1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWorkflowMemory_UpdateMissing(t *testing.T) {
	repo := NewWorkflowMemory()
	err := repo.Update(context.Background(), testWorkflow("ghost", time.Now()))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWorkflowMemory_ListOrder(t *testing.T) {
	repo := NewWorkflowMemory()
	ctx := context.Background()

	now := time.Now()
	repo.Create(ctx, testWorkflow("old", now.Add(-time.Hour)))
	repo.Create(ctx, testWorkflow("new", now))

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len: got %d", len(all))
	}
	if all[0].ID != "new" {
		t.Errorf("most recently updated first: got %q", all[0].ID)
	}
}

func TestExecutionMemory_CRUDAndLogs(t *testing.T) {
	repo := NewExecutionMemory()
	ctx := context.Background()

	rec := &execution.Record{
		ID:         "e1",
		WorkflowID: "w1",
		Status:     execution.StatusPending,
		StartedAt:  time.Now(),
	}
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rec.Status = execution.StatusRunning
	if err := repo.Update(ctx, rec); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.Get(ctx, "e1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != execution.StatusRunning {
		t.Errorf("status: got %q", got.Status)
	}

	repo.AppendLog(ctx, &execution.LogEntry{ExecutionID: "e1", Level: "info", Message: "started"})
	repo.AppendLog(ctx, &execution.LogEntry{ExecutionID: "e1", Level: "info", Message: "done"})

	logs, err := repo.Logs(ctx, "e1")
	if err != nil {
		t.Fatalf("Logs: %v", err)
	}
	if len(logs) != 2 || logs[1].Message != "done" {
		t.Errorf("logs: got %v", logs)
	}
}

func TestExecutionMemory_ListFilterAndLimit(t *testing.T) {
	repo := NewExecutionMemory()
	ctx := context.Background()
	now := time.Now()

	repo.Create(ctx, &execution.Record{ID: "a", WorkflowID: "w1", Status: execution.StatusCompleted, StartedAt: now.Add(-2 * time.Hour)})
	repo.Create(ctx, &execution.Record{ID: "b", WorkflowID: "w1", Status: execution.StatusCompleted, StartedAt: now.Add(-time.Hour)})
	repo.Create(ctx, &execution.Record{ID: "c", WorkflowID: "w2", Status: execution.StatusRunning, StartedAt: now})

	all, err := repo.List(ctx, "w1", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].ID != "b" {
		t.Errorf("filtered list: got %v", all)
	}

	limited, err := repo.List(ctx, "", 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "c" {
		t.Errorf("limited list: got %v", limited)
	}
}

func TestExecutionMemory_DeleteBefore(t *testing.T) {
	repo := NewExecutionMemory()
	ctx := context.Background()
	now := time.Now()

	repo.Create(ctx, &execution.Record{ID: "old-done", Status: execution.StatusCompleted, StartedAt: now.Add(-48 * time.Hour)})
	repo.Create(ctx, &execution.Record{ID: "old-running", Status: execution.StatusRunning, StartedAt: now.Add(-48 * time.Hour)})
	repo.Create(ctx, &execution.Record{ID: "fresh", Status: execution.StatusCompleted, StartedAt: now})
	repo.AppendLog(ctx, &execution.LogEntry{ExecutionID: "old-done", Message: "x"})

	n, err := repo.DeleteBefore(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted: got %d, want 1", n)
	}

	// Running executions survive regardless of age.
	if _, err := repo.Get(ctx, "old-running"); err != nil {
		t.Errorf("running execution should survive: %v", err)
	}
	if _, err := repo.Get(ctx, "fresh"); err != nil {
		t.Errorf("fresh execution should survive: %v", err)
	}
	if logs, _ := repo.Logs(ctx, "old-done"); len(logs) != 0 {
		t.Errorf("logs of deleted execution should be gone, got %v", logs)
	}
}
