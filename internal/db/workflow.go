package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agentboard/agentboard/internal/workflow"
)

// CreateWorkflow stores a saved workflow.
func (d *DB) CreateWorkflow(ctx context.Context, wf *workflow.Workflow) error {
	cfgJSON, err := json.Marshal(wf.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	_, err = d.Pool.ExecContext(ctx,
		`INSERT INTO workflows (id, name, description, config, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description,
		   config = EXCLUDED.config, updated_at = EXCLUDED.updated_at`,
		wf.ID, wf.Name, wf.Description, cfgJSON, wf.CreatedAt, wf.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert workflow: %w", err)
	}
	return nil
}

// GetWorkflow retrieves a workflow by ID.
func (d *DB) GetWorkflow(ctx context.Context, id string) (*workflow.Workflow, error) {
	var wf workflow.Workflow
	var cfgJSON []byte

	err := d.Pool.QueryRowContext(ctx,
		`SELECT id, name, description, config, created_at, updated_at
		 FROM workflows WHERE id = $1`, id,
	).Scan(&wf.ID, &wf.Name, &wf.Description, &cfgJSON, &wf.CreatedAt, &wf.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("workflow not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get workflow: %w", err)
	}

	if err := json.Unmarshal(cfgJSON, &wf.Config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &wf, nil
}

// ListWorkflows returns all saved workflows, most recently updated first.
func (d *DB) ListWorkflows(ctx context.Context) ([]*workflow.Workflow, error) {
	rows, err := d.Pool.QueryContext(ctx,
		`SELECT id, name, description, config, created_at, updated_at
		 FROM workflows ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	defer rows.Close()

	var result []*workflow.Workflow
	for rows.Next() {
		var wf workflow.Workflow
		var cfgJSON []byte
		if err := rows.Scan(&wf.ID, &wf.Name, &wf.Description, &cfgJSON, &wf.CreatedAt, &wf.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan workflow: %w", err)
		}
		if err := json.Unmarshal(cfgJSON, &wf.Config); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
		result = append(result, &wf)
	}
	return result, rows.Err()
}

// UpdateWorkflow updates a saved workflow.
func (d *DB) UpdateWorkflow(ctx context.Context, wf *workflow.Workflow) error {
	cfgJSON, err := json.Marshal(wf.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	res, err := d.Pool.ExecContext(ctx,
		`UPDATE workflows SET name = $1, description = $2, config = $3, updated_at = $4 WHERE id = $5`,
		wf.Name, wf.Description, cfgJSON, time.Now(), wf.ID,
	)
	if err != nil {
		return fmt.Errorf("update workflow: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("workflow not found: %s", wf.ID)
	}
	return nil
}

// DeleteWorkflow removes a workflow by ID.
func (d *DB) DeleteWorkflow(ctx context.Context, id string) error {
	res, err := d.Pool.ExecContext(ctx, `DELETE FROM workflows WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete workflow: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("workflow not found: %s", id)
	}
	return nil
}
