package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agentboard/agentboard/internal/execution"
)

// CreateExecution stores a new execution record.
func (d *DB) CreateExecution(ctx context.Context, rec *execution.Record) error {
	inputJSON, err := json.Marshal(rec.InputData)
	if err != nil {
		return fmt.Errorf("marshal input: %w", err)
	}

	_, err = d.Pool.ExecContext(ctx,
		`INSERT INTO executions (id, workflow_id, status, input_data, error, started_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.WorkflowID, rec.Status, inputJSON, rec.Error, rec.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("insert execution: %w", err)
	}
	return nil
}

// UpdateExecution updates status, result, error, and completion time.
func (d *DB) UpdateExecution(ctx context.Context, rec *execution.Record) error {
	var resultJSON []byte
	if rec.Result != nil {
		var err error
		resultJSON, err = json.Marshal(rec.Result)
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
	}

	res, err := d.Pool.ExecContext(ctx,
		`UPDATE executions SET status = $1, result = $2, error = $3, completed_at = $4 WHERE id = $5`,
		rec.Status, resultJSON, rec.Error, rec.CompletedAt, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("update execution: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("execution not found: %s", rec.ID)
	}
	return nil
}

// GetExecution retrieves an execution by ID.
func (d *DB) GetExecution(ctx context.Context, id string) (*execution.Record, error) {
	var rec execution.Record
	var inputJSON, resultJSON []byte
	var completedAt sql.NullTime

	err := d.Pool.QueryRowContext(ctx,
		`SELECT id, workflow_id, status, input_data, result, error, started_at, completed_at
		 FROM executions WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.WorkflowID, &rec.Status, &inputJSON, &resultJSON, &rec.Error, &rec.StartedAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("execution not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get execution: %w", err)
	}

	if err := decodeExecution(&rec, inputJSON, resultJSON, completedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListExecutions returns executions, most recent first. workflowID
// filters when non-empty; limit caps results when positive.
func (d *DB) ListExecutions(ctx context.Context, workflowID string, limit int) ([]*execution.Record, error) {
	query := `SELECT id, workflow_id, status, input_data, result, error, started_at, completed_at
	 FROM executions`
	var args []any
	if workflowID != "" {
		query += ` WHERE workflow_id = $1`
		args = append(args, workflowID)
	}
	query += ` ORDER BY started_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	rows, err := d.Pool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list executions: %w", err)
	}
	defer rows.Close()

	var result []*execution.Record
	for rows.Next() {
		var rec execution.Record
		var inputJSON, resultJSON []byte
		var completedAt sql.NullTime
		if err := rows.Scan(&rec.ID, &rec.WorkflowID, &rec.Status, &inputJSON, &resultJSON, &rec.Error, &rec.StartedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scan execution: %w", err)
		}
		if err := decodeExecution(&rec, inputJSON, resultJSON, completedAt); err != nil {
			return nil, err
		}
		result = append(result, &rec)
	}
	return result, rows.Err()
}

// DeleteExecutionsBefore removes finished executions older than cutoff
// and returns how many were deleted. Logs cascade.
func (d *DB) DeleteExecutionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := d.Pool.ExecContext(ctx,
		`DELETE FROM executions WHERE started_at < $1 AND status IN ('completed', 'failed', 'canceled')`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("delete old executions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// AppendExecutionLog stores one log entry.
func (d *DB) AppendExecutionLog(ctx context.Context, entry *execution.LogEntry) error {
	var dataJSON []byte
	if entry.Data != nil {
		var err error
		dataJSON, err = json.Marshal(entry.Data)
		if err != nil {
			return fmt.Errorf("marshal log data: %w", err)
		}
	}

	_, err := d.Pool.ExecContext(ctx,
		`INSERT INTO execution_logs (execution_id, level, agent, message, data, timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ExecutionID, entry.Level, entry.Agent, entry.Message, dataJSON, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert execution log: %w", err)
	}
	return nil
}

// ListExecutionLogs returns all log entries for an execution in order.
func (d *DB) ListExecutionLogs(ctx context.Context, executionID string) ([]execution.LogEntry, error) {
	rows, err := d.Pool.QueryContext(ctx,
		`SELECT execution_id, level, agent, message, data, timestamp
		 FROM execution_logs WHERE execution_id = $1 ORDER BY id`,
		executionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list execution logs: %w", err)
	}
	defer rows.Close()

	var result []execution.LogEntry
	for rows.Next() {
		var entry execution.LogEntry
		var dataJSON []byte
		if err := rows.Scan(&entry.ExecutionID, &entry.Level, &entry.Agent, &entry.Message, &dataJSON, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scan execution log: %w", err)
		}
		if len(dataJSON) > 0 {
			if err := json.Unmarshal(dataJSON, &entry.Data); err != nil {
				return nil, fmt.Errorf("unmarshal log data: %w", err)
			}
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func decodeExecution(rec *execution.Record, inputJSON, resultJSON []byte, completedAt sql.NullTime) error {
	if len(inputJSON) > 0 {
		if err := json.Unmarshal(inputJSON, &rec.InputData); err != nil {
			return fmt.Errorf("unmarshal input: %w", err)
		}
	}
	if len(resultJSON) > 0 {
		rec.Result = &execution.Result{}
		if err := json.Unmarshal(resultJSON, rec.Result); err != nil {
			return fmt.Errorf("unmarshal result: %w", err)
		}
	}
	if completedAt.Valid {
		t := completedAt.Time
		rec.CompletedAt = &t
	}
	return nil
}
