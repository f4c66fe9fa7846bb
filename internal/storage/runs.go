package storage

import (
	"context"
	"fmt"
	"time"

	"studioscan/internal/export"
)

// Run is one recorded estimation run.
type Run struct {
	RunID          string    `json:"runId"`
	CreatedAt      time.Time `json:"createdAt"`
	ToolVersion    string    `json:"toolVersion"`
	FeatureCount   int       `json:"featureCount"`
	ComponentCount int       `json:"componentCount"`
	TotalHours     float64   `json:"totalHours"`
	SnapshotPath   string    `json:"snapshotPath,omitempty"`
}

// RecordRun stores the summary row for a snapshot. snapshotPath may be
// empty when no snapshot file was written.
func (d *DB) RecordRun(ctx context.Context, snap *export.Snapshot, snapshotPath string) error {
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO estimation_runs
			(run_id, created_at, tool_version, feature_count, component_count, total_hours, snapshot_path)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snap.RunID,
		snap.GeneratedAt.UTC().Format(time.RFC3339),
		snap.Version,
		len(snap.Report.Features),
		snap.Report.ComponentCount,
		snap.Report.TotalHours,
		snapshotPath,
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", snap.RunID, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (d *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := d.conn.QueryContext(ctx, `
		SELECT run_id, created_at, tool_version, feature_count, component_count, total_hours, snapshot_path
		FROM estimation_runs
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt string
		if err := rows.Scan(&r.RunID, &createdAt, &r.ToolVersion, &r.FeatureCount, &r.ComponentCount, &r.TotalHours, &r.SnapshotPath); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
