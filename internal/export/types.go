// Package export renders estimation reports for humans (markdown TODO
// checklists) and machines (TOML and JSON snapshots with stable run IDs).
package export

import (
	"time"

	"github.com/google/uuid"

	"studioscan/internal/estimate"
)

// Snapshot is a self-contained, replayable copy of one estimation run.
type Snapshot struct {
	RunID       string           `json:"runId" toml:"run_id"`
	Tool        string           `json:"tool" toml:"tool"`
	Version     string           `json:"version" toml:"version"`
	GeneratedAt time.Time        `json:"generatedAt" toml:"generated_at"`
	Report      *estimate.Report `json:"report" toml:"report"`
}

// NewSnapshot wraps a report with run identity metadata.
func NewSnapshot(report *estimate.Report, version string) *Snapshot {
	return &Snapshot{
		RunID:       uuid.NewString(),
		Tool:        "studioscan",
		Version:     version,
		GeneratedAt: time.Now().UTC(),
		Report:      report,
	}
}
