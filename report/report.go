// Package report renders compliance results for humans and pipelines:
// JSON for CI, Markdown for PR comments, and a small HTML dashboard.
// It consumes only the compliance result shape and never touches the
// graph.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/docbridge/compliance"
)

// Report wraps one compliance run with identifying metadata.
type Report struct {
	// RunID uniquely identifies this run.
	RunID string `json:"run_id"`

	// GeneratedAt is when the report was created.
	GeneratedAt time.Time `json:"generated_at"`

	// WorkspaceRoot is the documentation root the run covered.
	WorkspaceRoot string `json:"workspace_root,omitempty"`

	// Rules lists (code, description) for every registered rule.
	Rules [][2]string `json:"rules,omitempty"`

	// Result is the engine output.
	Result *compliance.Result `json:"result"`
}

// New creates a report for a run result.
func New(result *compliance.Result, workspaceRoot string, rules [][2]string) *Report {
	return &Report{
		RunID:         uuid.New().String(),
		GeneratedAt:   time.Now().UTC(),
		WorkspaceRoot: workspaceRoot,
		Rules:         rules,
		Result:        result,
	}
}
