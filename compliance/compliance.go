// Package compliance provides cross-document validation rules over the
// workspace graph. Rules are read-only scans that turn documentation
// inconsistencies into violations, never errors; the engine aggregates
// violations into a scored result for diagnostics, quick-fix, and
// reporting layers.
package compliance

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/c360studio/docbridge/config"
	"github.com/c360studio/docbridge/workspace"
)

// Severity classifies a violation.
type Severity int

const (
	// SeverityError is a critical issue that must be fixed.
	SeverityError Severity = iota
	// SeverityWarning is an issue that should be addressed.
	SeverityWarning
	// SeverityInfo is an informational suggestion.
	SeverityInfo
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the severity as its name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity %q", name)
	}
	return nil
}

// severityFromConfig maps a configured severity to a violation severity.
// The second return is false for Ignore, which disables the rule.
func severityFromConfig(s config.Severity) (Severity, bool) {
	switch s {
	case config.SeverityError:
		return SeverityError, true
	case config.SeverityWarning:
		return SeverityWarning, true
	case config.SeverityInfo:
		return SeverityInfo, true
	default:
		return 0, false
	}
}

// Violation is a compliance issue found during a rule check. Violations
// are produced fresh on every engine run and never mutated.
type Violation struct {
	// DocumentID is the document the violation is reported against.
	DocumentID string `json:"document_id"`

	// Line and Column locate the violation (0-based, rune columns).
	Line   int `json:"line"`
	Column int `json:"column"`

	// Target is the anchor id the violation is about, when the rule
	// validates a relationship to another document. Empty otherwise.
	Target string `json:"target,omitempty"`

	// Message is the human-readable description.
	Message string `json:"message"`

	// Severity is the violation severity.
	Severity Severity `json:"severity"`

	// Code is the rule code (e.g. "BRIDGE003").
	Code string `json:"code"`
}

// Rule is a read-only validation over the workspace graph.
type Rule interface {
	// Check scans the graph and returns all violations. It must not
	// mutate the graph.
	Check(g *workspace.Graph) []Violation

	// Code returns the rule's unique identifier.
	Code() string

	// Description returns a human-readable description of the rule.
	Description() string
}

// Fixer is implemented by rules that can synthesize a quick-fix for one
// of their own violations.
type Fixer interface {
	// Fix returns a text edit resolving the violation, or false if the
	// rule cannot fix it.
	Fix(v Violation, g *workspace.Graph) (*Fix, bool)
}

// Engine orchestrates the configured set of compliance rules.
type Engine struct {
	rules   []Rule
	metrics *Metrics
}

// NewEngine creates an engine with the default rules at their default
// severities.
func NewEngine() *Engine {
	return &Engine{
		rules: []Rule{
			NewStatusRule(),
			NewOrphanRule(),
		},
	}
}

// NewEngineFromConfig creates an engine with the default rules configured
// from cfg. Rules with severity Ignore contribute no violations.
func NewEngineFromConfig(cfg *config.Config) *Engine {
	return &Engine{
		rules: []Rule{
			NewStatusRuleFromConfig(cfg),
			NewOrphanRuleFromConfig(cfg),
		},
	}
}

// NewEmptyEngine creates an engine with no rules, for custom rule sets.
func NewEmptyEngine() *Engine {
	return &Engine{}
}

// AddRule registers a rule. Rules run in registration order.
func (e *Engine) AddRule(r Rule) {
	e.rules = append(e.rules, r)
}

// SetMetrics attaches Prometheus instrumentation to RunWithStats.
func (e *Engine) SetMetrics(m *Metrics) {
	e.metrics = m
}

// Rules returns (code, description) pairs for all registered rules.
func (e *Engine) Rules() [][2]string {
	descriptions := make([][2]string, 0, len(e.rules))
	for _, r := range e.rules {
		descriptions = append(descriptions, [2]string{r.Code(), r.Description()})
	}
	return descriptions
}

// Run invokes every rule against the graph and concatenates the results.
// Each run is a stateless, idempotent batch computation.
func (e *Engine) Run(g *workspace.Graph) []Violation {
	var violations []Violation
	for _, r := range e.rules {
		violations = append(violations, r.Check(g)...)
	}
	return violations
}

// RunWithStats runs all rules and derives per-severity counts and the
// compliance score.
func (e *Engine) RunWithStats(g *workspace.Graph) *Result {
	start := time.Now()
	violations := e.Run(g)

	result := &Result{
		Violations:     violations,
		TotalDocuments: g.DocumentCount(),
	}
	for _, v := range violations {
		switch v.Severity {
		case SeverityError:
			result.Errors++
		case SeverityWarning:
			result.Warnings++
		case SeverityInfo:
			result.Info++
		}
	}
	result.ComplianceScore = score(result.Errors, result.Warnings)

	if e.metrics != nil {
		e.metrics.observe(result, time.Since(start))
	}
	return result
}

// FixViolation asks the owning rule to synthesize a quick-fix for v.
// Returns false when no registered rule can fix it.
func (e *Engine) FixViolation(v Violation, g *workspace.Graph) (*Fix, bool) {
	for _, r := range e.rules {
		fixer, ok := r.(Fixer)
		if !ok {
			continue
		}
		if fix, ok := fixer.Fix(v, g); ok {
			return fix, true
		}
	}
	return nil, false
}

// score computes the compliance score: errors weigh 20 points, warnings
// 10, info none; the result is clamped to [0, 100].
func score(errors, warnings int) int {
	s := 100 - 20*errors - 10*warnings
	if s < 0 {
		return 0
	}
	return s
}

// Result is the aggregate of one engine run.
type Result struct {
	// Violations are all violations, in rule registration order.
	Violations []Violation `json:"violations"`

	// Errors, Warnings, and Info count violations per severity.
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`

	// TotalDocuments is the graph size at run time.
	TotalDocuments int `json:"total_documents"`

	// ComplianceScore is the 0-100 health metric.
	ComplianceScore int `json:"compliance_score"`
}

// HasCritical reports whether any error-level violations were found.
func (r *Result) HasCritical() bool {
	return r.Errors > 0
}

// IsClean reports whether no violations were found.
func (r *Result) IsClean() bool {
	return len(r.Violations) == 0
}
