package compliance

import (
	"fmt"
	"strings"

	"github.com/c360studio/docbridge/config"
	"github.com/c360studio/docbridge/workspace"
)

const (
	// StatusRuleCode is the rule code for invalid status on a superseded
	// document.
	StatusRuleCode = "BRIDGE001"
	// MissingTargetCode is the rule code for a supersession target that
	// resolves to no document. It carries a fixed Warning severity
	// independent of the rule's configured severity.
	MissingTargetCode = "BRIDGE002"
)

// StatusRule validates supersession metadata: when a document declares
// :supersedes:, every target must resolve and carry status Deprecated or
// Superseded.
type StatusRule struct {
	severity Severity
	enabled  bool
}

// NewStatusRule creates a StatusRule with default severity Error.
func NewStatusRule() *StatusRule {
	return &StatusRule{severity: SeverityError, enabled: true}
}

// NewStatusRuleFromConfig creates a StatusRule configured from cfg.
func NewStatusRuleFromConfig(cfg *config.Config) *StatusRule {
	severity, enabled := severityFromConfig(cfg.Rules.SupersededStatus)
	return &StatusRule{severity: severity, enabled: enabled}
}

// Code returns the rule code.
func (r *StatusRule) Code() string { return StatusRuleCode }

// Description returns the rule description.
func (r *StatusRule) Description() string {
	return "Superseded documents must have status Deprecated or Superseded"
}

// parseSupersedes splits a supersedes attribute value into target anchor
// ids, trimmed, with empty entries dropped.
func parseSupersedes(value string) []string {
	var ids []string
	for _, part := range strings.Split(value, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// validSupersededStatus reports whether a status value is acceptable for
// a superseded document (case-insensitive).
func validSupersededStatus(status string) bool {
	switch strings.ToLower(status) {
	case "deprecated", "superseded":
		return true
	}
	return false
}

// Check scans every document carrying a supersedes attribute and
// validates each target's existence and status.
func (r *StatusRule) Check(g *workspace.Graph) []Violation {
	if !r.enabled {
		return nil
	}

	var violations []Violation
	for _, id := range g.DocumentIDs() {
		value, ok := g.DocumentAttribute(id, "supersedes")
		if !ok {
			continue
		}

		for _, target := range parseSupersedes(value) {
			defID, ok := g.DefinitionURI(target)
			if !ok {
				violations = append(violations, Violation{
					DocumentID: id,
					Target:     target,
					Message: fmt.Sprintf(
						"Document claims to supersede '%s' but that id is not defined in the workspace",
						target),
					Severity: SeverityWarning,
					Code:     MissingTargetCode,
				})
				continue
			}

			status, ok := g.DocumentAttribute(defID, "status")
			switch {
			case !ok:
				violations = append(violations, Violation{
					DocumentID: id,
					Target:     target,
					Message: fmt.Sprintf(
						"Superseded document '%s' has no :status: attribute; it must be Deprecated or Superseded",
						target),
					Severity: SeverityWarning,
					Code:     StatusRuleCode,
				})
			case !validSupersededStatus(status):
				violations = append(violations, Violation{
					DocumentID: id,
					Target:     target,
					Message: fmt.Sprintf(
						"Superseded document '%s' has status '%s' but must be Deprecated or Superseded",
						target, status),
					Severity: r.severity,
					Code:     StatusRuleCode,
				})
			}
		}
	}
	return violations
}

// Fix rewrites the superseded document's status value to Deprecated. A
// document with no :status: line cannot be patched in place, and
// unresolved supersession targets carry no fix.
func (r *StatusRule) Fix(v Violation, g *workspace.Graph) (*Fix, bool) {
	if v.Code != StatusRuleCode || v.Target == "" {
		return nil, false
	}

	defID, ok := g.DefinitionURI(v.Target)
	if !ok {
		return nil, false
	}
	text, ok := g.DocumentText(defID)
	if !ok {
		return nil, false
	}

	statusRange, _, ok := findStatusRange(text)
	if !ok {
		return nil, false
	}
	return &Fix{
		Title:      "Mark as Deprecated",
		DocumentID: defID,
		Edits: []TextEdit{{
			Range:   statusRange,
			NewText: "Deprecated",
		}},
	}, true
}
