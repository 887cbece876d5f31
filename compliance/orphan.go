package compliance

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/c360studio/docbridge/config"
	"github.com/c360studio/docbridge/workspace"
)

// OrphanRuleCode is the rule code for orphaned document detection.
const OrphanRuleCode = "BRIDGE003"

// OrphanRule reports documents that are not reachable from any entry
// point by following resolved cross-references.
type OrphanRule struct {
	entryPointPatterns []string
	severity           Severity
	enabled            bool
}

// NewOrphanRule creates an OrphanRule with default entry-point patterns
// and severity Warning.
func NewOrphanRule() *OrphanRule {
	return &OrphanRule{
		entryPointPatterns: config.DefaultConfig().Workspace.EntryPoints,
		severity:           SeverityWarning,
		enabled:            true,
	}
}

// NewOrphanRuleFromConfig creates an OrphanRule configured from cfg.
func NewOrphanRuleFromConfig(cfg *config.Config) *OrphanRule {
	severity, enabled := severityFromConfig(cfg.Rules.Orphans)
	patterns := cfg.Workspace.EntryPoints
	if len(patterns) == 0 {
		patterns = config.DefaultConfig().Workspace.EntryPoints
	}
	return &OrphanRule{
		entryPointPatterns: patterns,
		severity:           severity,
		enabled:            enabled,
	}
}

// Code returns the rule code.
func (r *OrphanRule) Code() string { return OrphanRuleCode }

// Description returns the rule description.
func (r *OrphanRule) Description() string {
	return "All documents should be reachable from an entry point"
}

// isEntryPoint reports whether a document id matches any entry-point
// pattern, case-insensitively. Patterns with glob metacharacters match
// the filename via doublestar; plain patterns match as suffixes.
func (r *OrphanRule) isEntryPoint(docID string) bool {
	idLower := strings.ToLower(docID)
	nameLower := strings.ToLower(baseName(docID))

	for _, pattern := range r.entryPointPatterns {
		patternLower := strings.ToLower(pattern)
		if strings.ContainsAny(patternLower, "*?[{") {
			if ok, err := doublestar.Match(patternLower, nameLower); err == nil && ok {
				return true
			}
			continue
		}
		if strings.HasSuffix(idLower, patternLower) {
			return true
		}
	}
	return false
}

// findEntryPoints returns the live documents matching entry-point patterns.
func (r *OrphanRule) findEntryPoints(g *workspace.Graph) []string {
	var entryPoints []string
	for _, id := range g.DocumentIDs() {
		if r.isEntryPoint(id) {
			entryPoints = append(entryPoints, id)
		}
	}
	return entryPoints
}

// Check reports one violation per document that is neither an entry point
// nor reachable from one. With no entry points in the graph there is no
// baseline to measure against and nothing is reported.
func (r *OrphanRule) Check(g *workspace.Graph) []Violation {
	if !r.enabled {
		return nil
	}

	entryPoints := r.findEntryPoints(g)
	if len(entryPoints) == 0 {
		return nil
	}

	reachable := g.FindReachableDocuments(entryPoints)

	var violations []Violation
	for _, id := range g.DocumentIDs() {
		if r.isEntryPoint(id) || reachable[id] {
			continue
		}
		violations = append(violations, Violation{
			DocumentID: id,
			Message: fmt.Sprintf(
				"Orphaned document: '%s' is not reachable from any entry point",
				baseName(id)),
			Severity: r.severity,
			Code:     OrphanRuleCode,
		})
	}
	return violations
}

// Fix links the orphaned document from the first entry point by appending
// an index entry at the end of its text.
func (r *OrphanRule) Fix(v Violation, g *workspace.Graph) (*Fix, bool) {
	if v.Code != OrphanRuleCode {
		return nil, false
	}

	entryPoints := r.findEntryPoints(g)
	if len(entryPoints) == 0 {
		return nil, false
	}
	indexID := entryPoints[0]

	indexText, ok := g.DocumentText(indexID)
	if !ok {
		return nil, false
	}

	insertAt := endOfTextPosition(indexText)
	return &Fix{
		Title:      fmt.Sprintf("Add link to '%s' in %s", baseName(v.DocumentID), baseName(indexID)),
		DocumentID: indexID,
		Edits: []TextEdit{{
			Range:   Range{Start: insertAt, End: insertAt},
			NewText: orphanLinkEntry(v.DocumentID),
		}},
	}, true
}
