package report

import (
	"fmt"
	"strings"
)

// Markdown renders the report as a Markdown summary suitable for PR
// comments.
func (r *Report) Markdown() string {
	var sb strings.Builder
	result := r.Result

	sb.WriteString("# Compliance Report\n\n")
	if r.WorkspaceRoot != "" {
		sb.WriteString(fmt.Sprintf("Workspace: `%s`\n\n", r.WorkspaceRoot))
	}
	sb.WriteString(fmt.Sprintf("**Score: %d/100** (%d documents checked)\n\n", result.ComplianceScore, result.TotalDocuments))

	sb.WriteString("| Severity | Count |\n")
	sb.WriteString("|----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Errors   | %d |\n", result.Errors))
	sb.WriteString(fmt.Sprintf("| Warnings | %d |\n", result.Warnings))
	sb.WriteString(fmt.Sprintf("| Info     | %d |\n\n", result.Info))

	if result.IsClean() {
		sb.WriteString("No violations found.\n")
		return sb.String()
	}

	sb.WriteString("## Violations\n\n")
	for _, v := range result.Violations {
		sb.WriteString(fmt.Sprintf("- **%s** (%s) `%s:%d`: %s\n",
			v.Code, v.Severity, v.DocumentID, v.Line+1, v.Message))
	}

	if len(r.Rules) > 0 {
		sb.WriteString("\n## Rules\n\n")
		for _, rule := range r.Rules {
			sb.WriteString(fmt.Sprintf("- `%s`: %s\n", rule[0], rule[1]))
		}
	}

	return sb.String()
}
