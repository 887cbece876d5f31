package report

import (
	"fmt"
	"html/template"
	"strings"
)

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Compliance Report</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
.score { font-size: 2.5rem; font-weight: bold; }
.score.good { color: #2a7f2a; }
.score.poor { color: #b03030; }
table { border-collapse: collapse; margin-top: 1rem; }
th, td { border: 1px solid #ccc; padding: 0.4rem 0.8rem; text-align: left; }
.severity-error { color: #b03030; }
.severity-warning { color: #b07a30; }
.severity-info { color: #3060b0; }
</style>
</head>
<body>
<h1>Compliance Report</h1>
{{if .WorkspaceRoot}}<p>Workspace: <code>{{.WorkspaceRoot}}</code></p>{{end}}
<p class="score {{.ScoreClass}}">{{.Result.ComplianceScore}}/100</p>
<p>{{.Result.TotalDocuments}} documents checked: {{.Result.Errors}} errors, {{.Result.Warnings}} warnings, {{.Result.Info}} info</p>
{{if .Result.Violations}}
<table>
<tr><th>Code</th><th>Severity</th><th>Document</th><th>Line</th><th>Message</th></tr>
{{range .Result.Violations}}
<tr>
<td>{{.Code}}</td>
<td class="severity-{{.Severity}}">{{.Severity}}</td>
<td>{{.DocumentID}}</td>
<td>{{.Line}}</td>
<td>{{.Message}}</td>
</tr>
{{end}}
</table>
{{else}}
<p>No violations found.</p>
{{end}}
<p><small>Run {{.RunID}} at {{.GeneratedAt.Format "2006-01-02T15:04:05Z07:00"}}</small></p>
</body>
</html>
`))

// ScoreClass returns the CSS class for the score figure.
func (r *Report) ScoreClass() string {
	if r.Result.ComplianceScore >= 80 {
		return "good"
	}
	return "poor"
}

// HTML renders the report as a standalone HTML dashboard.
func (r *Report) HTML() (string, error) {
	var sb strings.Builder
	if err := htmlTemplate.Execute(&sb, r); err != nil {
		return "", fmt.Errorf("render HTML report: %w", err)
	}
	return sb.String(), nil
}
