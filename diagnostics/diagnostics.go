// Package diagnostics maps compliance violations to editor-protocol
// diagnostics and publishes them per document over NATS. Conversion is
// pure and separate from transport so the mapping stays testable
// without a running server.
package diagnostics

import (
	"strings"

	"github.com/c360studio/docbridge/compliance"
)

// DiagnosticSeverity is the protocol severity level.
type DiagnosticSeverity int

const (
	// DiagnosticError is protocol severity 1.
	DiagnosticError DiagnosticSeverity = 1
	// DiagnosticWarning is protocol severity 2.
	DiagnosticWarning DiagnosticSeverity = 2
	// DiagnosticInformation is protocol severity 3.
	DiagnosticInformation DiagnosticSeverity = 3
)

// Diagnostic is one published diagnostic entry. Location, message, and
// code carry over from the violation verbatim.
type Diagnostic struct {
	Line     int                `json:"line"`
	Column   int                `json:"column"`
	Severity DiagnosticSeverity `json:"severity"`
	Code     string             `json:"code"`
	Source   string             `json:"source"`
	Message  string             `json:"message"`
}

// DiagnosticSource identifies this tool in published diagnostics.
const DiagnosticSource = "docbridge"

// severityOf maps violation severity to protocol severity.
func severityOf(s compliance.Severity) DiagnosticSeverity {
	switch s {
	case compliance.SeverityError:
		return DiagnosticError
	case compliance.SeverityWarning:
		return DiagnosticWarning
	default:
		return DiagnosticInformation
	}
}

// FromViolation converts a single violation.
func FromViolation(v compliance.Violation) Diagnostic {
	return Diagnostic{
		Line:     v.Line,
		Column:   v.Column,
		Severity: severityOf(v.Severity),
		Code:     v.Code,
		Source:   DiagnosticSource,
		Message:  v.Message,
	}
}

// GroupByDocument converts violations and groups them by document id.
// Violation order is preserved within each document.
func GroupByDocument(violations []compliance.Violation) map[string][]Diagnostic {
	grouped := make(map[string][]Diagnostic)
	for _, v := range violations {
		grouped[v.DocumentID] = append(grouped[v.DocumentID], FromViolation(v))
	}
	return grouped
}

// SanitizeSubjectToken makes a document id usable as a NATS subject
// token: path separators become dashes and NATS-reserved characters are
// replaced.
func SanitizeSubjectToken(docID string) string {
	replacer := strings.NewReplacer(
		"/", "-",
		".", "_",
		" ", "_",
		"*", "_",
		">", "_",
	)
	return replacer.Replace(docID)
}
