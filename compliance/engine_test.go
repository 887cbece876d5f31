package compliance

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/docbridge/config"
	"github.com/c360studio/docbridge/workspace"
)

// stubRule emits a fixed set of violations.
type stubRule struct {
	code       string
	violations []Violation
}

func (r *stubRule) Check(*workspace.Graph) []Violation { return r.violations }
func (r *stubRule) Code() string                       { return r.code }
func (r *stubRule) Description() string                { return "stub rule" }

func violationsWithSeverity(code string, s Severity, n int) []Violation {
	vs := make([]Violation, n)
	for i := range vs {
		vs[i] = Violation{DocumentID: "doc.adoc", Code: code, Severity: s, Message: "stub"}
	}
	return vs
}

func TestEngine_RunConcatenatesInRegistrationOrder(t *testing.T) {
	e := NewEmptyEngine()
	e.AddRule(&stubRule{code: "B", violations: violationsWithSeverity("B", SeverityWarning, 1)})
	e.AddRule(&stubRule{code: "A", violations: violationsWithSeverity("A", SeverityError, 1)})

	violations := e.Run(workspace.NewGraph())
	require.Len(t, violations, 2)
	assert.Equal(t, "B", violations[0].Code)
	assert.Equal(t, "A", violations[1].Code)
}

func TestEngine_RunIsIdempotent(t *testing.T) {
	g := workspace.NewGraph()
	g.AddDocument("index.adoc", "= Index")
	g.AddDocument("orphan.adoc", "[[orphan]]")
	g.AddDocument("adr-002.adoc", ":supersedes: nowhere")

	e := NewEngine()
	first := e.RunWithStats(g)
	second := e.RunWithStats(g)

	assert.Equal(t, first, second)
}

func TestEngine_Score(t *testing.T) {
	tests := []struct {
		name     string
		errors   int
		warnings int
		info     int
		want     int
	}{
		{"clean graph", 0, 0, 0, 100},
		{"one error", 1, 0, 0, 80},
		{"one warning", 0, 1, 0, 90},
		{"two errors one warning", 2, 1, 0, 50},
		{"info does not affect score", 0, 0, 7, 100},
		{"floor at zero", 10, 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEmptyEngine()
			e.AddRule(&stubRule{code: "E", violations: violationsWithSeverity("E", SeverityError, tt.errors)})
			e.AddRule(&stubRule{code: "W", violations: violationsWithSeverity("W", SeverityWarning, tt.warnings)})
			e.AddRule(&stubRule{code: "I", violations: violationsWithSeverity("I", SeverityInfo, tt.info)})

			result := e.RunWithStats(workspace.NewGraph())
			assert.Equal(t, tt.want, result.ComplianceScore)
			assert.Equal(t, tt.errors, result.Errors)
			assert.Equal(t, tt.warnings, result.Warnings)
			assert.Equal(t, tt.info, result.Info)
		})
	}
}

func TestEngine_TotalDocuments(t *testing.T) {
	g := workspace.NewGraph()
	g.AddDocument("a.adoc", "= A")
	g.AddDocument("b.adoc", "= B")

	result := NewEngine().RunWithStats(g)
	assert.Equal(t, 2, result.TotalDocuments)
}

func TestEngine_IgnoreRemovesRuleViolations(t *testing.T) {
	g := workspace.NewGraph()
	g.AddDocument("index.adoc", "= Index")
	g.AddDocument("orphan.adoc", "[[orphan]]")
	g.AddDocument("adr-002.adoc", ":supersedes: adr-001")
	g.AddDocument("adr-001.adoc", "[[adr-001]]\n:status: Accepted")

	cfg := config.DefaultConfig()
	full := NewEngineFromConfig(cfg).Run(g)
	assert.NotEmpty(t, full)

	cfg.Rules.Orphans = config.SeverityIgnore
	cfg.Rules.SupersededStatus = config.SeverityIgnore
	assert.Empty(t, NewEngineFromConfig(cfg).Run(g))
}

func TestEngine_DefaultRuleCatalog(t *testing.T) {
	rules := NewEngine().Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, StatusRuleCode, rules[0][0])
	assert.Equal(t, OrphanRuleCode, rules[1][0])
	for _, r := range rules {
		assert.NotEmpty(t, r[1])
	}
}

func TestEngine_FixViolationDispatch(t *testing.T) {
	g := workspace.NewGraph()
	g.AddDocument("index.adoc", "= Index")
	g.AddDocument("orphan.adoc", "[[orphan]]")

	e := NewEngine()
	violations := e.Run(g)
	require.Len(t, violations, 1)

	fix, ok := e.FixViolation(violations[0], g)
	require.True(t, ok)
	assert.Equal(t, "index.adoc", fix.DocumentID)

	// No rule owns an unknown code.
	_, ok = e.FixViolation(Violation{Code: "BRIDGE999"}, g)
	assert.False(t, ok)
}

func TestEngine_FixViolationDispatchesStatusFix(t *testing.T) {
	g := workspace.NewGraph()
	g.AddDocument("index.adoc", "= Index\n\n<<adr-001>> <<adr-002>>")
	g.AddDocument("adr-002.adoc", "[[adr-002]]\n:supersedes: adr-001")
	g.AddDocument("adr-001.adoc", "[[adr-001]]\n:status: Accepted")

	e := NewEngine()
	violations := e.Run(g)
	require.Len(t, violations, 1)
	require.Equal(t, StatusRuleCode, violations[0].Code)

	fix, ok := e.FixViolation(violations[0], g)
	require.True(t, ok)
	assert.Equal(t, "Mark as Deprecated", fix.Title)
	assert.Equal(t, "adr-001.adoc", fix.DocumentID)
}

func TestEngine_ResultHelpers(t *testing.T) {
	clean := &Result{ComplianceScore: 100}
	assert.True(t, clean.IsClean())
	assert.False(t, clean.HasCritical())

	dirty := &Result{
		Violations: violationsWithSeverity("E", SeverityError, 1),
		Errors:     1,
	}
	assert.False(t, dirty.IsClean())
	assert.True(t, dirty.HasCritical())
}

func TestEngine_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := NewEngine()
	e.SetMetrics(NewMetrics(reg))

	g := workspace.NewGraph()
	g.AddDocument("index.adoc", "= Index")
	g.AddDocument("orphan.adoc", "[[orphan]]")

	result := e.RunWithStats(g)
	assert.Equal(t, 1, result.Warnings)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["docbridge_compliance_run_duration_seconds"])
	assert.True(t, names["docbridge_compliance_violations"])
	assert.True(t, names["docbridge_compliance_documents_total"])
	assert.True(t, names["docbridge_compliance_score"])
}
