package compliance

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/c360studio/docbridge/workspace"
)

// buildSyntheticWorkspace creates an index plus n cross-linked decision
// records: each document anchors itself, references its two successors,
// and every third one carries supersession metadata.
func buildSyntheticWorkspace(n int) *workspace.Graph {
	g := workspace.NewGraph()

	index := "= Index\n\n"
	for i := 0; i < n; i += 10 {
		index += fmt.Sprintf("* <<adr-%04d>>\n", i)
	}
	g.AddDocument("index.adoc", index)

	for i := 0; i < n; i++ {
		text := fmt.Sprintf("[[adr-%04d]]\n= ADR %04d\n:status: Accepted\n", i, i)
		if i%3 == 0 {
			text += fmt.Sprintf(":supersedes: adr-%04d\n", (i+n/2)%n)
		}
		text += fmt.Sprintf("\nSee <<adr-%04d>> and <<adr-%04d>>.\n", (i+1)%n, (i+2)%n)
		g.AddDocument(fmt.Sprintf("adr-%04d.adoc", i), text)
	}
	return g
}

func TestEngine_LatencyBudget(t *testing.T) {
	tests := []struct {
		docs   int
		budget time.Duration
	}{
		{50, 100 * time.Millisecond},
		{250, 250 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d documents", tt.docs), func(t *testing.T) {
			g := buildSyntheticWorkspace(tt.docs)
			e := NewEngine()

			// Warm-up run so the budget measures steady state.
			e.RunWithStats(g)

			start := time.Now()
			result := e.RunWithStats(g)
			elapsed := time.Since(start)

			assert.Equal(t, tt.docs+1, result.TotalDocuments)
			assert.Lessf(t, elapsed, tt.budget,
				"validating %d documents took %v, budget %v", tt.docs, elapsed, tt.budget)
		})
	}
}

func BenchmarkEngineRun(b *testing.B) {
	for _, docs := range []int{50, 250} {
		b.Run(fmt.Sprintf("%d documents", docs), func(b *testing.B) {
			g := buildSyntheticWorkspace(docs)
			e := NewEngine()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				e.Run(g)
			}
		})
	}
}
