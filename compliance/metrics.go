package compliance

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments compliance runs. Attach to an engine with
// Engine.SetMetrics; every RunWithStats then records duration, violation
// counts by severity, graph size, and the current score.
type Metrics struct {
	runDuration prometheus.Histogram
	violations  *prometheus.GaugeVec
	documents   prometheus.Gauge
	score       prometheus.Gauge
}

// NewMetrics creates and registers compliance metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "docbridge",
			Subsystem: "compliance",
			Name:      "run_duration_seconds",
			Help:      "Duration of compliance engine runs.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		violations: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "docbridge",
			Subsystem: "compliance",
			Name:      "violations",
			Help:      "Violations found by the most recent run, by severity.",
		}, []string{"severity"}),
		documents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "docbridge",
			Subsystem: "compliance",
			Name:      "documents_total",
			Help:      "Live documents in the workspace graph at run time.",
		}),
		score: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "docbridge",
			Subsystem: "compliance",
			Name:      "score",
			Help:      "Compliance score (0-100) of the most recent run.",
		}),
	}
	reg.MustRegister(m.runDuration, m.violations, m.documents, m.score)
	return m
}

func (m *Metrics) observe(result *Result, elapsed time.Duration) {
	m.runDuration.Observe(elapsed.Seconds())
	m.violations.WithLabelValues(SeverityError.String()).Set(float64(result.Errors))
	m.violations.WithLabelValues(SeverityWarning.String()).Set(float64(result.Warnings))
	m.violations.WithLabelValues(SeverityInfo.String()).Set(float64(result.Info))
	m.documents.Set(float64(result.TotalDocuments))
	m.score.Set(float64(result.ComplianceScore))
}
