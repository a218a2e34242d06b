package ai

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Call outcomes
const (
	outcomeOK            = "ok"
	outcomeTimeout       = "timeout"
	outcomeProviderError = "provider_error"
)

// Metrics holds the Prometheus metrics of the extraction pipeline
type Metrics struct {
	ProviderCallsTotal     *prometheus.CounterVec
	ProviderCallSeconds    *prometheus.HistogramVec
	ParseFailuresTotal     *prometheus.CounterVec
	ChunksTotal            prometheus.Counter
	TasksDroppedTotal      *prometheus.CounterVec
	PipelineRunSeconds     prometheus.Histogram
	SupplementaryRunsTotal *prometheus.CounterVec
}

// NewMetrics registers the pipeline metrics on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ProviderCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "extraction_provider_calls_total",
				Help: "Text-generation calls per stage and outcome",
			},
			[]string{"stage", "provider", "outcome"},
		),
		ProviderCallSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "extraction_provider_call_seconds",
				Help:    "Wall time of one streamed text-generation call",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"stage", "provider"},
		),
		ParseFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "extraction_parse_failures_total",
				Help: "Model responses with no usable JSON",
			},
			[]string{"stage"},
		),
		ChunksTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "extraction_chunks_total",
				Help: "Transcript chunks processed",
			},
		),
		TasksDroppedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "extraction_tasks_dropped_total",
				Help: "Task candidates dropped as duplicates",
			},
			[]string{"pass"},
		),
		PipelineRunSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "extraction_pipeline_run_seconds",
				Help:    "End-to-end pipeline time",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1200},
			},
		),
		SupplementaryRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "extraction_supplementary_runs_total",
				Help: "Supplementary decision/question passes triggered by low summary counts",
			},
			[]string{"stage"},
		),
	}
}

func (m *Metrics) observeCall(stage Stage, provider, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ProviderCallsTotal.WithLabelValues(string(stage), provider, outcome).Inc()
	m.ProviderCallSeconds.WithLabelValues(string(stage), provider).Observe(elapsed.Seconds())
}

func (m *Metrics) parseFailed(stage Stage) {
	if m == nil {
		return
	}
	m.ParseFailuresTotal.WithLabelValues(string(stage)).Inc()
}
