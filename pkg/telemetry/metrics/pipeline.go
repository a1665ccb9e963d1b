package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config contains configuration for pipeline metrics.
type Config struct {
	// Enabled turns metric recording on. When false, all recording calls
	// are no-ops.
	Enabled bool

	// Namespace is the metric name prefix. Default: "claimgate"
	Namespace string

	// Subsystem is the metric subsystem. Default: "pipeline"
	Subsystem string
}

// DefaultConfig returns the default metrics configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:   true,
		Namespace: "claimgate",
		Subsystem: "pipeline",
	}
}

// PipelineMetrics tracks the claims pipeline.
//
// Metrics:
//   - claimgate_pipeline_stage_transitions_total: stage transitions by stage
//   - claimgate_pipeline_outcomes_total: terminal outcomes by claim type and outcome
//   - claimgate_pipeline_advisory_duration_seconds: advisory evaluation latency
//   - claimgate_pipeline_ledger_append_duration_seconds: ledger append latency
//   - claimgate_pipeline_governance_rejections_total: governance rejections by reason
//   - claimgate_pipeline_policy_mutations_total: detected policy file mutation attempts
type PipelineMetrics struct {
	config   *Config
	registry *prometheus.Registry

	stageTransitions     *prometheus.CounterVec
	outcomes             *prometheus.CounterVec
	advisoryDuration     prometheus.Histogram
	ledgerAppendDuration prometheus.Histogram
	governanceRejections *prometheus.CounterVec
	policyMutations      prometheus.Counter
}

// NewPipelineMetrics creates and registers pipeline metrics with the
// provided registry. If registry is nil, a fresh registry is created.
func NewPipelineMetrics(cfg *Config, registry *prometheus.Registry) *PipelineMetrics {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "claimgate"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "pipeline"
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &PipelineMetrics{
		config:   cfg,
		registry: registry,

		stageTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "stage_transitions_total",
				Help:      "Total number of pipeline stage transitions recorded",
			},
			[]string{"stage"},
		),

		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "outcomes_total",
				Help:      "Total number of terminal claim outcomes",
			},
			[]string{"claim_type", "outcome"},
		),

		advisoryDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "advisory_duration_seconds",
				Help:      "Duration of advisory model evaluation in seconds",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
		),

		ledgerAppendDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "ledger_append_duration_seconds",
				Help:      "Duration of audit ledger appends in seconds",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
		),

		governanceRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "governance_rejections_total",
				Help:      "Total number of claims rejected by governance checks",
			},
			[]string{"reason"},
		),

		policyMutations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "policy_mutations_total",
				Help:      "Total number of detected on-disk policy mutation attempts",
			},
		),
	}

	registry.MustRegister(
		m.stageTransitions,
		m.outcomes,
		m.advisoryDuration,
		m.ledgerAppendDuration,
		m.governanceRejections,
		m.policyMutations,
	)

	return m
}

// Registry returns the Prometheus registry the metrics are registered with.
func (m *PipelineMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the metrics in Prometheus format.
func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordStageTransition records a pipeline stage transition.
func (m *PipelineMetrics) RecordStageTransition(stage string) {
	if !m.config.Enabled {
		return
	}
	m.stageTransitions.WithLabelValues(stage).Inc()
}

// RecordOutcome records a terminal outcome for a claim.
// outcome is "finalized" or "rejected".
func (m *PipelineMetrics) RecordOutcome(claimType, outcome string) {
	if !m.config.Enabled {
		return
	}
	m.outcomes.WithLabelValues(claimType, outcome).Inc()
}

// RecordAdvisoryDuration records the duration of an advisory evaluation.
func (m *PipelineMetrics) RecordAdvisoryDuration(d time.Duration) {
	if !m.config.Enabled {
		return
	}
	m.advisoryDuration.Observe(d.Seconds())
}

// RecordLedgerAppendDuration records the duration of a ledger append.
func (m *PipelineMetrics) RecordLedgerAppendDuration(d time.Duration) {
	if !m.config.Enabled {
		return
	}
	m.ledgerAppendDuration.Observe(d.Seconds())
}

// RecordGovernanceRejection records a claim rejected by governance.
// reason is the coarse failure class, e.g. "unknown_field" or "out_of_range".
func (m *PipelineMetrics) RecordGovernanceRejection(reason string) {
	if !m.config.Enabled {
		return
	}
	m.governanceRejections.WithLabelValues(reason).Inc()
}

// RecordPolicyMutation records a detected on-disk policy mutation attempt.
func (m *PipelineMetrics) RecordPolicyMutation() {
	if !m.config.Enabled {
		return
	}
	m.policyMutations.Inc()
}
