package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPipelineMetricsRecord(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewPipelineMetrics(DefaultConfig(), registry)

	m.RecordStageTransition("RECEIVED")
	m.RecordStageTransition("RECEIVED")
	m.RecordStageTransition("VALIDATED")
	m.RecordOutcome("Auto", "finalized")
	m.RecordGovernanceRejection("out_of_range")
	m.RecordPolicyMutation()
	m.RecordAdvisoryDuration(2 * time.Millisecond)
	m.RecordLedgerAppendDuration(1 * time.Millisecond)

	if got := testutil.ToFloat64(m.stageTransitions.WithLabelValues("RECEIVED")); got != 2 {
		t.Errorf("RECEIVED transitions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.outcomes.WithLabelValues("Auto", "finalized")); got != 1 {
		t.Errorf("finalized outcomes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.governanceRejections.WithLabelValues("out_of_range")); got != 1 {
		t.Errorf("governance rejections = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.policyMutations); got != 1 {
		t.Errorf("policy mutations = %v, want 1", got)
	}
}

func TestPipelineMetricsDisabled(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewPipelineMetrics(&Config{Enabled: false}, registry)

	m.RecordStageTransition("RECEIVED")
	m.RecordOutcome("Auto", "rejected")
	m.RecordPolicyMutation()

	if got := testutil.ToFloat64(m.stageTransitions.WithLabelValues("RECEIVED")); got != 0 {
		t.Errorf("disabled metrics recorded %v transitions, want 0", got)
	}
}

func TestPipelineMetricsHandler(t *testing.T) {
	m := NewPipelineMetrics(nil, nil)
	if m.Handler() == nil {
		t.Fatal("Handler() should not be nil")
	}
	if m.Registry() == nil {
		t.Fatal("Registry() should not be nil")
	}
}
