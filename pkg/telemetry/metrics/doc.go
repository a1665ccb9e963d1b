// Package metrics provides Prometheus metrics for the claims pipeline.
//
// Metrics cover stage transitions, terminal outcomes, advisory evaluation
// and ledger append latencies, governance rejections by reason, and
// detected policy mutation attempts. All metrics share a configurable
// namespace/subsystem prefix and register against a caller-supplied
// registry so tests stay isolated.
package metrics
