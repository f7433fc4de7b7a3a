// Package metrics records the outcome of a gate run as Prometheus metrics.
// The gate exits or execs right after a run, so metrics are written once to a
// node-exporter textfile instead of being served.
//
// Key components:
//   - Metrics: Holds the gate's gauges on its own registry.
//   - Record: Sets the gauges from a types.Result.
//   - WriteTextfile: Atomically writes the registry in text exposition format.
//
// Usage example:
//
//	m, _ := metrics.New()
//	m.Record(result, time.Now())
//	if err := m.WriteTextfile("/share/esphome_gate.prom"); err != nil {
//	    logrus.WithError(err).Warn("Failed to write metrics")
//	}
package metrics
