package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

var (
	// errRegisterFailed indicates a collector could not be registered.
	errRegisterFailed = errors.New("failed to register metric")
	// errWriteTextfileFailed indicates the textfile could not be written.
	errWriteTextfileFailed = errors.New("failed to write metrics textfile")
)

// Metrics holds the gauges describing one gate run.
type Metrics struct {
	gatherer      prometheus.Gatherer
	passed        prometheus.Gauge     // 1 if every fatal check passed.
	stageDuration *prometheus.GaugeVec // Seconds spent per stage.
	stagePassed   *prometheus.GaugeVec // 1 per passed stage, 0 for the aborting one.
	abort         *prometheus.GaugeVec // 1 for the failure kind that aborted the run.
	version       *prometheus.GaugeVec // 1 for the detected ESPHome version.
	lastRun       prometheus.Gauge     // Unix time of the run.
}

// New creates Metrics on a fresh registry.
func New() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	return NewWithRegistry(registry, registry)
}

// NewWithRegistry creates Metrics registered on the given registry.
//
// Parameters:
//   - registerer: Registry the collectors are added to.
//   - gatherer: Registry read by WriteTextfile, usually the same one.
//
// Returns:
//   - *Metrics: Metrics handler.
//   - error: Non-nil if registration fails.
func NewWithRegistry(registerer prometheus.Registerer, gatherer prometheus.Gatherer) (*Metrics, error) {
	metrics := &Metrics{
		gatherer: gatherer,
		passed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "esphome_gate_passed",
			Help: "Whether the last gate run passed every fatal check (1) or aborted (0)",
		}),
		stageDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "esphome_gate_stage_duration_seconds",
			Help: "Time spent in each stage during the last gate run",
		}, []string{"stage"}),
		stagePassed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "esphome_gate_stage_passed",
			Help: "Whether each stage executed during the last gate run passed",
		}, []string{"stage"}),
		abort: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "esphome_gate_abort",
			Help: "Failure kind and stage that aborted the last gate run",
		}, []string{"kind", "stage"}),
		version: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "esphome_gate_esphome_version_info",
			Help: "ESPHome version detected in the target container",
		}, []string{"version", "container"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "esphome_gate_last_run_timestamp_seconds",
			Help: "Unix time of the last gate run",
		}),
	}

	collectors := []prometheus.Collector{
		metrics.passed,
		metrics.stageDuration,
		metrics.stagePassed,
		metrics.abort,
		metrics.version,
		metrics.lastRun,
	}
	for _, c := range collectors {
		if err := registerer.Register(c); err != nil {
			return nil, fmt.Errorf("%w: %w", errRegisterFailed, err)
		}
	}

	return metrics, nil
}

// Record sets every gauge from a run's result.
//
// Parameters:
//   - result: Terminal result of the pipeline.
//   - now: Time recorded as the run's timestamp.
func (m *Metrics) Record(result types.Result, now time.Time) {
	m.stageDuration.Reset()
	m.stagePassed.Reset()
	m.abort.Reset()
	m.version.Reset()

	for _, report := range result.Stages {
		stage := string(report.Stage)

		m.stageDuration.WithLabelValues(stage).Set(report.Duration.Seconds())

		if report.State == types.StateAborted {
			m.stagePassed.WithLabelValues(stage).Set(0)
		} else {
			m.stagePassed.WithLabelValues(stage).Set(1)
		}
	}

	if result.Proceed() {
		m.passed.Set(1)
		m.version.WithLabelValues(result.Version, result.Config.ContainerIdentifier).Set(1)
	} else {
		m.passed.Set(0)
		m.abort.WithLabelValues(string(result.Abort.Kind), string(result.Abort.Stage)).Set(1)
	}

	m.lastRun.Set(float64(now.Unix()))
}

// WriteTextfile writes the metrics to path in Prometheus text format.
//
// The file is written to a temporary name and renamed into place, so a
// node-exporter scrape never sees a partial file.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.gatherer); err != nil {
		return fmt.Errorf("%w: %w", errWriteTextfileFailed, err)
	}

	return nil
}
