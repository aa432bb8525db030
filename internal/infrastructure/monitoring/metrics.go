package monitoring

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/aera-platform/riskengine/internal/config"
	"github.com/aera-platform/riskengine/pkg/constants"
	"github.com/aera-platform/riskengine/pkg/logger"
)

// PipelineMetrics collects per-stage and per-run metrics on a private
// registry and pushes them to the Pushgateway once, at the end of the run.
// A batch job has no scrape surface, so push is the only export path.
type PipelineMetrics struct {
	registry *prometheus.Registry

	StageDuration  *prometheus.GaugeVec
	StageProcessed *prometheus.GaugeVec
	RunDuration    prometheus.Gauge
	RunProcessed   prometheus.Gauge
	RunSnapshots   prometheus.Gauge
	RunsTotal      *prometheus.CounterVec

	gatewayURL string
	jobName    string
	logger     logger.Logger
}

// NewPipelineMetrics creates and registers the pipeline metrics. An empty
// Pushgateway URL disables the final push; the metrics are still collected.
func NewPipelineMetrics(cfg *config.MetricsConfig, log logger.Logger) *PipelineMetrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &PipelineMetrics{
		registry: registry,
		StageDuration: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "aera_pipeline_stage_duration_seconds",
				Help: "Wall-clock duration of the last completed pipeline stage.",
			},
			[]string{"stage"},
		),
		StageProcessed: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "aera_pipeline_stage_processed_records",
				Help: "Records processed by the last completed pipeline stage.",
			},
			[]string{"stage"},
		),
		RunDuration: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "aera_pipeline_run_duration_seconds",
				Help: "Wall-clock duration of the last pipeline run.",
			},
		),
		RunProcessed: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "aera_pipeline_run_processed_records",
				Help: "Profiles processed by the last pipeline run.",
			},
		),
		RunSnapshots: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "aera_pipeline_run_snapshot_rows",
				Help: "Region snapshot rows written by the last pipeline run.",
			},
		),
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aera_pipeline_runs_total",
				Help: "Total pipeline runs by terminal status.",
			},
			[]string{"status"},
		),
		gatewayURL: cfg.PushgatewayURL,
		jobName:    cfg.JobName,
		logger:     log.WithComponent("metrics"),
	}
}

// ObserveStage records one completed stage.
func (m *PipelineMetrics) ObserveStage(stage constants.Stage, duration time.Duration, processed int) {
	m.StageDuration.WithLabelValues(string(stage)).Set(duration.Seconds())
	m.StageProcessed.WithLabelValues(string(stage)).Set(float64(processed))
}

// ObserveRun records the terminal outcome of a run.
func (m *PipelineMetrics) ObserveRun(status constants.StageStatus, processed, snapshots int, duration time.Duration) {
	m.RunDuration.Set(duration.Seconds())
	m.RunProcessed.Set(float64(processed))
	m.RunSnapshots.Set(float64(snapshots))
	m.RunsTotal.WithLabelValues(string(status)).Inc()
}

// Push delivers the collected metrics to the Pushgateway. Failures are
// logged and swallowed; metrics delivery never fails a run that already
// committed its writes.
func (m *PipelineMetrics) Push(ctx context.Context) {
	if m.gatewayURL == "" {
		return
	}
	err := push.New(m.gatewayURL, m.jobName).
		Gatherer(m.registry).
		Push()
	if err != nil {
		m.logger.Warn(ctx, "metrics push failed", logger.Fields{
			"gateway": m.gatewayURL,
			"error":   err.Error(),
		})
	}
}
