// Package application orchestrates the nightly risk pipeline: scoring,
// model fitting, region aggregation, and the stage-level audit trail.
package application

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gonum.org/v1/gonum/stat"

	"github.com/aera-platform/riskengine/internal/analytics"
	"github.com/aera-platform/riskengine/internal/domain/models"
	"github.com/aera-platform/riskengine/internal/domain/repository"
	"github.com/aera-platform/riskengine/internal/domain/service"
	"github.com/aera-platform/riskengine/pkg/constants"
	"github.com/aera-platform/riskengine/pkg/logger"
	"github.com/aera-platform/riskengine/pkg/utils"
)

// StageObserver receives stage outcomes for batch metrics. Implementations
// must be cheap; they are called on the hot path between stages.
type StageObserver interface {
	ObserveStage(stage constants.Stage, duration time.Duration, processed int)
	ObserveRun(status constants.StageStatus, processed, snapshots int, duration time.Duration)
}

// RunSummary is the terminal result of a successful pipeline invocation.
type RunSummary struct {
	RunID         string
	ProfileCount  int
	SnapshotCount int
}

// PipelineService runs the Level 3 nightly pipeline end to end. Stages
// execute strictly in order, single-threaded, each consuming the full
// output of the previous stage. A failed external call aborts the rest of
// the run; there are no retries and no rollback of writes already
// committed.
type PipelineService struct {
	profiles     repository.ProfileRepository
	snapshots    repository.SnapshotRepository
	audit        service.AuditService
	calculator   *service.RiskCalculator
	aggregator   *RegionAggregator
	observer     StageObserver
	log          logger.Logger
	tracer       trace.Tracer
	modelVersion string
	now          func() time.Time
}

// NewPipelineService wires the pipeline. observer may be nil when metrics
// are disabled.
func NewPipelineService(
	profiles repository.ProfileRepository,
	snapshots repository.SnapshotRepository,
	audit service.AuditService,
	observer StageObserver,
	log logger.Logger,
	modelVersion string,
) *PipelineService {
	return &PipelineService{
		profiles:     profiles,
		snapshots:    snapshots,
		audit:        audit,
		calculator:   service.NewRiskCalculator(),
		aggregator:   NewRegionAggregator(),
		observer:     observer,
		log:          log.WithComponent("pipeline"),
		tracer:       otel.Tracer("riskengine/application"),
		modelVersion: modelVersion,
		now:          time.Now,
	}
}

// Run executes one full pass over the current population. On failure it
// attempts a single best-effort FAILED audit write (which may itself fail
// silently) before surfacing the original error.
func (s *PipelineService) Run(ctx context.Context) (*RunSummary, error) {
	run := NewRunContext(s.modelVersion, s.now())
	ctx = context.WithValue(ctx, constants.ContextKeyRunID, run.ID)

	ctx, span := s.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(attribute.String("run_id", run.ID)))
	defer span.End()

	log := s.log.WithFields(logger.Fields{"run_id": run.ID})
	log.Info(ctx, "pipeline run starting", logger.Fields{"model_version": run.ModelVersion})

	summary, err := s.execute(ctx, run, log)
	if err != nil {
		span.RecordError(err)
		s.recordFailure(ctx, run, err, log)
		if s.observer != nil {
			s.observer.ObserveRun(constants.StageStatusFailed, 0, 0, time.Since(run.StartedAt))
		}
		return nil, err
	}

	if s.observer != nil {
		s.observer.ObserveRun(constants.StageStatusSuccess, summary.ProfileCount, summary.SnapshotCount, time.Since(run.StartedAt))
	}
	log.Info(ctx, "pipeline run completed", logger.Fields{
		"profiles":  summary.ProfileCount,
		"snapshots": summary.SnapshotCount,
	})
	return summary, nil
}

func (s *PipelineService) execute(ctx context.Context, run *RunContext, log logger.Logger) (*RunSummary, error) {
	profiles, err := s.profiles.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	// An empty population is not an error: the run succeeds with zero
	// processed records and writes no snapshots.
	if len(profiles) == 0 {
		log.Info(ctx, "population is empty, nothing to process")
		record := models.NewAuditRecord(run.ID, run.ModelVersion, constants.StagePipeline, constants.StageStatusSuccess, run.StartedAt).
			WithMetrics(models.JSONMap{"message": "no records"})
		if err := s.audit.Record(ctx, record); err != nil {
			return nil, err
		}
		return &RunSummary{RunID: run.ID}, nil
	}

	n := len(profiles)

	// Stage 1: recalculate and write back risk scores.
	if err := s.stageRiskScore(ctx, run, profiles); err != nil {
		return nil, err
	}

	// Stages 2-4: fit fresh models on the standardized feature matrix.
	// The three models are independent consumers of the same matrix.
	scaled := analytics.Standardize(analytics.FeatureMatrix(profiles))

	kmeansLabels, err := s.stageKMeans(ctx, run, scaled)
	if err != nil {
		return nil, err
	}

	dbscanLabels, err := s.stageDBSCAN(ctx, run, scaled)
	if err != nil {
		return nil, err
	}

	outlierFlags, err := s.stageIsolationForest(ctx, run, scaled)
	if err != nil {
		return nil, err
	}

	// Stage 5: region aggregation, drift, and snapshot upsert.
	snapshotCount, err := s.stageDrift(ctx, run, AggregateInput{
		Profiles:     profiles,
		KMeansLabels: kmeansLabels,
		DBSCANLabels: dbscanLabels,
		OutlierFlags: outlierFlags,
	})
	if err != nil {
		return nil, err
	}

	record := models.NewAuditRecord(run.ID, run.ModelVersion, constants.StagePipeline, constants.StageStatusSuccess, run.StartedAt).
		WithProcessed(n).
		WithMetrics(models.JSONMap{"run_id": run.ID})
	if err := s.audit.Record(ctx, record); err != nil {
		return nil, err
	}

	return &RunSummary{RunID: run.ID, ProfileCount: n, SnapshotCount: snapshotCount}, nil
}

func (s *PipelineService) stageRiskScore(ctx context.Context, run *RunContext, profiles []*models.VulnerabilityProfile) error {
	ctx, span := s.tracer.Start(ctx, "stage.risk_score")
	defer span.End()
	started := s.now()

	scores := make([]float64, len(profiles))
	for i, p := range profiles {
		p.RiskScore = s.calculator.Score(p)
		scores[i] = p.RiskScore
	}

	if err := s.profiles.UpdateRiskScores(ctx, profiles); err != nil {
		return err
	}

	meanRisk := utils.Round4(stat.Mean(scores, nil))
	return s.recordStage(ctx, run, constants.StageRiskScore, len(profiles),
		models.JSONMap{"mean_risk": meanRisk}, started)
}

func (s *PipelineService) stageKMeans(ctx context.Context, run *RunContext, scaled [][]float64) ([]int, error) {
	ctx, span := s.tracer.Start(ctx, "stage.kmeans")
	defer span.End()
	started := s.now()

	k := analytics.ClusterCount(len(scaled))
	labels := analytics.NewKMeans(k, constants.ModelSeed).FitPredict(scaled)

	err := s.recordStage(ctx, run, constants.StageKMeans, len(scaled),
		models.JSONMap{"clusters": k}, started)
	if err != nil {
		return nil, err
	}
	return labels, nil
}

func (s *PipelineService) stageDBSCAN(ctx context.Context, run *RunContext, scaled [][]float64) ([]int, error) {
	ctx, span := s.tracer.Start(ctx, "stage.dbscan")
	defer span.End()
	started := s.now()

	minSamples := analytics.MinSamples(len(scaled))
	labels := analytics.NewDBSCAN(constants.DBSCANEps, minSamples).FitPredict(scaled)

	noise := 0
	for _, l := range labels {
		if l == analytics.NoiseLabel {
			noise++
		}
	}

	err := s.recordStage(ctx, run, constants.StageDBSCAN, len(scaled),
		models.JSONMap{"noise_points": noise}, started)
	if err != nil {
		return nil, err
	}
	return labels, nil
}

func (s *PipelineService) stageIsolationForest(ctx context.Context, run *RunContext, scaled [][]float64) ([]bool, error) {
	ctx, span := s.tracer.Start(ctx, "stage.isolation_forest")
	defer span.End()
	started := s.now()

	forest := analytics.NewIsolationForest(
		constants.IsolationForestTrees,
		constants.IsolationForestSubsample,
		constants.IsolationForestContamination,
		constants.ModelSeed,
	)
	flags := forest.FitPredict(scaled)

	outliers := 0
	for _, f := range flags {
		if f {
			outliers++
		}
	}

	err := s.recordStage(ctx, run, constants.StageIsolationForest, len(scaled),
		models.JSONMap{"outliers": outliers}, started)
	if err != nil {
		return nil, err
	}
	return flags, nil
}

func (s *PipelineService) stageDrift(ctx context.Context, run *RunContext, in AggregateInput) (int, error) {
	ctx, span := s.tracer.Start(ctx, "stage.drift")
	defer span.End()
	started := s.now()

	baselineDate := run.BaselineDate(constants.SnapshotWindowDays)
	prior, err := s.snapshots.ListByDate(ctx, baselineDate)
	if err != nil {
		return 0, err
	}

	in.Baseline = make(map[models.RegionKey]float64, len(prior))
	for _, snap := range prior {
		in.Baseline[snap.BaselineKey()] = snap.AvgRiskScore
	}

	snapshots := s.aggregator.BuildSnapshots(run, in)
	if err := s.snapshots.UpsertBatch(ctx, snapshots); err != nil {
		return 0, err
	}

	err = s.recordStage(ctx, run, constants.StageDrift, len(snapshots),
		models.JSONMap{"snapshot_rows": len(snapshots)}, started)
	if err != nil {
		return 0, err
	}
	return len(snapshots), nil
}

// recordStage appends one SUCCESS audit row for a completed stage and
// reports it to the metrics observer.
func (s *PipelineService) recordStage(ctx context.Context, run *RunContext, stage constants.Stage, processed int, metrics models.JSONMap, started time.Time) error {
	record := models.NewAuditRecord(run.ID, run.ModelVersion, stage, constants.StageStatusSuccess, run.StartedAt).
		WithProcessed(processed).
		WithMetrics(metrics)
	if err := s.audit.Record(ctx, record); err != nil {
		return err
	}
	if s.observer != nil {
		s.observer.ObserveStage(stage, time.Since(started), processed)
	}
	return nil
}

// recordFailure makes one best-effort attempt to land a FAILED audit row.
// Its own failure is logged and swallowed so it cannot mask the original
// error.
func (s *PipelineService) recordFailure(ctx context.Context, run *RunContext, cause error, log logger.Logger) {
	record := models.NewAuditRecord(run.ID, run.ModelVersion, constants.StagePipeline, constants.StageStatusFailed, run.StartedAt).
		WithError(cause)
	if err := s.audit.Record(ctx, record); err != nil {
		log.Error(ctx, "failed to record pipeline failure", err)
	}
	log.Error(ctx, "pipeline run failed", cause)
}
