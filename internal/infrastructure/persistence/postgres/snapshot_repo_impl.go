package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aera-platform/riskengine/internal/domain/models"
	"github.com/aera-platform/riskengine/internal/domain/repository"
	"github.com/aera-platform/riskengine/pkg/constants"
	"github.com/aera-platform/riskengine/pkg/errors"
)

// regionSnapshotDBM is the database model for region_snapshots. The four
// natural-key columns share a unique index so re-running a date merges
// instead of duplicating.
type regionSnapshotDBM struct {
	SnapshotDate       time.Time `gorm:"uniqueIndex:idx_region_snapshots_natural"`
	CountyID           string    `gorm:"uniqueIndex:idx_region_snapshots_natural"`
	StateID            string    `gorm:"uniqueIndex:idx_region_snapshots_natural"`
	OrganizationID     string    `gorm:"uniqueIndex:idx_region_snapshots_natural"`
	SnapshotWindowDays int
	ProfileCount       int
	AvgRiskScore       float64
	MaxRiskScore       float64
	MinRiskScore       float64
	RiskGrowthPct      float64
	DriftValue         float64
	DriftStatus        string
	KmeansCluster      *int
	DbscanCluster      *int
	AnomalyCount       int
	Projection14d      float64 `gorm:"column:projection_14d"`
	ModelVersion       string
	PipelineRunID      string
	Metadata           models.JSONMap `gorm:"type:jsonb"`
}

func (regionSnapshotDBM) TableName() string {
	return "region_snapshots"
}

func (dbm *regionSnapshotDBM) toDomain() *models.RegionSnapshot {
	return &models.RegionSnapshot{
		SnapshotDate:       dbm.SnapshotDate,
		SnapshotWindowDays: dbm.SnapshotWindowDays,
		OrganizationID:     dbm.OrganizationID,
		CountyID:           dbm.CountyID,
		StateID:            dbm.StateID,
		ProfileCount:       dbm.ProfileCount,
		AvgRiskScore:       dbm.AvgRiskScore,
		MaxRiskScore:       dbm.MaxRiskScore,
		MinRiskScore:       dbm.MinRiskScore,
		RiskGrowthPct:      dbm.RiskGrowthPct,
		DriftValue:         dbm.DriftValue,
		DriftStatus:        constants.DriftStatus(dbm.DriftStatus),
		KMeansCluster:      dbm.KmeansCluster,
		DBSCANCluster:      dbm.DbscanCluster,
		AnomalyCount:       dbm.AnomalyCount,
		Projection14D:      dbm.Projection14d,
		ModelVersion:       dbm.ModelVersion,
		PipelineRunID:      dbm.PipelineRunID,
		Metadata:           dbm.Metadata,
	}
}

func snapshotFromDomain(s *models.RegionSnapshot) *regionSnapshotDBM {
	return &regionSnapshotDBM{
		SnapshotDate:       s.SnapshotDate,
		SnapshotWindowDays: s.SnapshotWindowDays,
		OrganizationID:     s.OrganizationID,
		CountyID:           s.CountyID,
		StateID:            s.StateID,
		ProfileCount:       s.ProfileCount,
		AvgRiskScore:       s.AvgRiskScore,
		MaxRiskScore:       s.MaxRiskScore,
		MinRiskScore:       s.MinRiskScore,
		RiskGrowthPct:      s.RiskGrowthPct,
		DriftValue:         s.DriftValue,
		DriftStatus:        string(s.DriftStatus),
		KmeansCluster:      s.KMeansCluster,
		DbscanCluster:      s.DBSCANCluster,
		AnomalyCount:       s.AnomalyCount,
		Projection14d:      s.Projection14D,
		ModelVersion:       s.ModelVersion,
		PipelineRunID:      s.PipelineRunID,
		Metadata:           s.Metadata,
	}
}

// SnapshotRepositoryImpl is the GORM implementation of SnapshotRepository.
type SnapshotRepositoryImpl struct {
	db *gorm.DB
}

// NewSnapshotRepository creates a SnapshotRepository backed by the record store.
func NewSnapshotRepository(db *gorm.DB) repository.SnapshotRepository {
	return &SnapshotRepositoryImpl{db: db}
}

// ListByDate returns every snapshot dated exactly on the given day.
func (r *SnapshotRepositoryImpl) ListByDate(ctx context.Context, date time.Time) ([]*models.RegionSnapshot, error) {
	var dbms []regionSnapshotDBM
	if err := r.db.WithContext(ctx).Where("snapshot_date = ?", date).Find(&dbms).Error; err != nil {
		return nil, errors.NewUpstreamIOError("failed to load prior region snapshots", err)
	}

	snapshots := make([]*models.RegionSnapshot, len(dbms))
	for i := range dbms {
		snapshots[i] = dbms[i].toDomain()
	}
	return snapshots, nil
}

// UpsertBatch writes the run's snapshots with merge-on-conflict semantics
// on the natural key. Existing rows for the same key are replaced.
func (r *SnapshotRepositoryImpl) UpsertBatch(ctx context.Context, snapshots []*models.RegionSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	dbms := make([]*regionSnapshotDBM, len(snapshots))
	for i, s := range snapshots {
		dbms[i] = snapshotFromDomain(s)
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "snapshot_date"},
			{Name: "county_id"},
			{Name: "state_id"},
			{Name: "organization_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"snapshot_window_days",
			"profile_count",
			"avg_risk_score",
			"max_risk_score",
			"min_risk_score",
			"risk_growth_pct",
			"drift_value",
			"drift_status",
			"kmeans_cluster",
			"dbscan_cluster",
			"anomaly_count",
			"projection_14d",
			"model_version",
			"pipeline_run_id",
			"metadata",
		}),
	}).Create(dbms).Error
	if err != nil {
		return errors.NewUpstreamIOError("failed to upsert region snapshots", err)
	}
	return nil
}
