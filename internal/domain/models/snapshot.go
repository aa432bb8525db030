package models

import (
	"time"

	"github.com/aera-platform/riskengine/pkg/constants"
)

// RegionSnapshot is one aggregated row per (county, state, organization)
// per run. Rows are upserted on the natural key, so re-running a date
// overwrites rather than duplicates.
type RegionSnapshot struct {
	SnapshotDate       time.Time             `json:"snapshot_date"`
	SnapshotWindowDays int                   `json:"snapshot_window_days"`
	OrganizationID     string                `json:"organization_id"`
	CountyID           string                `json:"county_id"`
	StateID            string                `json:"state_id"`
	ProfileCount       int                   `json:"profile_count"`
	AvgRiskScore       float64               `json:"avg_risk_score"`
	MaxRiskScore       float64               `json:"max_risk_score"`
	MinRiskScore       float64               `json:"min_risk_score"`
	RiskGrowthPct      float64               `json:"risk_growth_pct"`
	DriftValue         float64               `json:"drift_value"`
	DriftStatus        constants.DriftStatus `json:"drift_status"`
	KMeansCluster      *int                  `json:"kmeans_cluster"`
	DBSCANCluster      *int                  `json:"dbscan_cluster"`
	AnomalyCount       int                   `json:"anomaly_count"`
	Projection14D      float64               `json:"projection_14d"`
	ModelVersion       string                `json:"model_version"`
	PipelineRunID      string                `json:"pipeline_run_id"`
	Metadata           JSONMap               `json:"metadata"`
}

// RegionKey identifies the (county, state) pair used for the 30-day-prior
// baseline lookup. Organization id is deliberately not part of this key.
type RegionKey struct {
	CountyID string
	StateID  string
}

// BaselineKey returns the drift lookup key for the snapshot's region.
func (s *RegionSnapshot) BaselineKey() RegionKey {
	return RegionKey{CountyID: s.CountyID, StateID: s.StateID}
}
