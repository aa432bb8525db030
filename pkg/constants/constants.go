// Package constants defines system-wide constants for the AERA Level 3 risk pipeline.
// This package provides type-safe constant definitions used across all modules.
package constants

// ================================================================================
// Model Identity Constants
// ================================================================================

const (
	// ModelName identifies the pipeline in audit records and metrics.
	ModelName = "aera-level3"

	// DefaultModelVersion is used when AERA_MODEL_VERSION is not set.
	DefaultModelVersion = "level3-2026.02"

	// InitiatedBy is the actor recorded on audit rows written by this pipeline.
	InitiatedBy = "nightly_pipeline"

	// GeneratedBy tags snapshot metadata with the producing component.
	GeneratedBy = "riskengine-nightly"
)

// ================================================================================
// Pipeline Stage Constants
// ================================================================================

// Stage identifies a pipeline stage in the audit trail.
type Stage string

const (
	StageRiskScore       Stage = "risk_score"
	StageKMeans          Stage = "kmeans"
	StageDBSCAN          Stage = "dbscan"
	StageIsolationForest Stage = "isolation_forest"
	StageDrift           Stage = "drift"
	StagePipeline        Stage = "pipeline"
)

// StageStatus is the terminal status of a stage.
type StageStatus string

const (
	StageStatusSuccess StageStatus = "SUCCESS"
	StageStatusFailed  StageStatus = "FAILED"
)

// ================================================================================
// Drift Classification Constants
// ================================================================================

// DriftStatus classifies a region's 30-day risk drift.
type DriftStatus string

const (
	DriftStatusAccelerating DriftStatus = "ACCELERATING"
	DriftStatusEscalating   DriftStatus = "ESCALATING"
	DriftStatusStable       DriftStatus = "STABLE"
)

const (
	// DriftAcceleratingThreshold is strict: drift must exceed it.
	DriftAcceleratingThreshold = 0.25

	// DriftEscalatingThreshold is strict: drift must exceed it.
	DriftEscalatingThreshold = 0.15
)

// ================================================================================
// Aggregation Constants
// ================================================================================

const (
	// UnknownRegion buckets profiles with a missing county or state id.
	UnknownRegion = "UNKNOWN"

	// SnapshotWindowDays is the baseline lookback for drift comparison.
	SnapshotWindowDays = 30

	// ProjectionHorizonDays is the horizon of the projected risk value.
	ProjectionHorizonDays = 14

	// ProjectionDriftWeight scales drift when projecting forward.
	ProjectionDriftWeight = 0.5
)

// ================================================================================
// Model Parameter Constants
// ================================================================================

const (
	// ModelSeed seeds the k-means and isolation forest RNGs so repeated
	// runs over identical input produce identical assignments.
	ModelSeed int64 = 42

	// KMeansMinClusters and KMeansMaxClusters bound k = round(sqrt(n)).
	KMeansMinClusters = 2
	KMeansMaxClusters = 6

	// DBSCANEps is the neighborhood radius on standardized features.
	DBSCANEps = 1.25

	// DBSCANMinSamplesFloor and DBSCANMinSamplesCeil bound floor(n/20).
	DBSCANMinSamplesFloor = 3
	DBSCANMinSamplesCeil  = 8

	// IsolationForestContamination is the expected anomalous fraction.
	IsolationForestContamination = 0.05

	// IsolationForestTrees is the ensemble size.
	IsolationForestTrees = 100

	// IsolationForestSubsample caps the per-tree sample size.
	IsolationForestSubsample = 256
)

// FeatureSet lists the model features recorded on every audit row. The
// order is part of the published audit contract and must not change.
var FeatureSet = []string{
	"household_size",
	"medication_dependency",
	"insulin_dependency",
	"oxygen_powered_device",
	"mobility_limitation",
	"transportation_access",
	"financial_strain",
	"risk_score",
}

// ================================================================================
// Context Keys
// ================================================================================

// ContextKey is a private type for context values set by this module.
type ContextKey string

const (
	// ContextKeyRunID carries the pipeline run id for log correlation.
	ContextKeyRunID ContextKey = "run_id"
)
