package models

import (
	"time"

	"github.com/aera-platform/riskengine/pkg/constants"
)

// AuditRecord is one append-only row in the model audit log, written per
// pipeline stage per run. Records are immutable once written.
type AuditRecord struct {
	RunID            string                `json:"run_id"`
	ModelName        string                `json:"model_name"`
	ModelVersion     string                `json:"model_version"`
	Stage            constants.Stage       `json:"stage"`
	Status           constants.StageStatus `json:"status"`
	StartedAt        time.Time             `json:"started_at"`
	FinishedAt       time.Time             `json:"finished_at"`
	DurationMS       int64                 `json:"duration_ms"`
	ProcessedRecords int                   `json:"processed_records"`
	FeatureSet       StringList            `json:"feature_set"`
	Metrics          JSONMap               `json:"metrics"`
	ErrorMessage     *string               `json:"error_message"`
	InitiatedBy      string                `json:"initiated_by"`
}

// NewAuditRecord builds a stage record with the identity fields and the
// published feature set filled in. StartedAt is the run start, not the
// stage start; duration is measured from there. That matches the layout of
// the rows every existing dashboard reads.
func NewAuditRecord(runID, modelVersion string, stage constants.Stage, status constants.StageStatus, startedAt time.Time) *AuditRecord {
	finished := time.Now().UTC()
	return &AuditRecord{
		RunID:        runID,
		ModelName:    constants.ModelName,
		ModelVersion: modelVersion,
		Stage:        stage,
		Status:       status,
		StartedAt:    startedAt,
		FinishedAt:   finished,
		DurationMS:   finished.Sub(startedAt).Milliseconds(),
		FeatureSet:   append(StringList{}, constants.FeatureSet...),
		Metrics:      JSONMap{},
		InitiatedBy:  constants.InitiatedBy,
	}
}

// WithProcessed sets the processed-record count.
func (a *AuditRecord) WithProcessed(n int) *AuditRecord {
	a.ProcessedRecords = n
	return a
}

// WithMetrics merges stage metrics into the record.
func (a *AuditRecord) WithMetrics(metrics JSONMap) *AuditRecord {
	for k, v := range metrics {
		a.Metrics[k] = v
	}
	return a
}

// WithError sets the error message for failed stages.
func (a *AuditRecord) WithError(err error) *AuditRecord {
	if err != nil {
		msg := err.Error()
		a.ErrorMessage = &msg
	}
	return a
}
