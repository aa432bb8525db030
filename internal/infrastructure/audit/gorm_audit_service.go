// Package audit implements the AuditService sinks: the append-only GORM
// log table and the optional Kafka mirror.
package audit

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/aera-platform/riskengine/internal/domain/models"
	"github.com/aera-platform/riskengine/internal/domain/service"
	"github.com/aera-platform/riskengine/pkg/errors"
)

// auditRecordDBM is the database model for model_audit_log. The table is
// append-only; rows are never updated or deleted.
type auditRecordDBM struct {
	RunID            string
	ModelName        string
	ModelVersion     string
	Stage            string
	Status           string
	StartedAt        time.Time
	FinishedAt       time.Time
	DurationMS       int64 `gorm:"column:duration_ms"`
	ProcessedRecords int
	FeatureSet       models.StringList `gorm:"type:jsonb"`
	Metrics          models.JSONMap    `gorm:"type:jsonb"`
	ErrorMessage     *string
	InitiatedBy      string
}

func (auditRecordDBM) TableName() string {
	return "model_audit_log"
}

func auditFromDomain(r *models.AuditRecord) *auditRecordDBM {
	return &auditRecordDBM{
		RunID:            r.RunID,
		ModelName:        r.ModelName,
		ModelVersion:     r.ModelVersion,
		Stage:            string(r.Stage),
		Status:           string(r.Status),
		StartedAt:        r.StartedAt,
		FinishedAt:       r.FinishedAt,
		DurationMS:       r.DurationMS,
		ProcessedRecords: r.ProcessedRecords,
		FeatureSet:       r.FeatureSet,
		Metrics:          r.Metrics,
		ErrorMessage:     r.ErrorMessage,
		InitiatedBy:      r.InitiatedBy,
	}
}

// GormAuditService is the GORM-backed implementation of AuditService. It is
// the authoritative sink; a failed write here fails the stage.
type GormAuditService struct {
	db *gorm.DB
}

// NewGormAuditService creates a GormAuditService.
func NewGormAuditService(db *gorm.DB) service.AuditService {
	return &GormAuditService{db: db}
}

// Record appends one audit row.
func (s *GormAuditService) Record(ctx context.Context, record *models.AuditRecord) error {
	if err := s.db.WithContext(ctx).Create(auditFromDomain(record)).Error; err != nil {
		return errors.NewUpstreamIOError("failed to append audit record", err)
	}
	return nil
}
