package service

import (
	"context"

	"github.com/aera-platform/riskengine/internal/domain/models"
)

// AuditService persists stage-level audit records. The log is append-only;
// records are never updated or deleted by the pipeline.
type AuditService interface {
	Record(ctx context.Context, record *models.AuditRecord) error
}
