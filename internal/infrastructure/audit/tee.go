package audit

import (
	"context"

	"github.com/aera-platform/riskengine/internal/domain/models"
	"github.com/aera-platform/riskengine/internal/domain/service"
	"github.com/aera-platform/riskengine/pkg/logger"
)

// TeeAuditService writes every record to the primary sink and then mirrors
// it to the secondary. Mirror failures are logged and swallowed; only the
// primary decides whether the write succeeded.
type TeeAuditService struct {
	primary   service.AuditService
	secondary service.AuditService
	logger    logger.Logger
}

// NewTeeAuditService composes a primary sink with a best-effort mirror.
func NewTeeAuditService(primary, secondary service.AuditService, log logger.Logger) service.AuditService {
	return &TeeAuditService{
		primary:   primary,
		secondary: secondary,
		logger:    log.WithComponent("audit_tee"),
	}
}

// Record writes to the primary, then mirrors.
func (s *TeeAuditService) Record(ctx context.Context, record *models.AuditRecord) error {
	if err := s.primary.Record(ctx, record); err != nil {
		return err
	}
	if err := s.secondary.Record(ctx, record); err != nil {
		s.logger.Warn(ctx, "audit mirror write failed", logger.Fields{
			"run_id": record.RunID,
			"stage":  string(record.Stage),
			"error":  err.Error(),
		})
	}
	return nil
}
