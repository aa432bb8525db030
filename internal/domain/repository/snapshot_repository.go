package repository

import (
	"context"
	"time"

	"github.com/aera-platform/riskengine/internal/domain/models"
)

// SnapshotRepository reads prior region snapshots for the drift baseline
// and upserts the current run's snapshots.
type SnapshotRepository interface {
	// ListByDate returns every snapshot dated exactly on the given day.
	ListByDate(ctx context.Context, date time.Time) ([]*models.RegionSnapshot, error)

	// UpsertBatch writes snapshots with merge-on-conflict semantics keyed
	// by (snapshot_date, county_id, state_id, organization_id).
	UpsertBatch(ctx context.Context, snapshots []*models.RegionSnapshot) error
}
