package application

import (
	"time"

	"github.com/google/uuid"
)

// RunContext carries the run-scoped identity threaded explicitly through
// every stage call: one fresh uuid per invocation, the wall-clock start,
// the snapshot date the run publishes under, and the model version it
// stamps on every row.
type RunContext struct {
	ID           string
	StartedAt    time.Time
	SnapshotDate time.Time
	ModelVersion string
}

// NewRunContext creates the run context for a single pipeline invocation.
func NewRunContext(modelVersion string, now time.Time) *RunContext {
	now = now.UTC()
	return &RunContext{
		ID:           uuid.NewString(),
		StartedAt:    now,
		SnapshotDate: truncateToDay(now),
		ModelVersion: modelVersion,
	}
}

// BaselineDate is the prior snapshot date the drift comparison reads,
// exactly the snapshot window before the run date.
func (r *RunContext) BaselineDate(windowDays int) time.Time {
	return r.SnapshotDate.AddDate(0, 0, -windowDays)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
