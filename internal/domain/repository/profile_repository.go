package repository

import (
	"context"

	"github.com/aera-platform/riskengine/internal/domain/models"
)

// ProfileRepository reads the full population of vulnerability profiles and
// writes back recalculated risk scores.
type ProfileRepository interface {
	// ListAll returns the current population. Order is the store's natural
	// order; the pipeline preserves it through every stage.
	ListAll(ctx context.Context) ([]*models.VulnerabilityProfile, error)

	// UpdateRiskScores upserts risk_score per profile id. No other field
	// is touched.
	UpdateRiskScores(ctx context.Context, profiles []*models.VulnerabilityProfile) error
}
