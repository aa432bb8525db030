// Package service holds the pipeline's domain services: deterministic risk
// scoring and the audit sink contract.
package service

import (
	"math"

	"github.com/aera-platform/riskengine/internal/domain/models"
	"github.com/aera-platform/riskengine/pkg/utils"
)

// Scoring weights. These are the published model coefficients; changing any
// of them is a model version change.
const (
	householdFactor      = 0.4
	householdCap         = 3.2
	medicationWeight     = 1.8
	insulinWeight        = 2.2
	oxygenDeviceWeight   = 2.5
	mobilityWeight       = 1.5
	transportationWeight = 1.2
	financialWeight      = 1.4
)

// RiskCalculator computes the scalar vulnerability risk score for a
// profile. Scores are deterministic: the same attributes always produce
// the same score, independent of batch order.
type RiskCalculator struct{}

// NewRiskCalculator creates a RiskCalculator.
func NewRiskCalculator() *RiskCalculator {
	return &RiskCalculator{}
}

// Score computes the risk score for one profile, rounded to 4 decimal
// places. Absent attributes take their documented defaults before the
// formula runs. The household component is floored at one member and
// capped at 3.2 regardless of household size.
func (c *RiskCalculator) Score(p *models.VulnerabilityProfile) float64 {
	household := math.Min(p.EffectiveHouseholdSize()*householdFactor, householdCap)

	score := household
	if p.HasMedicationDependency() {
		score += medicationWeight
	}
	if p.HasInsulinDependency() {
		score += insulinWeight
	}
	if p.HasOxygenPoweredDevice() {
		score += oxygenDeviceWeight
	}
	if p.HasMobilityLimitation() {
		score += mobilityWeight
	}
	if !p.HasTransportationAccess() {
		score += transportationWeight
	}
	if p.HasFinancialStrain() {
		score += financialWeight
	}

	return utils.Round4(score)
}
