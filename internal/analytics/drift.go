package analytics

import (
	"github.com/aera-platform/riskengine/pkg/constants"
	"github.com/aera-platform/riskengine/pkg/utils"
)

// Drift is the fractional change of a region's average risk versus its
// 30-day-prior baseline, rounded to 4 decimals. Without a baseline, or
// with a zero baseline average, drift is exactly 0.
func Drift(avgRisk, prevAvg float64) float64 {
	if prevAvg == 0 {
		return 0
	}
	return utils.Round4((avgRisk - prevAvg) / prevAvg)
}

// ClassifyDrift maps a drift value onto its status tier. Thresholds are
// strict: a drift of exactly 0.25 or 0.15 falls to the lower tier.
func ClassifyDrift(drift float64) constants.DriftStatus {
	if drift > constants.DriftAcceleratingThreshold {
		return constants.DriftStatusAccelerating
	}
	if drift > constants.DriftEscalatingThreshold {
		return constants.DriftStatusEscalating
	}
	return constants.DriftStatusStable
}

// Project14D projects the region average two weeks forward, damping the
// observed drift by half.
func Project14D(avgRisk, drift float64) float64 {
	return utils.Round4(avgRisk * (1 + drift*constants.ProjectionDriftWeight))
}
