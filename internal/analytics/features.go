// Package analytics implements the pipeline's model stages: feature
// standardization, k-means clustering, DBSCAN density clustering, isolation
// forest outlier scoring, and drift classification. Everything here is pure
// and deterministic under the fixed model seed; models are fitted fresh on
// the full population each run and never persisted.
package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/aera-platform/riskengine/internal/domain/models"
)

// featureCount is the width of the feature matrix: risk_score,
// household_size, and the six 0/1 factor columns.
const featureCount = 8

// FeatureMatrix projects profiles onto the numeric feature space used by
// all three models. Column order is fixed; row order follows the input.
// The matrix is ephemeral and never persisted.
func FeatureMatrix(profiles []*models.VulnerabilityProfile) [][]float64 {
	rows := make([][]float64, len(profiles))
	for i, p := range profiles {
		rows[i] = []float64{
			p.RiskScore,
			p.EffectiveHouseholdSize(),
			boolToFloat(p.HasMedicationDependency()),
			boolToFloat(p.HasInsulinDependency()),
			boolToFloat(p.HasOxygenPoweredDevice()),
			boolToFloat(p.HasMobilityLimitation()),
			boolToFloat(p.HasTransportationAccess()),
			boolToFloat(p.HasFinancialStrain()),
		}
	}
	return rows
}

// Standardize z-scores every column independently using the population
// standard deviation. Zero-variance columns are emitted as all zeros, so a
// constant feature can never divide by zero. Row order is preserved.
func Standardize(matrix [][]float64) [][]float64 {
	n := len(matrix)
	if n == 0 {
		return nil
	}

	cols := len(matrix[0])
	means := make([]float64, cols)
	stds := make([]float64, cols)

	column := make([]float64, n)
	for j := 0; j < cols; j++ {
		for i := range matrix {
			column[i] = matrix[i][j]
		}
		means[j] = stat.Mean(column, nil)
		stds[j] = popStdDev(column, means[j])
	}

	scaled := make([][]float64, n)
	for i := range matrix {
		row := make([]float64, cols)
		for j := range row {
			if stds[j] == 0 {
				row[j] = 0
				continue
			}
			row[j] = (matrix[i][j] - means[j]) / stds[j]
		}
		scaled[i] = row
	}
	return scaled
}

// popStdDev is the population (not sample) standard deviation.
func popStdDev(xs []float64, mean float64) float64 {
	var sum float64
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
