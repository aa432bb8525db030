package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aera-platform/riskengine/internal/analytics"
	"github.com/aera-platform/riskengine/pkg/constants"
)

func TestClassifyDrift(t *testing.T) {
	cases := []struct {
		drift float64
		want  constants.DriftStatus
	}{
		{0.30, constants.DriftStatusAccelerating},
		{0.26, constants.DriftStatusAccelerating},
		{0.25, constants.DriftStatusEscalating}, // boundary falls down
		{0.20, constants.DriftStatusEscalating},
		{0.15, constants.DriftStatusStable}, // boundary falls down
		{0.10, constants.DriftStatusStable},
		{0, constants.DriftStatusStable},
		{-0.40, constants.DriftStatusStable},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, analytics.ClassifyDrift(tc.drift), "drift=%v", tc.drift)
	}
}

func TestDrift_ZeroBaseline(t *testing.T) {
	assert.Zero(t, analytics.Drift(3.2, 0))
}

func TestDrift_Rounding(t *testing.T) {
	assert.Equal(t, 0.5, analytics.Drift(3.0, 2.0))
	assert.Equal(t, -0.25, analytics.Drift(1.5, 2.0))
	assert.Equal(t, 0.3333, analytics.Drift(4.0, 3.0))
}

func TestProject14D(t *testing.T) {
	assert.Equal(t, 2.2, analytics.Project14D(2.0, 0.2))
	// Zero drift projects the current average unchanged.
	assert.Equal(t, 3.1, analytics.Project14D(3.1, 0))
	assert.Equal(t, 1.8, analytics.Project14D(2.0, -0.2))
}
