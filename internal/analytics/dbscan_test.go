package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aera-platform/riskengine/internal/analytics"
	"github.com/aera-platform/riskengine/pkg/constants"
)

func TestMinSamples(t *testing.T) {
	cases := []struct {
		n    int
		want int
	}{
		{1, 3},
		{59, 3},  // floor(59/20) = 2, floored to 3
		{60, 3},
		{100, 5},
		{160, 8},
		{500, 8}, // floor(500/20) = 25, capped at 8
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, analytics.MinSamples(tc.n), "n=%d", tc.n)
	}
}

func TestDBSCAN_DenseClusterAndNoise(t *testing.T) {
	var data [][]float64
	for i := 0; i < 12; i++ {
		data = append(data, []float64{float64(i) * 0.05, 0})
	}
	data = append(data, []float64{100, 100}) // unreachable from the chain

	labels := analytics.NewDBSCAN(constants.DBSCANEps, analytics.MinSamples(len(data))).FitPredict(data)
	require.Len(t, labels, 13)

	for i := 0; i < 12; i++ {
		assert.Equal(t, 0, labels[i])
	}
	assert.Equal(t, analytics.NoiseLabel, labels[12])
}

func TestDBSCAN_UniformPopulationSingleCluster(t *testing.T) {
	data := make([][]float64, 50)
	for i := range data {
		data[i] = []float64{0, 0, 0}
	}

	labels := analytics.NewDBSCAN(constants.DBSCANEps, analytics.MinSamples(len(data))).FitPredict(data)

	for _, l := range labels {
		assert.Equal(t, 0, l)
	}
}

func TestDBSCAN_TwoSeparatedClusters(t *testing.T) {
	var data [][]float64
	for i := 0; i < 6; i++ {
		data = append(data, []float64{float64(i) * 0.1})
	}
	for i := 0; i < 6; i++ {
		data = append(data, []float64{50 + float64(i)*0.1})
	}

	labels := analytics.NewDBSCAN(1.25, 3).FitPredict(data)

	assert.Equal(t, 0, labels[0])
	assert.Equal(t, 1, labels[6])
	for i := 1; i < 6; i++ {
		assert.Equal(t, labels[0], labels[i])
		assert.Equal(t, labels[6], labels[6+i])
	}
}

func TestDBSCAN_AllNoiseWhenSparse(t *testing.T) {
	data := [][]float64{{0}, {10}, {20}, {30}}

	labels := analytics.NewDBSCAN(1.25, 3).FitPredict(data)
	for _, l := range labels {
		assert.Equal(t, analytics.NoiseLabel, l)
	}
}
