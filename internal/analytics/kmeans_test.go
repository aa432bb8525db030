package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aera-platform/riskengine/internal/analytics"
	"github.com/aera-platform/riskengine/pkg/constants"
)

func TestClusterCount(t *testing.T) {
	cases := []struct {
		n    int
		want int
	}{
		{1, 2},
		{4, 2},
		{10, 3},
		{20, 4},
		{36, 6},
		{50, 6},   // round(sqrt(50)) = 7, clamped to 6
		{5000, 6},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, analytics.ClusterCount(tc.n), "n=%d", tc.n)
	}
}

func TestKMeans_SeparatesDistantBlobs(t *testing.T) {
	var data [][]float64
	for i := 0; i < 10; i++ {
		data = append(data, []float64{float64(i) * 0.01, 0})
	}
	for i := 0; i < 10; i++ {
		data = append(data, []float64{100 + float64(i)*0.01, 0})
	}

	labels := analytics.NewKMeans(2, constants.ModelSeed).FitPredict(data)
	require.Len(t, labels, 20)

	for _, l := range labels {
		assert.GreaterOrEqual(t, l, 0)
		assert.Less(t, l, 2)
	}

	// Each blob lands in a single cluster, and the two blobs differ.
	for i := 1; i < 10; i++ {
		assert.Equal(t, labels[0], labels[i])
		assert.Equal(t, labels[10], labels[10+i])
	}
	assert.NotEqual(t, labels[0], labels[10])
}

func TestKMeans_DeterministicUnderFixedSeed(t *testing.T) {
	var data [][]float64
	for i := 0; i < 30; i++ {
		data = append(data, []float64{float64(i % 7), float64(i % 3)})
	}

	first := analytics.NewKMeans(4, constants.ModelSeed).FitPredict(data)
	second := analytics.NewKMeans(4, constants.ModelSeed).FitPredict(data)
	assert.Equal(t, first, second)
}

func TestKMeans_UniformPopulationCollapsesToOneCluster(t *testing.T) {
	data := make([][]float64, 50)
	for i := range data {
		data[i] = []float64{1, 2, 3}
	}

	labels := analytics.NewKMeans(analytics.ClusterCount(len(data)), constants.ModelSeed).FitPredict(data)

	for _, l := range labels {
		assert.Equal(t, labels[0], l)
	}
}

func TestKMeans_BatchSmallerThanK(t *testing.T) {
	labels := analytics.NewKMeans(2, constants.ModelSeed).FitPredict([][]float64{{1, 1}})
	assert.Equal(t, []int{0}, labels)
}
