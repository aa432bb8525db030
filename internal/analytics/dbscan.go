package analytics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/aera-platform/riskengine/pkg/constants"
)

// NoiseLabel marks a row not reachable from any dense core.
const NoiseLabel = -1

// MinSamples derives the DBSCAN density threshold from the population
// size: clamp(floor(n/20), 3, 8).
func MinSamples(n int) int {
	m := n / 20
	if m < constants.DBSCANMinSamplesFloor {
		return constants.DBSCANMinSamplesFloor
	}
	if m > constants.DBSCANMinSamplesCeil {
		return constants.DBSCANMinSamplesCeil
	}
	return m
}

// DBSCAN performs density-connectivity clustering with a fixed Euclidean
// neighborhood radius on standardized features.
type DBSCAN struct {
	eps        float64
	minSamples int
}

// NewDBSCAN creates a DBSCAN model.
func NewDBSCAN(eps float64, minSamples int) *DBSCAN {
	return &DBSCAN{eps: eps, minSamples: minSamples}
}

// FitPredict labels every row with a density cluster id starting at 0, or
// NoiseLabel for rows outside every dense neighborhood chain. Labels are
// deterministic given row order.
func (d *DBSCAN) FitPredict(data [][]float64) []int {
	n := len(data)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = NoiseLabel
	}
	visited := make([]bool, n)

	cluster := 0
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		visited[i] = true

		neighbors := d.regionQuery(data, i)
		if len(neighbors) < d.minSamples {
			continue // stays noise unless later claimed as a border point
		}

		labels[i] = cluster
		d.expand(data, neighbors, cluster, labels, visited)
		cluster++
	}

	return labels
}

// expand grows a cluster outward from a core point's neighborhood,
// breadth-first. Border points join the cluster without seeding further
// expansion.
func (d *DBSCAN) expand(data [][]float64, seeds []int, cluster int, labels []int, visited []bool) {
	for q := 0; q < len(seeds); q++ {
		j := seeds[q]

		if !visited[j] {
			visited[j] = true
			neighbors := d.regionQuery(data, j)
			if len(neighbors) >= d.minSamples {
				seeds = append(seeds, neighbors...)
			}
		}

		if labels[j] == NoiseLabel {
			labels[j] = cluster
		}
	}
}

// regionQuery returns the indices within eps of row i, i included.
func (d *DBSCAN) regionQuery(data [][]float64, i int) []int {
	var neighbors []int
	for j, row := range data {
		if floats.Distance(data[i], row, 2) <= d.eps {
			neighbors = append(neighbors, j)
		}
	}
	return neighbors
}
