package analytics

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/aera-platform/riskengine/pkg/constants"
)

const kmeansMaxIterations = 100

// ClusterCount derives k from the population size:
// clamp(round(sqrt(n)), 2, 6). k is at least 2 even for a single-row batch
// and never exceeds 6 regardless of population size.
func ClusterCount(n int) int {
	k := int(math.Round(math.Sqrt(float64(n))))
	if k < constants.KMeansMinClusters {
		return constants.KMeansMinClusters
	}
	if k > constants.KMeansMaxClusters {
		return constants.KMeansMaxClusters
	}
	return k
}

// KMeans is Lloyd's algorithm with k-means++ seeding from a fixed seed, so
// repeated runs over identical input produce identical cluster ids.
type KMeans struct {
	k   int
	rng *rand.Rand
}

// NewKMeans creates a seeded k-means model for k clusters.
func NewKMeans(k int, seed int64) *KMeans {
	return &KMeans{k: k, rng: rand.New(rand.NewSource(seed))}
}

// FitPredict clusters the rows and returns one label in [0, k) per row.
// Batches smaller than k are legal; surplus centroids simply end up empty
// after duplicate initialization and absorb no rows.
func (km *KMeans) FitPredict(data [][]float64) []int {
	n := len(data)
	labels := make([]int, n)
	if n == 0 {
		return labels
	}

	centroids := km.seedCentroids(data)
	dims := len(data[0])

	for iter := 0; iter < kmeansMaxIterations; iter++ {
		changed := false
		for i, row := range data {
			best := nearestCentroid(row, centroids)
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}

		counts := make([]int, km.k)
		sums := make([][]float64, km.k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, row := range data {
			counts[labels[i]]++
			floats.Add(sums[labels[i]], row)
		}

		for c := range centroids {
			if counts[c] == 0 {
				// Re-seat an empty centroid on the row farthest from its
				// current centroid.
				centroids[c] = append([]float64(nil), data[farthestRow(data, labels, centroids)]...)
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			centroids[c] = sums[c]
		}

		if !changed && iter > 0 {
			break
		}
	}

	return labels
}

// seedCentroids is k-means++: the first centroid is a uniform pick, each
// subsequent one is sampled proportionally to squared distance from the
// nearest chosen centroid.
func (km *KMeans) seedCentroids(data [][]float64) [][]float64 {
	n := len(data)
	centroids := make([][]float64, 0, km.k)
	centroids = append(centroids, append([]float64(nil), data[km.rng.Intn(n)]...))

	dist2 := make([]float64, n)
	for len(centroids) < km.k {
		var total float64
		for i, row := range data {
			d := squaredDistance(row, centroids[len(centroids)-1])
			if len(centroids) == 1 || d < dist2[i] {
				dist2[i] = d
			}
			total += dist2[i]
		}

		if total == 0 {
			// All rows coincide with a centroid; duplicate one of them so
			// tiny or degenerate batches still get k centroids.
			centroids = append(centroids, append([]float64(nil), data[km.rng.Intn(n)]...))
			continue
		}

		target := km.rng.Float64() * total
		var cum float64
		pick := n - 1
		for i, d := range dist2 {
			cum += d
			if cum >= target {
				pick = i
				break
			}
		}
		centroids = append(centroids, append([]float64(nil), data[pick]...))
	}
	return centroids
}

func nearestCentroid(row []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(row, centroid); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func farthestRow(data [][]float64, labels []int, centroids [][]float64) int {
	worst := 0
	worstDist := -1.0
	for i, row := range data {
		if d := squaredDistance(row, centroids[labels[i]]); d > worstDist {
			worstDist = d
			worst = i
		}
	}
	return worst
}

func squaredDistance(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}
