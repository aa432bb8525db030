package analytics

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// IsolationForest is an isolation-based anomaly model. Trees are grown on
// seeded random subsamples; the decision threshold is calibrated on the
// fitted data so that approximately the contamination fraction of rows
// score as anomalous.
type IsolationForest struct {
	trees         int
	subsample     int
	contamination float64
	rng           *rand.Rand
}

// isoNode is one node of an isolation tree. Leaves record the number of
// rows that reached them so truncated paths can be extended by the
// expected remaining depth.
type isoNode struct {
	feature int
	split   float64
	left    *isoNode
	right   *isoNode
	size    int
}

// NewIsolationForest creates a seeded isolation forest.
func NewIsolationForest(trees, subsample int, contamination float64, seed int64) *IsolationForest {
	return &IsolationForest{
		trees:         trees,
		subsample:     subsample,
		contamination: contamination,
		rng:           rand.New(rand.NewSource(seed)),
	}
}

// FitPredict fits the forest on the rows and returns one outlier flag per
// row. The threshold is the (1 - contamination) quantile of the fitted
// anomaly scores; a row is an outlier only when its score strictly exceeds
// it, so a perfectly uniform population yields zero outliers.
func (f *IsolationForest) FitPredict(data [][]float64) []bool {
	n := len(data)
	flags := make([]bool, n)
	if n == 0 {
		return flags
	}

	scores := f.scores(data)

	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)
	threshold := stat.Quantile(1-f.contamination, stat.Empirical, sorted, nil)

	for i, s := range scores {
		flags[i] = s > threshold
	}
	return flags
}

// scores computes the anomaly score s(x) = 2^(-E[h(x)] / c(m)) for every
// row, with m the per-tree sample size.
func (f *IsolationForest) scores(data [][]float64) []float64 {
	n := len(data)
	sample := f.subsample
	if sample > n {
		sample = n
	}
	heightLimit := int(math.Ceil(math.Log2(math.Max(float64(sample), 2))))

	roots := make([]*isoNode, f.trees)
	for t := range roots {
		roots[t] = f.buildTree(f.sampleRows(data, sample), 0, heightLimit)
	}

	norm := averagePathLength(sample)
	scores := make([]float64, n)
	for i, row := range data {
		var total float64
		for _, root := range roots {
			total += pathLength(root, row, 0)
		}
		mean := total / float64(f.trees)
		scores[i] = math.Pow(2, -mean/norm)
	}
	return scores
}

// sampleRows draws rows without replacement. With sample == len(data) this
// is a deterministic-seed shuffle of the whole population.
func (f *IsolationForest) sampleRows(data [][]float64, sample int) [][]float64 {
	perm := f.rng.Perm(len(data))
	rows := make([][]float64, sample)
	for i := 0; i < sample; i++ {
		rows[i] = data[perm[i]]
	}
	return rows
}

func (f *IsolationForest) buildTree(rows [][]float64, depth, heightLimit int) *isoNode {
	if len(rows) <= 1 || depth >= heightLimit {
		return &isoNode{size: len(rows)}
	}

	// Only features with spread can split; duplicate-only partitions
	// become leaves.
	splittable := splittableFeatures(rows)
	if len(splittable) == 0 {
		return &isoNode{size: len(rows)}
	}

	feature := splittable[f.rng.Intn(len(splittable))]
	lo, hi := featureRange(rows, feature)
	split := lo + f.rng.Float64()*(hi-lo)

	var left, right [][]float64
	for _, row := range rows {
		if row[feature] < split {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}

	return &isoNode{
		feature: feature,
		split:   split,
		left:    f.buildTree(left, depth+1, heightLimit),
		right:   f.buildTree(right, depth+1, heightLimit),
	}
}

func pathLength(node *isoNode, row []float64, depth int) float64 {
	if node.left == nil && node.right == nil {
		return float64(depth) + averagePathLength(node.size)
	}
	if row[node.feature] < node.split {
		return pathLength(node.left, row, depth+1)
	}
	return pathLength(node.right, row, depth+1)
}

// averagePathLength is c(m), the expected path length of an unsuccessful
// BST search over m rows; it normalizes scores and extends truncated paths.
func averagePathLength(m int) float64 {
	if m <= 1 {
		return 0
	}
	h := math.Log(float64(m-1)) + 0.5772156649 // harmonic number approximation
	return 2*h - 2*float64(m-1)/float64(m)
}

func splittableFeatures(rows [][]float64) []int {
	var out []int
	for j := range rows[0] {
		lo, hi := featureRange(rows, j)
		if hi > lo {
			out = append(out, j)
		}
	}
	return out
}

func featureRange(rows [][]float64, feature int) (float64, float64) {
	lo, hi := rows[0][feature], rows[0][feature]
	for _, row := range rows[1:] {
		v := row[feature]
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
